package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medmatch/medmatch/internal/config"
	"github.com/medmatch/medmatch/internal/domain/booking"
	"github.com/medmatch/medmatch/internal/domain/provider"
	"github.com/medmatch/medmatch/internal/domain/review"
	"github.com/medmatch/medmatch/internal/domain/session"
	"github.com/medmatch/medmatch/internal/domain/triage"
	"github.com/medmatch/medmatch/internal/platform/auth"
	"github.com/medmatch/medmatch/internal/platform/db"
	"github.com/medmatch/medmatch/internal/platform/geo"
	"github.com/medmatch/medmatch/internal/platform/middleware"
	"github.com/medmatch/medmatch/internal/platform/oracle"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medmatch-server",
		Short: "MedMatch symptom triage API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MedMatch API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Reasoning service client
	oracleClient, err := oracle.NewGeminiClient(ctx, oracle.GeminiConfig{
		APIKey:         cfg.GeminiAPIKey,
		TriageModel:    cfg.TriageModel,
		DiscoveryModel: cfg.DiscoveryModel,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create reasoning client")
	}
	logger.Info().
		Str("triage_model", cfg.TriageModel).
		Str("discovery_model", cfg.DiscoveryModel).
		Msg("reasoning client ready")

	// Session tokens
	issuer := auth.NewTokenIssuer(cfg.SessionSecret, time.Duration(cfg.SessionTTL)*time.Hour)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// API groups. The base group resolves a session when one is offered;
	// the authed group requires one.
	apiV1 := e.Group("/api/v1")
	apiV1.Use(auth.OptionalSession(issuer))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	authed := apiV1.Group("", auth.SessionMiddleware(issuer))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// -- Register Domain Handlers --

	locator := geo.NewIPLocator(cfg.GeoLookupURL, cfg.GeoTimeout())

	// Triage domain
	triageRepo := triage.NewRepoPG(pool)
	triageSvc := triage.NewService(oracleClient, triageRepo, logger)
	triage.NewHandler(triageSvc).RegisterRoutes(apiV1, authed)

	// Provider discovery domain
	providerSvc := provider.NewService(oracleClient, locator, logger)
	provider.NewHandler(providerSvc).RegisterRoutes(apiV1)

	// Session domain
	sessionRepo := session.NewRepoPG(pool)
	sessionSvc := session.NewService(sessionRepo, issuer)
	session.NewHandler(sessionSvc).RegisterRoutes(apiV1, authed)

	// Booking domain
	bookingSvc := booking.NewService(sessionRepo)
	booking.NewHandler(bookingSvc).RegisterRoutes(authed)

	// Review domain (in-memory, resets on restart)
	reviewStore := review.NewStore()
	review.NewHandler(reviewStore).RegisterRoutes(apiV1, authed)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
