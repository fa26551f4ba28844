package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Env            string   `mapstructure:"ENV"`
	DatabaseURL    string   `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32    `mapstructure:"DB_MIN_CONNS"`
	GeminiAPIKey   string   `mapstructure:"GEMINI_API_KEY"`
	TriageModel    string   `mapstructure:"TRIAGE_MODEL"`
	DiscoveryModel string   `mapstructure:"DISCOVERY_MODEL"`
	SessionSecret  string   `mapstructure:"SESSION_SECRET"`
	SessionTTL     int      `mapstructure:"SESSION_TTL_HOURS"`
	CORSOrigins    []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int      `mapstructure:"RATE_LIMIT_BURST"`
	GeoLookupURL   string   `mapstructure:"GEO_LOOKUP_URL"`
	GeoTimeoutSecs int      `mapstructure:"GEO_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("TRIAGE_MODEL", "gemini-3-pro-preview")
	v.SetDefault("DISCOVERY_MODEL", "gemini-2.5-flash")
	v.SetDefault("SESSION_TTL_HOURS", 72)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("GEO_TIMEOUT_SECONDS", 8)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("TRIAGE_MODEL")
	v.BindEnv("DISCOVERY_MODEL")
	v.BindEnv("SESSION_SECRET")
	v.BindEnv("SESSION_TTL_HOURS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("GEO_LOOKUP_URL")
	v.BindEnv("GEO_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	if cfg.IsDev() && cfg.SessionSecret == "" {
		cfg.SessionSecret = "medmatch-dev-secret"
		log.Println("WARNING: SESSION_SECRET not set; using the development default.")
		log.Println("WARNING: Set SESSION_SECRET before deploying to production.")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GeoTimeout returns the bounded wait applied to a geolocation lookup.
// Past this deadline the caller proceeds with no coordinates.
func (c *Config) GeoTimeout() time.Duration {
	if c.GeoTimeoutSecs <= 0 {
		return 8 * time.Second
	}
	return time.Duration(c.GeoTimeoutSecs) * time.Second
}

// Validate checks that the configuration is safe to run. Outside development
// a real SESSION_SECRET must be provided so issued session tokens cannot be
// forged with the public default.
func (c *Config) Validate() error {
	if !c.IsDev() && (c.SessionSecret == "" || c.SessionSecret == "medmatch-dev-secret") {
		return fmt.Errorf("SESSION_SECRET must be set when ENV=%q", c.Env)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive, got %d", c.SessionTTL)
	}
	return nil
}
