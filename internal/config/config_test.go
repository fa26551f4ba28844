package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/medmatch_test")
	os.Setenv("GEMINI_API_KEY", "test-key")
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("GEMINI_API_KEY")
	})
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.TriageModel != "gemini-3-pro-preview" {
		t.Errorf("expected default triage model, got %s", cfg.TriageModel)
	}
	if cfg.DiscoveryModel != "gemini-2.5-flash" {
		t.Errorf("expected default discovery model, got %s", cfg.DiscoveryModel)
	}
	if cfg.SessionSecret == "" {
		t.Error("expected dev session secret fallback")
	}
	if cfg.GeoTimeout() != 8*time.Second {
		t.Errorf("expected 8s geo timeout, got %v", cfg.GeoTimeout())
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	os.Setenv("GEMINI_API_KEY", "test-key")
	os.Unsetenv("DATABASE_URL")
	t.Cleanup(func() { os.Unsetenv("GEMINI_API_KEY") })

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	os.Setenv("DATABASE_URL", "postgres://localhost:5432/medmatch_test")
	os.Unsetenv("GEMINI_API_KEY")
	t.Cleanup(func() { os.Unsetenv("DATABASE_URL") })

	if _, err := Load(); err == nil {
		t.Fatal("expected error when GEMINI_API_KEY is missing")
	}
}

func TestValidate_ProductionSecret(t *testing.T) {
	cfg := &Config{Env: "production", SessionSecret: "medmatch-dev-secret", SessionTTL: 72}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for dev secret in production")
	}

	cfg.SessionSecret = "a-real-secret"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_SessionTTL(t *testing.T) {
	cfg := &Config{Env: "development", SessionSecret: "x", SessionTTL: 0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation failure for zero session TTL")
	}
}

func TestGeoTimeout_Override(t *testing.T) {
	cfg := &Config{GeoTimeoutSecs: 10}
	if cfg.GeoTimeout() != 10*time.Second {
		t.Errorf("expected 10s, got %v", cfg.GeoTimeout())
	}
}
