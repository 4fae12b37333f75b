package config

import (
	"os"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ACCESS_PASSWORD", "hunter2")
}

func TestNewDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if cfg.Gemini.Model != "gemini-1.5-flash" {
		t.Errorf("model = %q", cfg.Gemini.Model)
	}
	if cfg.Server.RESTPort != "8080" || cfg.Server.WSPort != "8081" {
		t.Errorf("ports = %q/%q", cfg.Server.RESTPort, cfg.Server.WSPort)
	}
	if cfg.NBA.Season != "2025-26" {
		t.Errorf("season = %q", cfg.NBA.Season)
	}
	if cfg.NBA.TrendsTTL != 10*time.Minute {
		t.Errorf("trends TTL = %v, want 10m", cfg.NBA.TrendsTTL)
	}
	if cfg.NBA.TeamMapTTL != 24*time.Hour {
		t.Errorf("team map TTL = %v, want 24h", cfg.NBA.TeamMapTTL)
	}
	if cfg.Injuries.TTL != time.Hour {
		t.Errorf("injuries TTL = %v, want 1h", cfg.Injuries.TTL)
	}
	if cfg.Archive.DSN != "" {
		t.Errorf("archive should default to disabled, got %q", cfg.Archive.DSN)
	}
	if !cfg.Refresh.Enabled || cfg.Refresh.DailyHour != 3 {
		t.Errorf("refresh defaults wrong: %+v", cfg.Refresh)
	}
}

func TestNewOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("CURRENT_SEASON", "2024-25")
	t.Setenv("TRENDS_TTL", "5m")
	t.Setenv("REST_PORT", "9090")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if cfg.NBA.Season != "2024-25" {
		t.Errorf("season = %q", cfg.NBA.Season)
	}
	if cfg.NBA.TrendsTTL != 5*time.Minute {
		t.Errorf("trends TTL = %v", cfg.NBA.TrendsTTL)
	}
	if cfg.Server.RESTPort != "9090" {
		t.Errorf("rest port = %q", cfg.Server.RESTPort)
	}
}

func TestNewMissingSecrets(t *testing.T) {
	// t.Setenv saves and restores; unset afterwards so the vars are absent.
	t.Setenv("GEMINI_API_KEY", "x")
	t.Setenv("ACCESS_PASSWORD", "x")
	os.Unsetenv("GEMINI_API_KEY")
	os.Unsetenv("ACCESS_PASSWORD")

	if _, err := New(); err == nil {
		t.Error("expected error when required secrets are missing")
	}
}
