package config

import (
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.SchedulerBuffer != 64 {
		t.Fatalf("unexpected scheduler buffer default: %+v", cfg)
	}
	if !cfg.DesktopNotifications {
		t.Fatal("expected desktop notifications on by default")
	}
	if cfg.QuoteBaseURL != "https://api.quotable.io" || cfg.QuoteTimeout != 10*time.Second {
		t.Fatalf("unexpected quote defaults: %+v", cfg)
	}
	if cfg.DatabasePath == "" {
		t.Fatal("expected a database path default")
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("HABITD_DATABASE_PATH", "/tmp/custom.db")
	t.Setenv("HABITD_DESKTOP_NOTIFICATIONS", "off")
	t.Setenv("HABITD_SCHEDULER_BUFFER", "128")
	t.Setenv("HABITD_QUOTE_BASE_URL", "http://localhost:8080/")
	t.Setenv("HABITD_QUOTE_TIMEOUT_SECONDS", "3")
	t.Setenv("HABITD_TIMEZONE", "America/New_York")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DatabasePath != "/tmp/custom.db" {
		t.Fatalf("unexpected database path: %+v", cfg)
	}
	if cfg.DesktopNotifications {
		t.Fatal("expected desktop notifications off from env")
	}
	if cfg.SchedulerBuffer != 128 {
		t.Fatalf("unexpected scheduler buffer: %+v", cfg)
	}
	if cfg.QuoteBaseURL != "http://localhost:8080" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.QuoteBaseURL)
	}
	if cfg.QuoteTimeout != 3*time.Second {
		t.Fatalf("unexpected quote timeout: %v", cfg.QuoteTimeout)
	}
	if cfg.Timezone != "America/New_York" {
		t.Fatalf("unexpected timezone: %q", cfg.Timezone)
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	if loc.String() != "America/New_York" {
		t.Fatalf("unexpected location: %s", loc)
	}
}

func TestRuntimeConfigIgnoresInvalidEnv(t *testing.T) {
	t.Setenv("HABITD_SCHEDULER_BUFFER", "not-a-number")
	t.Setenv("HABITD_DESKTOP_NOTIFICATIONS", "maybe")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.SchedulerBuffer != 64 {
		t.Fatalf("invalid int override applied: %+v", cfg)
	}
	if !cfg.DesktopNotifications {
		t.Fatal("invalid bool override applied")
	}
}
