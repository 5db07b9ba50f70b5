package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type RuntimeConfig struct {
	DatabasePath         string
	DesktopNotifications bool
	SchedulerBuffer      int
	QuoteBaseURL         string
	QuoteTimeout         time.Duration
	Timezone             string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DatabasePath:         defaultDatabasePath(),
		DesktopNotifications: true,
		SchedulerBuffer:      64,
		QuoteBaseURL:         "https://api.quotable.io",
		QuoteTimeout:         10 * time.Second,
		Timezone:             "",
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("HABITD_DATABASE_PATH")); v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := getEnvBool("HABITD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("HABITD_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.SchedulerBuffer = v
	}
	if v := strings.TrimSpace(os.Getenv("HABITD_QUOTE_BASE_URL")); v != "" {
		cfg.QuoteBaseURL = strings.TrimRight(v, "/")
	}
	if v, ok := getEnvInt("HABITD_QUOTE_TIMEOUT_SECONDS"); ok && v > 0 {
		cfg.QuoteTimeout = time.Duration(v) * time.Second
	}
	if v := strings.TrimSpace(os.Getenv("HABITD_TIMEZONE")); v != "" {
		cfg.Timezone = v
	}
	return cfg
}

// Location resolves the configured timezone, defaulting to the host zone.
func (c RuntimeConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "habitd.db"
	}
	return filepath.Join(home, ".habitd", "habitd.db")
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
