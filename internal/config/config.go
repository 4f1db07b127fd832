// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the whole application configuration. It is loaded once at
// startup and treated as immutable.
type Config struct {
	// Database
	DatabaseURL string

	// Portal
	PortalBaseURL  string
	PortalUsername string
	PortalPassword string

	// Sync
	SyncInterval     time.Duration
	SyncWindowStart  string // HH:MM, inclusive
	SyncWindowEnd    string // HH:MM, exclusive
	SyncTimezone     string
	SyncPaceInterval time.Duration // minimum gap between per-member fetches
	FetchTimeout     time.Duration // per-member fetch bound
	FetchMaxSize     int64

	// Retention
	RetentionDays int

	// Rate Limit
	RateLimitGeneral int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load reads the configuration from environment variables. A .env file in
// the working directory is honored when present. Missing required variables
// are reported together in a single error.
func Load() (*Config, error) {
	// A missing .env file is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.PortalBaseURL = os.Getenv("PORTAL_BASE_URL")
	if cfg.PortalBaseURL == "" {
		missing = append(missing, "PORTAL_BASE_URL")
	}

	cfg.PortalUsername = os.Getenv("PORTAL_USERNAME")
	if cfg.PortalUsername == "" {
		missing = append(missing, "PORTAL_USERNAME")
	}

	cfg.PortalPassword = os.Getenv("PORTAL_PASSWORD")
	if cfg.PortalPassword == "" {
		missing = append(missing, "PORTAL_PASSWORD")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults. The sync window mirrors when the portal
	// publishes new data; runs outside it only load the remote host for nothing.
	cfg.SyncInterval = getEnvDuration("SYNC_INTERVAL", 5*time.Minute)
	cfg.SyncWindowStart = getEnvString("SYNC_WINDOW_START", "06:00")
	cfg.SyncWindowEnd = getEnvString("SYNC_WINDOW_END", "07:00")
	cfg.SyncTimezone = getEnvString("SYNC_TIMEZONE", "Asia/Makassar")
	cfg.SyncPaceInterval = getEnvDuration("SYNC_PACE_INTERVAL", 2*time.Second)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 15*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 2097152)
	cfg.RetentionDays = getEnvInt("RETENTION_DAYS", 400)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	if _, err := time.Parse("15:04", cfg.SyncWindowStart); err != nil {
		return nil, fmt.Errorf("invalid SYNC_WINDOW_START %q: %w", cfg.SyncWindowStart, err)
	}
	if _, err := time.Parse("15:04", cfg.SyncWindowEnd); err != nil {
		return nil, fmt.Errorf("invalid SYNC_WINDOW_END %q: %w", cfg.SyncWindowEnd, err)
	}
	if _, err := time.LoadLocation(cfg.SyncTimezone); err != nil {
		return nil, fmt.Errorf("invalid SYNC_TIMEZONE %q: %w", cfg.SyncTimezone, err)
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
