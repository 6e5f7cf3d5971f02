// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server and logbookctl.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "5000";
	// 8080 is left to a locally run OpenTripPlanner.
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// PlannerURL is the OpenTripPlanner Transmodel GraphQL endpoint.
	PlannerURL string

	// PlannerTimeout bounds each call to the planner. Defaults to 10s.
	PlannerTimeout time.Duration

	// Location is the operating time zone (TIMEZONE, an IANA name).
	// Bus leg times are stored as wall-clock values in it. Defaults to America/Chicago.
	Location *time.Location

	// MaxBodyBytes caps request body sizes. Defaults to 1 MiB.
	MaxBodyBytes int64
}

const (
	defaultPlannerURL   = "http://localhost:8080/otp/transmodel/v3"
	defaultTimezone     = "America/Chicago"
	defaultMaxBodyBytes = 1 << 20
)

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory, when present, fills in variables that
// are not already set. Returns an error listing any required variables that
// are not set, or naming the first optional value that does not parse.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		Port:        getEnv("PORT", "5000"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		PlannerURL:  getEnv("PLANNER_URL", defaultPlannerURL),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	var err error
	if cfg.PlannerTimeout, err = time.ParseDuration(getEnv("PLANNER_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("PLANNER_TIMEOUT: %w", err)
	}
	if cfg.PlannerTimeout <= 0 {
		return Config{}, fmt.Errorf("PLANNER_TIMEOUT must be positive, got %s", cfg.PlannerTimeout)
	}
	if cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", defaultTimezone)); err != nil {
		return Config{}, fmt.Errorf("TIMEZONE: %w", err)
	}
	if cfg.MaxBodyBytes, err = strconv.ParseInt(getEnv("MAX_BODY_BYTES", strconv.Itoa(defaultMaxBodyBytes)), 10, 64); err != nil {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES: %w", err)
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", cfg.MaxBodyBytes)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
