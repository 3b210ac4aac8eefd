package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all process-level application configuration. Per-job planner
// parameters are a separate, request-scoped document (see internal/planner)
// and do not live here.
type Config struct {
	// Application settings
	AppEnv        string
	AppPort       int
	FrontendURL   string
	RunMigrations bool

	// Database settings
	DatabaseURL                string
	DatabaseMaxConnections     int
	DatabaseMaxIdleConnections int
	DatabaseConnectionLifetime time.Duration

	// CORS settings
	CORSAllowedOrigins   string
	CORSAllowCredentials bool

	// Logging
	LogLevel  string
	LogFormat string

	// NATS settings
	NATSURL string

	// Planning job limits
	MaxConcurrentJobs int
	JobSolverTimeout  time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		AppPort:     getEnvAsInt("APP_PORT", 8080),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		DatabaseURL:                getEnv("DATABASE_URL", ""),
		DatabaseMaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 25),
		DatabaseMaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
		DatabaseConnectionLifetime: getEnvAsDuration("DATABASE_CONNECTION_LIFETIME", 5*time.Minute),

		CORSAllowedOrigins:   getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		CORSAllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		NATSURL: getEnv("NATS_URL", "nats://localhost:4222"),

		MaxConcurrentJobs: getEnvAsInt("MAX_CONCURRENT_JOBS", 5),
		JobSolverTimeout:  getEnvAsDuration("JOB_SOLVER_TIMEOUT", 30*time.Second),

		RunMigrations: getEnvAsBool("RUN_MIGRATIONS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.MaxConcurrentJobs <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_JOBS must be positive")
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
