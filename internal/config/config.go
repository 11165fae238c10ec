// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultDBPassword = "changeme"
	defaultJWTSecret  = "dev-secret-change-me"
	minSecretLength   = 32
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host            string        `envconfig:"APP_HOST" default:"0.0.0.0"`
	Port            string        `envconfig:"APP_PORT" default:"8080"`
	Env             string        `envconfig:"APP_ENV" default:"development"` // "development", "production", "testing"
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"APP_SHUTDOWN_TIMEOUT" default:"30s"`

	// PostgreSQL connection
	DBHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	DBPort     string `envconfig:"POSTGRES_PORT" default:"5432"`
	DBUser     string `envconfig:"POSTGRES_USER" default:"adpress"`
	DBPassword string `envconfig:"POSTGRES_PASSWORD" default:"changeme"`
	DBName     string `envconfig:"POSTGRES_DB" default:"adpress"`
	DBSSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`

	// Valkey (Redis-compatible cache)
	ValkeyHost     string `envconfig:"VALKEY_HOST" default:"localhost"`
	ValkeyPort     string `envconfig:"VALKEY_PORT" default:"6379"`
	ValkeyPassword string `envconfig:"VALKEY_PASSWORD"`

	// Auth
	JWTSecret     string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	JWTTTL        time.Duration `envconfig:"JWT_TTL" default:"168h"`
	AllowRegister bool          `envconfig:"AUTH_ALLOW_REGISTER" default:"true"`
	AdminEmail    string        `envconfig:"ADMIN_EMAIL" default:"admin@adpress.local"`
	AdminPassword string        `envconfig:"ADMIN_PASSWORD" default:"changeme123"`

	// HTTP surface
	FrontendURL string        `envconfig:"CORS_FRONTEND_URL" default:"http://localhost:3000"`
	CacheTTL    time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv reads a .env file into the process environment outside
// production. Variables already set win. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if os.Getenv("APP_ENV") == "production" {
		return nil
	}
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	slog.Debug("loaded environment file", "paths", existing)
	return nil
}

// Validate checks values that envconfig cannot.
func (c *Config) Validate() error {
	switch c.Env {
	case "development", "production", "testing":
	default:
		return fmt.Errorf("APP_ENV %q must be development, production or testing", c.Env)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.CacheTTL < 0 {
		return errors.New("CACHE_TTL must not be negative")
	}

	if c.Env == "production" {
		if c.DBPassword == defaultDBPassword {
			return errors.New("POSTGRES_PASSWORD must be set in production")
		}
		if c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < minSecretLength {
			return fmt.Errorf("JWT_SECRET must be set to at least %d characters in production", minSecretLength)
		}
	}
	return nil
}

// SlogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("LOG_LEVEL %q must be debug, info, warn or error", c.LogLevel)
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
