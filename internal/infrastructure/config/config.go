package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/chronledger/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Database. An empty DATABASE_URL selects the in-memory backend.
	DatabaseURL         string        `env:"DATABASE_URL"`
	DatabaseMaxConns    int           `env:"DATABASE_MAX_CONNS"    envDefault:"25"`
	DatabaseMinConns    int           `env:"DATABASE_MIN_CONNS"    envDefault:"5"`
	DatabaseTimeout     time.Duration `env:"DATABASE_TIMEOUT"      envDefault:"30s"`
	DatabaseLockTimeout time.Duration `env:"DATABASE_LOCK_TIMEOUT" envDefault:"5s"`
	RunMigrations       bool          `env:"RUN_MIGRATIONS"        envDefault:"true"`
	MigrationsPath      string        `env:"MIGRATIONS_PATH"`

	// Redis (optional)
	RedisURL string `env:"REDIS_URL"`

	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	HTTPRateLimit       float64       `env:"HTTP_RATE_LIMIT"       envDefault:"0"` // requests per second per client, 0 disables
	HTTPRateBurst       int           `env:"HTTP_RATE_BURST"       envDefault:"20"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Interest accrual
	InterestEnabled  bool            `env:"INTEREST_ENABLED"   envDefault:"true"`
	InterestRate     decimal.Decimal `env:"INTEREST_RATE"      envDefault:"0.1"`
	InterestInterval time.Duration   `env:"INTEREST_INTERVAL"  envDefault:"24h"`
	InterestLeaseTTL time.Duration   `env:"INTEREST_LEASE_TTL"` // zero uses INTEREST_INTERVAL
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Persistent reports whether the PostgreSQL backend is configured.
func (c *Config) Persistent() bool {
	return c.DatabaseURL != ""
}

// RedisEnabled reports whether Redis is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// Validate checks values env tags cannot express.
func (c *Config) Validate() error {
	if c.DatabaseLockTimeout <= 0 {
		return errors.New("DATABASE_LOCK_TIMEOUT must be positive")
	}

	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}

	if c.InterestEnabled {
		if err := domain.ValidateRate(c.InterestRate); err != nil {
			return fmt.Errorf("INTEREST_RATE %s: %w", c.InterestRate, err)
		}
		if c.InterestInterval <= 0 {
			return errors.New("INTEREST_INTERVAL must be positive")
		}
		if c.InterestLeaseTTL < 0 {
			return errors.New("INTEREST_LEASE_TTL must not be negative")
		}
	}

	return nil
}
