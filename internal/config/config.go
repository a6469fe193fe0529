// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Token schemes.
const (
	TokenPrefix = "prefix"
	TokenJWT    = "jwt"
)

// Password schemes.
const (
	PasswordPlain  = "plain"
	PasswordBcrypt = "bcrypt"
)

// Config holds all application configuration.
type Config struct {
	Port string `env:"PORT" envDefault:"4000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Storage
	StoreDriver  string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:":memory:"`

	// Credentials
	TokenScheme    string `env:"TOKEN_SCHEME" envDefault:"prefix"`
	JWTSecret      string `env:"JWT_SECRET"`
	PasswordScheme string `env:"PASSWORD_SCHEME" envDefault:"plain"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"12"`

	// Comma-separated list of allowed origins, e.g. "https://app.example.com".
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`

	// Signup/login limiter. A rate of 0 disables it.
	AuthRateLimitRPS   float64 `env:"AUTH_RATE_LIMIT_RPS" envDefault:"1"`
	AuthRateLimitBurst int     `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`

	// Server timeouts
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"10s"`
	IdleTimeout       time.Duration `env:"IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load parses environment variables and validates the result.
func Load() (*Config, error) {
	return load(env.Options{})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	switch c.StoreDriver {
	case DriverMemory, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %s or %s, got %q", DriverMemory, DriverSQLite, c.StoreDriver))
	}

	switch c.TokenScheme {
	case TokenPrefix:
	case TokenJWT:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required when TOKEN_SCHEME=jwt"))
		} else if len(c.JWTSecret) < 32 {
			errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256"))
		}
	default:
		errs = append(errs, fmt.Errorf("TOKEN_SCHEME must be %s or %s, got %q", TokenPrefix, TokenJWT, c.TokenScheme))
	}

	switch c.PasswordScheme {
	case PasswordPlain:
	case PasswordBcrypt:
		if c.BcryptCost < 4 || c.BcryptCost > 14 {
			errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost))
		}
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_SCHEME must be %s or %s, got %q", PasswordPlain, PasswordBcrypt, c.PasswordScheme))
	}

	if c.AuthRateLimitRPS < 0 {
		errs = append(errs, fmt.Errorf("AUTH_RATE_LIMIT_RPS must not be negative, got %v", c.AuthRateLimitRPS))
	}
	if c.AuthRateLimitRPS > 0 && c.AuthRateLimitBurst < 1 {
		errs = append(errs, fmt.Errorf("AUTH_RATE_LIMIT_BURST must be at least 1, got %d", c.AuthRateLimitBurst))
	}

	return errors.Join(errs...)
}

// RateLimitEnabled reports whether signup and login are throttled.
func (c *Config) RateLimitEnabled() bool {
	return c.AuthRateLimitRPS > 0
}

// AllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) AllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))
	for _, origin := range origins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ParseLogLevel maps a LOG_LEVEL value to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", level)
}
