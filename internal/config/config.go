// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port            int
	ShutdownTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string // text or json

	// Storage
	Storage string
	DBPath  string

	// JWT / Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Currency
	ReferenceCurrency string
	RedisURL          string // empty uses the built-in rate table
	RatesKey          string
}

// Load reads a .env file if one exists, then configuration from environment
// variables with defaults.
func Load() *Config {
	_ = godotenv.Load() // Load .env file if present

	return &Config{
		Port:            getEnvInt("PORT", 8080),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),

		Storage: strings.ToLower(getEnv("STORAGE", StorageSQLite)),
		DBPath:  getEnv("DB_PATH", "./data/settleup.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		ReferenceCurrency: strings.ToUpper(getEnv("REFERENCE_CURRENCY", "USD")),
		RedisURL:          getEnv("REDIS_URL", ""),
		RatesKey:          getEnv("RATES_KEY", "settleup:rates"),
	}
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	switch c.Storage {
	case StorageSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for sqlite storage"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE %q (want %s or %s)", c.Storage, StorageSQLite, StorageMemory))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q (want text or json)", c.LogFormat))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.ReferenceCurrency == "" {
		errs = append(errs, errors.New("REFERENCE_CURRENCY is required"))
	}
	if c.RedisURL != "" && c.RatesKey == "" {
		errs = append(errs, errors.New("RATES_KEY is required with REDIS_URL"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
