// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment
type Config struct {
	Host string `env:"MASTERMIND_HOST"`
	Port int    `env:"MASTERMIND_PORT" envDefault:"8080"`

	// Storage selects the backend: memory, redis or sqlite
	Storage        string `env:"MASTERMIND_STORAGE"      envDefault:"memory"`
	RedisURL       string `env:"MASTERMIND_REDIS_URL"    envDefault:"redis://localhost:6379"`
	RedisKeyPrefix string `env:"MASTERMIND_REDIS_PREFIX" envDefault:"mastermind"`
	SQLitePath     string `env:"MASTERMIND_SQLITE_PATH"  envDefault:"mastermind.db"`

	LogLevel string `env:"MASTERMIND_LOG_LEVEL" envDefault:"info"`
}

// Load reads optional .env files then parses the environment.
// Variables already set in the environment take precedence over the files.
func Load(envFiles ...string) (Config, error) {
	// A missing .env file is normal outside development
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env parsing cannot
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid MASTERMIND_PORT %d", c.Port)
	}
	switch c.Storage {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("invalid MASTERMIND_STORAGE %q: must be memory, redis or sqlite", c.Storage)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level
func (c Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid MASTERMIND_LOG_LEVEL %q", raw)
	}
	return level, nil
}
