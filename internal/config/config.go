// Package config reads catalogsync defaults from the environment.
//
// Command-line flags override these values; the environment only supplies
// defaults so CI and scripts can pin behavior without repeating flags.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds environment defaults for the CLI.
type Config struct {
	Format     string `env:"CATALOGSYNC_FORMAT"      envDefault:"text"`
	LogLevel   string `env:"CATALOGSYNC_LOG_LEVEL"   envDefault:"warn"`
	FilterDB   string `env:"CATALOGSYNC_FILTER_DB"   envDefault:"catalogsync.db"`
	Compact    bool   `env:"CATALOGSYNC_COMPACT"     envDefault:"false"`
	CityID     int64  `env:"CATALOGSYNC_CITY_ID"     envDefault:"0"`
	CategoryID int64  `env:"CATALOGSYNC_CATEGORY_ID" envDefault:"0"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("CATALOGSYNC_FORMAT: must be 'text' or 'json', got %q", c.Format)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("CATALOGSYNC_LOG_LEVEL: %w", err)
	}
	if c.CityID < 0 || c.CategoryID < 0 {
		return fmt.Errorf("CATALOGSYNC_CITY_ID and CATALOGSYNC_CATEGORY_ID must be non-negative")
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
