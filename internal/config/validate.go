package config

import (
	"fmt"
	"log/slog"
	"strings"

	"dto-services/internal/match"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.NameMode(); err != nil {
		return err
	}

	if len(c.Keys.Names) == 0 {
		return fmt.Errorf("keys.names must list at least one name")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q (want %s or %s)", c.Store.Driver, DriverMemory, DriverSQLite)
	}

	return nil
}

// NameMode parses matching.names.
func (c *Config) NameMode() (match.NameMode, error) {
	return match.ParseNameMode(c.Matching.Names)
}

// SlogLevel parses log.level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}

	return lvl, nil
}
