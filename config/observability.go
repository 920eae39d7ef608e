package config

import (
	"log/slog"
	"strings"
)

// Logging formats.
const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, or error.
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Format selects the handler: "json" for production, "console" for
	// colorized development output. Empty means pick by dev mode.
	Format string `env:"LOG_FORMAT" envDefault:""`
}

// Sanitize normalises logging configuration values.
func (c *LoggingConfig) Sanitize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format != "" && c.Format != LogFormatJSON && c.Format != LogFormatConsole {
		c.Format = ""
	}
}

// SlogLevel maps the configured level to a slog.Level, defaulting to info.
func (c *LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ResolveFormat returns the effective log format for the given dev mode.
func (c *LoggingConfig) ResolveFormat(isDev bool) string {
	if c.Format != "" {
		return c.Format
	}
	if isDev {
		return LogFormatConsole
	}
	return LogFormatJSON
}
