package config

import (
	"fmt"
	"strings"
)

// Config carries process-level settings for tools built on the host op
// engine. The engine itself is stateless; this only feeds the cmd layer.
type Config struct {
	LogLevel  string
	LogFormat string

	// Seed for the default random generator used by FillRandn when the
	// caller does not pass one. Zero means implementation defined.
	RandomSeed uint64

	// MetricsAddr, when non-empty, enables the prometheus scrape
	// endpoint on that address.
	MetricsAddr string
}

func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
	}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.LogFormat)
	}
	return nil
}
