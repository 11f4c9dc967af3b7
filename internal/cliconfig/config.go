// Package cliconfig holds configuration loading for the lifelined daemon,
// layering defaults, config file, environment, and flags in that order of
// precedence (later wins; explicitly set flags always win).
package cliconfig

import (
	"fmt"
	"time"
)

// Config holds CLI configuration for lifelined.
type Config struct {
	// AdminAddr is the listen address for the admin endpoint (/statusz,
	// /healthz). Empty disables the endpoint.
	AdminAddr string

	// DrainFile, when set, enables drain-file triggered shutdown.
	DrainFile string

	// StatusFile, when set, enables status persistence.
	StatusFile string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// HeartbeatInterval is the period of the demo heartbeat service.
	HeartbeatInterval time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:          "info",
		ShutdownTimeout:   30 * time.Second,
		HeartbeatInterval: 5 * time.Second,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log-level must be one of debug, info, warn, error")
	}

	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be positive")
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag
// precedence. It only applies values if the corresponding flag hasn't been
// explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
