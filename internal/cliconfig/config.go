// Package cliconfig holds CLI configuration for the amphora demo client:
// defaults, TOML file loading, AMPHORA_* environment overrides, validation,
// and logger setup. Precedence is flags over environment over file over
// defaults, tracked through the changed-flags map cobra provides.
package cliconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/amphora-mq/amphora/internal/peersim"
)

var logger zerolog.Logger

func init() {
	logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// Logger returns the package-level zerolog logger for the CLI.
func Logger() zerolog.Logger {
	return logger
}

// Config holds CLI configuration for the amphora demo client.
type Config struct {
	LogLevel string

	PeerBehavior string
	PeerDelay    time.Duration

	Sessions        int
	LinksPerSession int

	OpenTimeout     time.Duration
	ForceCloseAfter time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel:        "info",
		PeerBehavior:    string(peersim.BehaviorAccept),
		PeerDelay:       20 * time.Millisecond,
		Sessions:        2,
		LinksPerSession: 2,
		OpenTimeout:     5 * time.Second,
		ForceCloseAfter: 0,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if _, ok := peersim.ParseBehavior(c.PeerBehavior); !ok {
		return fmt.Errorf("invalid peer behavior %q", c.PeerBehavior)
	}
	if c.PeerDelay < 0 {
		return fmt.Errorf("peer delay must not be negative")
	}
	if c.Sessions < 0 || c.LinksPerSession < 0 {
		return fmt.Errorf("sessions and links must not be negative")
	}
	if c.OpenTimeout <= 0 {
		return fmt.Errorf("open timeout must be positive")
	}
	if c.ForceCloseAfter < 0 {
		return fmt.Errorf("force close delay must not be negative")
	}
	return nil
}

// ApplyLogLevel parses the configured level and applies it globally.
func (c *Config) ApplyLogLevel() error {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)
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

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntFromString parses and sets an int value if present and flag not changed.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil {
		return fmt.Errorf("invalid value for %s: %q", flag, value)
	}
	*dst = n
	return nil
}

// setDuration parses and sets a duration value if present and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration for %s: %q", flag, value)
	}
	*dst = d
	return nil
}
