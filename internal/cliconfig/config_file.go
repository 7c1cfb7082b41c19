package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML
// friendly.
type FileConfig struct {
	LogLevel        string `toml:"log_level"`
	PeerBehavior    string `toml:"peer_behavior"`
	PeerDelay       string `toml:"peer_delay"`
	Sessions        int    `toml:"sessions"`
	LinksPerSession int    `toml:"links_per_session"`
	OpenTimeout     string `toml:"open_timeout"`
	ForceCloseAfter string `toml:"force_close_after"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.amphora/config.toml if the user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".amphora", "config.toml")
	}
	return ""
}

// FileExists reports whether the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("behavior", fc.PeerBehavior, &cfg.PeerBehavior)

	if err := s.setDuration("peer-delay", fc.PeerDelay, &cfg.PeerDelay); err != nil {
		return err
	}
	if err := s.setDuration("open-timeout", fc.OpenTimeout, &cfg.OpenTimeout); err != nil {
		return err
	}
	if err := s.setDuration("force-close-after", fc.ForceCloseAfter, &cfg.ForceCloseAfter); err != nil {
		return err
	}

	s.setInt("sessions", fc.Sessions, &cfg.Sessions)
	s.setInt("links", fc.LinksPerSession, &cfg.LinksPerSession)

	return nil
}
