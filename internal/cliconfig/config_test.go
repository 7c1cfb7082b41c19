package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() does not validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad log level", func(c *Config) { c.LogLevel = "shout" }, true},
		{"bad behavior", func(c *Config) { c.PeerBehavior = "explode" }, true},
		{"negative delay", func(c *Config) { c.PeerDelay = -time.Second }, true},
		{"negative sessions", func(c *Config) { c.Sessions = -1 }, true},
		{"negative links", func(c *Config) { c.LinksPerSession = -1 }, true},
		{"zero open timeout", func(c *Config) { c.OpenTimeout = 0 }, true},
		{"negative force close", func(c *Config) { c.ForceCloseAfter = -time.Second }, true},
		{"zero sessions ok", func(c *Config) { c.Sessions = 0 }, false},
		{"debug level ok", func(c *Config) { c.LogLevel = "debug" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("AMPHORA_LOG_LEVEL", "debug")
	t.Setenv("AMPHORA_PEER_BEHAVIOR", "reject")
	t.Setenv("AMPHORA_PEER_DELAY", "250ms")
	t.Setenv("AMPHORA_SESSIONS", "5")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.PeerBehavior != "reject" {
		t.Errorf("PeerBehavior = %q, want reject", cfg.PeerBehavior)
	}
	if cfg.PeerDelay != 250*time.Millisecond {
		t.Errorf("PeerDelay = %v, want 250ms", cfg.PeerDelay)
	}
	if cfg.Sessions != 5 {
		t.Errorf("Sessions = %d, want 5", cfg.Sessions)
	}
}

func TestApplyEnvConfig_RespectsChangedFlags(t *testing.T) {
	t.Setenv("AMPHORA_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	changed := map[string]bool{"log-level": true}

	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, env should not override an explicit flag", cfg.LogLevel)
	}
}

func TestApplyEnvConfig_InvalidDuration(t *testing.T) {
	t.Setenv("AMPHORA_PEER_DELAY", "soon")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
		t.Error("ApplyEnvConfig() accepted an invalid duration")
	}
}
