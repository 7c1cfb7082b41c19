package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
peer_behavior = "reject-unauthorized"
peer_delay = "100ms"
sessions = 3
links_per_session = 4
open_timeout = "10s"
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	if fc.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", fc.LogLevel)
	}
	if fc.PeerBehavior != "reject-unauthorized" {
		t.Errorf("PeerBehavior = %q, want reject-unauthorized", fc.PeerBehavior)
	}
	if fc.PeerDelay != "100ms" {
		t.Errorf("PeerDelay = %q, want 100ms", fc.PeerDelay)
	}
}

func TestLoadFileConfig_Missing(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadFileConfig() succeeded for a missing file")
	}
}

func TestLoadFileConfig_Malformed(t *testing.T) {
	path := writeConfig(t, `log_level = [`)
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("LoadFileConfig() accepted malformed TOML")
	}
}

func TestApplyFileConfig(t *testing.T) {
	fc := FileConfig{
		LogLevel:        "debug",
		PeerBehavior:    "ignore",
		PeerDelay:       "1s",
		Sessions:        7,
		LinksPerSession: 1,
		OpenTimeout:     "30s",
		ForceCloseAfter: "2m",
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.PeerBehavior != "ignore" {
		t.Errorf("PeerBehavior = %q, want ignore", cfg.PeerBehavior)
	}
	if cfg.PeerDelay != time.Second {
		t.Errorf("PeerDelay = %v, want 1s", cfg.PeerDelay)
	}
	if cfg.Sessions != 7 {
		t.Errorf("Sessions = %d, want 7", cfg.Sessions)
	}
	if cfg.OpenTimeout != 30*time.Second {
		t.Errorf("OpenTimeout = %v, want 30s", cfg.OpenTimeout)
	}
	if cfg.ForceCloseAfter != 2*time.Minute {
		t.Errorf("ForceCloseAfter = %v, want 2m", cfg.ForceCloseAfter)
	}
}

func TestApplyFileConfig_FlagPrecedence(t *testing.T) {
	fc := FileConfig{LogLevel: "debug", Sessions: 9}

	cfg := DefaultConfig()
	cfg.LogLevel = "error"
	cfg.Sessions = 1
	changed := map[string]bool{"log-level": true, "sessions": true}

	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}

	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, file should not override an explicit flag", cfg.LogLevel)
	}
	if cfg.Sessions != 1 {
		t.Errorf("Sessions = %d, file should not override an explicit flag", cfg.Sessions)
	}
}

func TestFileExists(t *testing.T) {
	path := writeConfig(t, "")
	if !FileExists(path) {
		t.Error("FileExists() = false for an existing file")
	}
	if FileExists(filepath.Join(t.TempDir(), "absent.toml")) {
		t.Error("FileExists() = true for a missing file")
	}
}
