package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (AMPHORA_*). It respects flags that have been explicitly set (changed
// map). Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-level", os.Getenv("AMPHORA_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("behavior", os.Getenv("AMPHORA_PEER_BEHAVIOR"), &cfg.PeerBehavior)

	if err := s.setDuration("peer-delay", os.Getenv("AMPHORA_PEER_DELAY"), &cfg.PeerDelay); err != nil {
		return err
	}
	if err := s.setDuration("open-timeout", os.Getenv("AMPHORA_OPEN_TIMEOUT"), &cfg.OpenTimeout); err != nil {
		return err
	}
	if err := s.setDuration("force-close-after", os.Getenv("AMPHORA_FORCE_CLOSE_AFTER"), &cfg.ForceCloseAfter); err != nil {
		return err
	}

	if err := s.setIntFromString("sessions", os.Getenv("AMPHORA_SESSIONS"), &cfg.Sessions); err != nil {
		return err
	}
	if err := s.setIntFromString("links", os.Getenv("AMPHORA_LINKS_PER_SESSION"), &cfg.LinksPerSession); err != nil {
		return err
	}

	return nil
}
