package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables
// (LIFELINED_*). It respects flags that have been explicitly set (changed
// map). Returns an error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("admin-addr", os.Getenv("LIFELINED_ADMIN_ADDR"), &cfg.AdminAddr)
	s.setString("drain-file", os.Getenv("LIFELINED_DRAIN_FILE"), &cfg.DrainFile)
	s.setString("status-file", os.Getenv("LIFELINED_STATUS_FILE"), &cfg.StatusFile)
	s.setString("log-level", os.Getenv("LIFELINED_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("shutdown-timeout", os.Getenv("LIFELINED_SHUTDOWN_TIMEOUT"), &cfg.ShutdownTimeout); err != nil {
		return err
	}
	if err := s.setDuration("heartbeat-interval", os.Getenv("LIFELINED_HEARTBEAT_INTERVAL"), &cfg.HeartbeatInterval); err != nil {
		return err
	}

	return nil
}
