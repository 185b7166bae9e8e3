package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (PUSHLOG_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("service-url", os.Getenv("PUSHLOG_SERVICE_URL"), &cfg.ServiceURL)
	s.setString("api-token", os.Getenv("PUSHLOG_API_TOKEN"), &cfg.APIToken)
	s.setString("exercise", os.Getenv("PUSHLOG_EXERCISE"), &cfg.Exercise)
	s.setString("history-db", os.Getenv("PUSHLOG_HISTORY_DB"), &cfg.HistoryDB)
	s.setString("csv", os.Getenv("PUSHLOG_WATCH_CSV"), &cfg.WatchCSV)

	if err := s.setDuration("timeout", os.Getenv("PUSHLOG_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("PUSHLOG_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}

	return nil
}
