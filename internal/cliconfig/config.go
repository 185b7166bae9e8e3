package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/coresync-labs/pushlog/pkg/coresync"
)

// DefaultServiceURL is the default CoreSync ingestion endpoint.
const DefaultServiceURL = "https://api.coresync.fit"

// DefaultWatchCSV is the rep-log file the notebook tracker appends to.
const DefaultWatchCSV = "pushup_log.csv"

// Config holds CLI configuration for pushlog.
type Config struct {
	ServiceURL string
	APIToken   string

	Exercise string

	HTTPTimeout time.Duration

	HistoryDB string

	WatchCSV string
	Debounce time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		ServiceURL:  DefaultServiceURL,
		Exercise:    coresync.DefaultExercise,
		HTTPTimeout: 15 * time.Second,
		HistoryDB:   "", // Derived from the user home during Validate
		WatchCSV:    DefaultWatchCSV,
		Debounce:    2 * time.Second,
		APIToken:    os.Getenv("PUSHLOG_API_TOKEN"),
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("api-token is required (generate one in CoreSync settings)")
	}

	if c.ServiceURL == "" {
		c.ServiceURL = DefaultServiceURL
	}

	// Ensure no trailing slash
	if len(c.ServiceURL) > 0 && c.ServiceURL[len(c.ServiceURL)-1] == '/' {
		c.ServiceURL = c.ServiceURL[:len(c.ServiceURL)-1]
	}

	if c.Exercise == "" {
		c.Exercise = coresync.DefaultExercise
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}

	if c.HistoryDB == "" {
		if h, err := os.UserHomeDir(); err == nil {
			c.HistoryDB = filepath.Join(h, ".pushlog", "history.db")
		} else {
			c.HistoryDB = "history.db"
		}
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
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
