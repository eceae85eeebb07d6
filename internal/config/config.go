// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - Load layers defaults, an optional YAML file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath locates the sqlite database holding the alert fingerprint log
	// and the persisted snapshot. Empty disables persistence (in-memory only).
	DBPath string `koanf:"db_path"`

	// EmailDomain is the suffix for resolver emails derived from names.
	EmailDomain string `koanf:"email_domain"`

	// ClosedCampuses lists campus names excluded from the campus output.
	ClosedCampuses []string `koanf:"closed_campuses"`

	// RelocatedCampuses maps a campus name to the campus it moved to.
	RelocatedCampuses map[string]string `koanf:"relocated_campuses"`

	// AlertLogSize bounds the persisted fingerprint log.
	AlertLogSize int `koanf:"alert_log_size"`

	// SlackToken and SlackChannel configure alert delivery. An empty token
	// routes notifications to the log instead.
	SlackToken   string `koanf:"slack_token"`
	SlackChannel string `koanf:"slack_channel"`

	// SyncSchedule is a cron expression for scheduled CSV re-ingestion.
	// Empty disables the sync job.
	SyncSchedule string `koanf:"sync_schedule"`

	// SourceCSV locates the spreadsheet export read by the sync job.
	SourceCSV string `koanf:"source_csv"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9090",
		DBPath:       "campusboard.db",
		EmailDomain:  "campusboard.org",
		AlertLogSize: 100,
		SyncSchedule: "",
		SourceCSV:    "",
	}
}
