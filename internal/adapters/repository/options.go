// Package repository persists the alert fingerprint log and the latest
// aggregate snapshot.
package repository

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithJournalMode sets the sqlite journal mode (default WAL).
func WithJournalMode(mode string) Option {
	return func(s *SQLiteStore) {
		if mode != "" {
			s.journalMode = mode
		}
	}
}

// WithBusyTimeoutMS sets the sqlite busy timeout in milliseconds.
func WithBusyTimeoutMS(ms int) Option {
	return func(s *SQLiteStore) {
		if ms > 0 {
			s.busyTimeoutMS = ms
		}
	}
}
