package dedupe

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithMaxEntries sets the bound on the persisted fingerprint log.
func WithMaxEntries(max int) Option {
	return func(t *Tracker) {
		if max > 0 {
			t.maxEntries = max
		}
	}
}
