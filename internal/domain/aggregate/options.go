package aggregate

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithDenylist excludes the named closed campuses from the campus output.
// Their evaluations remain visible in the evaluation list.
func WithDenylist(names []string) Option {
	return func(a *Aggregator) {
		for _, name := range names {
			a.denylist[name] = struct{}{}
		}
	}
}

// WithRelocations marks campuses as relocated to the given targets.
func WithRelocations(moves map[string]string) Option {
	return func(a *Aggregator) {
		for name, target := range moves {
			a.relocations[name] = target
		}
	}
}

// WithLevelBuckets replaces the score discretization buckets. Buckets must
// be contiguous and exhaustive over the scoring scale.
func WithLevelBuckets(buckets []LevelBucket) Option {
	return func(a *Aggregator) {
		if len(buckets) > 0 {
			a.buckets = buckets
		}
	}
}
