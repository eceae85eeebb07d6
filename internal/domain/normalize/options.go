package normalize

import (
	"math/rand"

	"github.com/vidyaops/campusboard/internal/domain/columns"
)

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithEmailDomain sets the domain suffix for derived resolver emails.
func WithEmailDomain(domain string) Option {
	return func(n *Normalizer) {
		if domain != "" {
			n.emailDomain = domain
		}
	}
}

// WithTable replaces the field-to-header candidate table.
func WithTable(table columns.Table) Option {
	return func(n *Normalizer) {
		if table != nil {
			n.table = table
		}
	}
}

// WithCategories replaces the competency category list.
func WithCategories(categories []columns.Category) Option {
	return func(n *Normalizer) {
		if len(categories) > 0 {
			n.categories = categories
		}
	}
}

// WithRandSource sets the randomness source for filler scores.
// Tests use a fixed seed for reproducible output.
func WithRandSource(src rand.Source) Option {
	return func(n *Normalizer) {
		if src != nil {
			n.rng = rand.New(src) //nolint:gosec // filler scores are not security sensitive
		}
	}
}
