package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	// ErrNoData marks a batch with zero valid rows. Non-fatal: callers keep
	// the previous snapshot and report a "no data" result.
	ErrNoData = errors.New("no valid rows in batch")
)
