package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	ErrMissingIdentity = errors.New("row missing campus or resolver name")
)
