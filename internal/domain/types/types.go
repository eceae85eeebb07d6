// Package types contains common types used across the application
package types

// BatchResult summarizes one ingestion run for callers.
type BatchResult struct {
	BatchID          string `json:"batch_id"`
	Accepted         int    `json:"accepted"`
	Rejected         int    `json:"rejected"`
	AlertsSent       int    `json:"alerts_sent"`
	AlertsSuppressed int    `json:"alerts_suppressed"`
	// NoData is set when the batch contained zero valid rows. Distinct from
	// a hard failure: the previous aggregate snapshot stays in place.
	NoData bool `json:"no_data"`
	// Degraded is set when a downstream side effect failed (snapshot
	// persistence or notification delivery) after in-memory aggregation
	// succeeded. The caller may retry the batch.
	Degraded bool `json:"degraded"`
}
