// Package repository persists the alert fingerprint log and the latest
// aggregate snapshot.
package repository

import (
	"context"

	"github.com/vidyaops/campusboard/internal/domain/aggregate"
	"github.com/vidyaops/campusboard/internal/domain/dedupe"
)

// Store provides durable state for the pipeline: the bounded fingerprint
// log (dedupe.Log) plus snapshot persistence so the dashboard survives
// restarts.
type Store interface {
	dedupe.Log

	// SaveSnapshot replaces the persisted aggregate snapshot.
	SaveSnapshot(ctx context.Context, snap *aggregate.Snapshot) error

	// LoadSnapshot returns the persisted snapshot.
	// Returns ErrNotFound when none has been saved yet.
	LoadSnapshot(ctx context.Context) (*aggregate.Snapshot, error)

	// Fingerprints returns the log contents in recency order (newest first).
	Fingerprints(ctx context.Context) ([]string, error)

	Close() error
}
