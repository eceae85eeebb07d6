// Package dedupe suppresses duplicate alert notifications using a bounded,
// persisted log of issue fingerprints.
package dedupe

import (
	"context"
	"strings"
	"sync"

	"github.com/vidyaops/campusboard/internal/domain/model"
	"github.com/vidyaops/campusboard/pkg/metrics"
)

// Default tracker configuration constants.
const (
	// defaultMaxEntries bounds the persisted fingerprint log. Once exceeded,
	// the oldest entries are dropped first, so an issue can re-notify after
	// 100 newer distinct issues (accepted storage/noise tradeoff).
	defaultMaxEntries = 100

	// fingerprintContentLength is how many characters of normalized content
	// feed the fingerprint. Distinct issues sharing this prefix collide
	// (documented risk).
	fingerprintContentLength = 50
)

// Log persists the ordered fingerprint list across invocations.
type Log interface {
	// Contains reports whether fp is present in the log.
	Contains(ctx context.Context, fp string) (bool, error)

	// Append adds fp as the most recent entry and trims the log to max
	// entries, oldest dropped first.
	Append(ctx context.Context, fp string, max int) error

	// Remove deletes fp from the log if present.
	Remove(ctx context.Context, fp string) error

	// Size returns the current number of entries.
	Size(ctx context.Context) (int, error)
}

// Tracker gates notifications on the fingerprint log. The check-then-record
// sequence is serialized under a mutex, so TryClaim is atomic with respect
// to concurrent batches in this process; cross-process atomicity is the
// Log implementation's concern.
type Tracker struct {
	mu         sync.Mutex
	log        Log
	maxEntries int
}

// NewTracker creates a Tracker backed by the given log.
func NewTracker(log Log, opts ...Option) *Tracker {
	t := &Tracker{
		log:        log,
		maxEntries: defaultMaxEntries,
	}

	// Apply all options
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// ShouldNotify reports whether fp has not been notified before.
func (t *Tracker) ShouldNotify(ctx context.Context, fp string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen, err := t.log.Contains(ctx, fp)
	if err != nil {
		return false, err
	}
	return !seen, nil
}

// RecordNotified appends fp to the log, trimming to the bound.
func (t *Tracker) RecordNotified(ctx context.Context, fp string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record(ctx, fp)
}

// TryClaim atomically checks and records fp. Returns true if fp was newly
// claimed (the caller should notify), false if it was already present.
func (t *Tracker) TryClaim(ctx context.Context, fp string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	seen, err := t.log.Contains(ctx, fp)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}
	if err := t.record(ctx, fp); err != nil {
		return false, err
	}
	return true, nil
}

// Release removes fp so a later run can retry, used when delivery of a
// claimed notification fails.
func (t *Tracker) Release(ctx context.Context, fp string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.log.Remove(ctx, fp); err != nil {
		return err
	}
	t.updateSizeMetric(ctx)
	return nil
}

func (t *Tracker) record(ctx context.Context, fp string) error {
	if err := t.log.Append(ctx, fp, t.maxEntries); err != nil {
		return err
	}
	t.updateSizeMetric(ctx)
	return nil
}

func (t *Tracker) updateSizeMetric(ctx context.Context) {
	if size, err := t.log.Size(ctx); err == nil {
		metrics.UpdateFingerprintLogSize(size)
	}
}

// Fingerprint derives the duplicate-detection key for an issue: campus name,
// issue type, and the first 50 characters of the lowercased,
// whitespace-stripped content.
func Fingerprint(campusName string, issueType model.IssueType, content string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(content)), "")
	if len(normalized) > fingerprintContentLength {
		normalized = normalized[:fingerprintContentLength]
	}
	return campusName + "-" + string(issueType) + "-" + normalized
}
