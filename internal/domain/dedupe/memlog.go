package dedupe

import (
	"context"
	"sync"
)

// MemoryLog implements Log in memory. Used when no database path is
// configured and in tests; suppression then lasts only for the process
// lifetime.
type MemoryLog struct {
	mu  sync.Mutex
	fps []string // oldest first
}

// NewMemoryLog creates an empty in-memory fingerprint log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Contains reports whether fp is present.
func (l *MemoryLog) Contains(_ context.Context, fp string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, f := range l.fps {
		if f == fp {
			return true, nil
		}
	}
	return false, nil
}

// Append adds fp and trims to max entries, oldest first.
func (l *MemoryLog) Append(_ context.Context, fp string, max int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fps = append(l.fps, fp)
	if max > 0 && len(l.fps) > max {
		l.fps = l.fps[len(l.fps)-max:]
	}
	return nil
}

// Remove deletes fp if present.
func (l *MemoryLog) Remove(_ context.Context, fp string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, f := range l.fps {
		if f == fp {
			l.fps = append(l.fps[:i], l.fps[i+1:]...)
			return nil
		}
	}
	return nil
}

// Size returns the current number of entries.
func (l *MemoryLog) Size(_ context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fps), nil
}

// Fingerprints returns the log contents in recency order (newest first).
func (l *MemoryLog) Fingerprints(_ context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]string, len(l.fps))
	for i, f := range l.fps {
		out[len(l.fps)-1-i] = f
	}
	return out, nil
}
