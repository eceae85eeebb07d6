package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
	"github.com/vidyaops/campusboard/internal/domain/aggregate"
)

// Default sqlite configuration constants.
const (
	defaultJournalMode   = "WAL"
	defaultBusyTimeoutMS = 5000
)

const schema = `
CREATE TABLE IF NOT EXISTS alert_fingerprints (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	fingerprint TEXT NOT NULL,
	recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_alert_fingerprints_fp ON alert_fingerprints(fingerprint);

CREATE TABLE IF NOT EXISTS snapshots (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	payload  TEXT NOT NULL,
	saved_at DATETIME NOT NULL
);
`

// SQLiteStore implements Store on a local sqlite database.
type SQLiteStore struct {
	db            *sql.DB
	journalMode   string
	busyTimeoutMS int
}

// Open opens (creating if needed) the sqlite database at path and ensures
// the schema exists.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		journalMode:   defaultJournalMode,
		busyTimeoutMS: defaultBusyTimeoutMS,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=%s&_busy_timeout=%d", path, s.journalMode, s.busyTimeoutMS)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}

	s.db = db
	return s, nil
}

// Contains reports whether fp is present in the fingerprint log.
func (s *SQLiteStore) Contains(ctx context.Context, fp string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alert_fingerprints WHERE fingerprint = ?`, fp,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query fingerprint: %w", err)
	}
	return count > 0, nil
}

// Append records fp as the most recent entry and trims the log to max
// entries, oldest dropped first. Insert and trim share a transaction so a
// concurrent invocation cannot observe an over-long log.
func (s *SQLiteStore) Append(ctx context.Context, fp string, max int) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO alert_fingerprints (fingerprint) VALUES (?)`, fp,
	); err != nil {
		return fmt.Errorf("insert fingerprint: %w", err)
	}
	if max > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM alert_fingerprints
			 WHERE id NOT IN (SELECT id FROM alert_fingerprints ORDER BY id DESC LIMIT ?)`,
			max,
		); err != nil {
			return fmt.Errorf("trim fingerprint log: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}
	return nil
}

// Remove deletes fp from the log if present.
func (s *SQLiteStore) Remove(ctx context.Context, fp string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM alert_fingerprints WHERE fingerprint = ?`, fp,
	); err != nil {
		return fmt.Errorf("remove fingerprint: %w", err)
	}
	return nil
}

// Size returns the current number of log entries.
func (s *SQLiteStore) Size(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alert_fingerprints`,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("count fingerprints: %w", err)
	}
	return count, nil
}

// Fingerprints returns the log contents in recency order (newest first).
func (s *SQLiteStore) Fingerprints(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT fingerprint FROM alert_fingerprints ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list fingerprints: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out = append(out, fp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return out, nil
}

// SaveSnapshot replaces the single persisted aggregate snapshot.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *aggregate.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, payload, saved_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		string(payload), time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the persisted snapshot, or ErrNotFound.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (*aggregate.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = 1`).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap aggregate.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
