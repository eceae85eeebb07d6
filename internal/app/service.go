// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vidyaops/campusboard/internal/adapters/notify"
	"github.com/vidyaops/campusboard/internal/adapters/repository"
	"github.com/vidyaops/campusboard/internal/domain/aggregate"
	"github.com/vidyaops/campusboard/internal/domain/dedupe"
	"github.com/vidyaops/campusboard/internal/domain/model"
	"github.com/vidyaops/campusboard/internal/domain/normalize"
	"github.com/vidyaops/campusboard/internal/domain/types"
	"github.com/vidyaops/campusboard/pkg/logger"
	"github.com/vidyaops/campusboard/pkg/metrics"
)

// Service runs the evaluation pipeline: normalize -> aggregate -> alert,
// and serves the resulting snapshot to the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	normalizer *normalize.Normalizer
	aggregator *aggregate.Aggregator
	tracker    *dedupe.Tracker
	alertLog   dedupe.Log
	notifier   notify.Notifier
	store      repository.Store

	// Latest aggregate served to readers
	snapshot *aggregate.Snapshot

	// Configuration
	dbPath            string
	emailDomain       string
	closedCampuses    []string
	relocatedCampuses map[string]string
	alertLogSize      int
	syncSchedule      string
	sourceCSV         string

	// State
	started bool
	cron    cronRunner

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithDBPath sets the sqlite database path. Empty keeps all state in memory.
func WithDBPath(path string) Option {
	return func(s *Service) {
		s.dbPath = path
	}
}

// WithEmailDomain sets the domain suffix for derived resolver emails.
func WithEmailDomain(domain string) Option {
	return func(s *Service) {
		if domain != "" {
			s.emailDomain = domain
		}
	}
}

// WithClosedCampuses sets the campus denylist.
func WithClosedCampuses(names []string) Option {
	return func(s *Service) {
		s.closedCampuses = names
	}
}

// WithRelocatedCampuses sets the campus relocation map.
func WithRelocatedCampuses(moves map[string]string) Option {
	return func(s *Service) {
		s.relocatedCampuses = moves
	}
}

// WithAlertLogSize bounds the persisted fingerprint log.
func WithAlertLogSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.alertLogSize = size
		}
	}
}

// WithNotifier sets the alert delivery transport.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithStore injects a pre-opened store, overriding WithDBPath.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSyncSchedule sets the cron expression for scheduled CSV re-ingestion.
func WithSyncSchedule(schedule string) Option {
	return func(s *Service) {
		s.syncSchedule = schedule
	}
}

// WithSourceCSV sets the spreadsheet export path read by the sync job.
func WithSourceCSV(path string) Option {
	return func(s *Service) {
		s.sourceCSV = path
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		emailDomain:  "campusboard.org",
		alertLogSize: 100,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting campusboard service...")

	if s.store == nil && s.dbPath != "" {
		store, err := repository.Open(ctx, s.dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
	}

	if s.store != nil {
		s.alertLog = s.store
	} else {
		s.logger.Warn(ctx, "no database configured; alert suppression will not survive restarts")
		s.alertLog = dedupe.NewMemoryLog()
	}

	s.normalizer = normalize.New(
		normalize.WithEmailDomain(s.emailDomain),
	)
	s.aggregator = aggregate.New(
		aggregate.WithDenylist(s.closedCampuses),
		aggregate.WithRelocations(s.relocatedCampuses),
	)
	s.tracker = dedupe.NewTracker(s.alertLog,
		dedupe.WithMaxEntries(s.alertLogSize),
	)
	if s.notifier == nil {
		s.notifier = notify.NewLogNotifier(s.logger.Named("notify"))
	}

	// Restore the last aggregate so the dashboard has data before the
	// first ingestion of this process.
	if s.store != nil {
		snap, err := s.store.LoadSnapshot(ctx)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// First run; nothing to restore.
		case err != nil:
			s.logger.Warn(ctx, "failed to restore snapshot", logger.Error(err))
		default:
			s.snapshot = snap
			s.updateEntityGauges(snap)
			s.logger.Info(ctx, "restored aggregate snapshot",
				logger.Int("campuses", len(snap.Campuses)),
				logger.Int("evaluations", len(snap.Evaluations)),
			)
		}
	}

	if s.syncSchedule != "" {
		if err := s.startSync(ctx); err != nil {
			return fmt.Errorf("start sync: %w", err)
		}
	}

	s.started = true
	s.logger.Info(ctx, "campusboard service started",
		logger.Int("alertLogSize", s.alertLogSize),
		logger.Bool("persistent", s.store != nil),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping campusboard service...")

	if s.cron != nil {
		s.cron.Stop()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn(ctx, "failed to close store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "campusboard service stopped")
}

// Ingest runs the full pipeline over one batch of raw rows. Row-level
// failures are isolated and counted; downstream I/O failures mark the result
// degraded without discarding the in-memory aggregation.
func (s *Service) Ingest(ctx context.Context, rows []model.RawRow) (types.BatchResult, error) {
	start := time.Now()
	res := types.BatchResult{BatchID: uuid.NewString()}
	batchTime := time.Now()

	fragments := make([]model.Fragment, 0, len(rows))
	for _, row := range rows {
		frag, err := s.normalizeRow(row, batchTime)
		if err != nil {
			res.Rejected++
			metrics.RecordRowRejected()
			s.logger.Debug(ctx, "row rejected", logger.Error(err))
			continue
		}
		res.Accepted++
		metrics.RecordRowProcessed()
		fragments = append(fragments, frag)
	}

	for _, frag := range fragments {
		s.processAlerts(ctx, frag, &res)
	}

	snap, err := s.aggregator.Fold(fragments)
	switch {
	case errors.Is(err, aggregate.ErrNoData):
		// Keep the previous snapshot; callers see a distinct no-data result.
		res.NoData = true
	case err != nil:
		return res, fmt.Errorf("aggregate batch: %w", err)
	default:
		snap.GeneratedAt = batchTime
		s.mu.Lock()
		s.snapshot = snap
		s.mu.Unlock()
		s.updateEntityGauges(snap)
		s.persistSnapshot(ctx, snap, &res)
	}

	metrics.RecordBatchIngested()
	metrics.RecordIngestDuration(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "batch ingested",
		logger.String("batchID", res.BatchID),
		logger.Int("accepted", res.Accepted),
		logger.Int("rejected", res.Rejected),
		logger.Int("alertsSent", res.AlertsSent),
		logger.Int("alertsSuppressed", res.AlertsSuppressed),
		logger.Bool("degraded", res.Degraded),
	)
	return res, nil
}

// normalizeRow isolates per-row failures, including panics, so one bad row
// cannot abort the rest of the batch.
func (s *Service) normalizeRow(row model.RawRow, batchTime time.Time) (frag model.Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("row processing panic: %v", r)
		}
	}()
	return s.normalizer.Normalize(row, batchTime)
}

// persistSnapshot saves the aggregate, flagging the result degraded on
// failure instead of discarding completed work.
func (s *Service) persistSnapshot(ctx context.Context, snap *aggregate.Snapshot, res *types.BatchResult) {
	if s.store == nil {
		return
	}
	saveStart := time.Now()
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		res.Degraded = true
		metrics.RecordErrorByComponent("store", "snapshot_save")
		s.logger.Error(ctx, "failed to persist snapshot", logger.Error(err))
		return
	}
	metrics.RecordSnapshotSaveDuration(float64(time.Since(saveStart).Milliseconds()))
}

func (s *Service) updateEntityGauges(snap *aggregate.Snapshot) {
	metrics.UpdateCampusCount(len(snap.Campuses))
	metrics.UpdateResolverCount(len(snap.Resolvers))
	metrics.UpdateEvaluationCount(len(snap.Evaluations))
}

// Snapshot returns the current aggregate for dashboard consumption.
// Never nil: an empty snapshot is returned before the first ingestion.
func (s *Service) Snapshot(ctx context.Context) *aggregate.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return &aggregate.Snapshot{
			Campuses:    []model.Campus{},
			Resolvers:   []model.Resolver{},
			Evaluations: []model.Evaluation{},
		}
	}
	return s.snapshot
}

// Campuses returns the campus collection, optionally ranked by average
// score descending.
func (s *Service) Campuses(ctx context.Context, rankByScore bool) []model.Campus {
	snap := s.Snapshot(ctx)
	out := make([]model.Campus, len(snap.Campuses))
	copy(out, snap.Campuses)
	if rankByScore {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].AverageScore > out[j].AverageScore
		})
	}
	return out
}

// Resolvers returns the resolver collection.
func (s *Service) Resolvers(ctx context.Context) []model.Resolver {
	return s.Snapshot(ctx).Resolvers
}

// Evaluations returns the evaluation list in original ingestion order.
func (s *Service) Evaluations(ctx context.Context) []model.Evaluation {
	return s.Snapshot(ctx).Evaluations
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"persistent":   s.store != nil,
		"alertLogSize": s.alertLogSize,
	}

	if s.snapshot != nil {
		stats["campuses"] = len(s.snapshot.Campuses)
		stats["resolvers"] = len(s.snapshot.Resolvers)
		stats["evaluations"] = len(s.snapshot.Evaluations)
		stats["generatedAt"] = s.snapshot.GeneratedAt
	}
	if s.alertLog != nil {
		if size, err := s.alertLog.Size(context.Background()); err == nil {
			stats["fingerprints"] = size
		}
	}

	return stats
}
