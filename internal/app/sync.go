package service

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/vidyaops/campusboard/internal/adapters/source"
	"github.com/vidyaops/campusboard/pkg/logger"
)

// cronRunner is the slice of *cron.Cron the service needs, kept as an
// interface so tests can stub the scheduler.
type cronRunner interface {
	Stop() context.Context
}

// startSync schedules periodic re-ingestion of the configured CSV export.
func (s *Service) startSync(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.syncSchedule, func() {
		s.runSync(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.syncSchedule, err)
	}
	c.Start()
	s.cron = c

	s.logger.Info(ctx, "scheduled csv sync",
		logger.String("schedule", s.syncSchedule),
		logger.String("source", s.sourceCSV),
	)
	return nil
}

// runSync performs one scheduled ingestion pass.
func (s *Service) runSync(ctx context.Context) {
	src := source.NewCSVSource(s.sourceCSV)
	rows, err := src.Rows(ctx)
	if err != nil {
		s.logger.Error(ctx, "csv sync failed to read source", logger.Error(err))
		return
	}

	res, err := s.Ingest(ctx, rows)
	if err != nil {
		s.logger.Error(ctx, "csv sync failed to ingest", logger.Error(err))
		return
	}
	s.logger.Info(ctx, "csv sync complete",
		logger.String("batchID", res.BatchID),
		logger.Int("accepted", res.Accepted),
		logger.Int("rejected", res.Rejected),
	)
}
