package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/vidyaops/campusboard/internal/domain/columns"
	"github.com/vidyaops/campusboard/internal/domain/content"
	"github.com/vidyaops/campusboard/internal/domain/dedupe"
	"github.com/vidyaops/campusboard/internal/domain/model"
	"github.com/vidyaops/campusboard/internal/domain/types"
	"github.com/vidyaops/campusboard/pkg/logger"
	"github.com/vidyaops/campusboard/pkg/metrics"
)

// processAlerts dispatches the urgent and escalation issues of a single
// normalized row through the dedupe gate.
func (s *Service) processAlerts(ctx context.Context, frag model.Fragment, res *types.BatchResult) {
	s.dispatchIssue(ctx, frag, frag.UrgentIssue, model.IssueUrgent, columns.UrgentQuestion, res)
	s.dispatchIssue(ctx, frag, frag.EscalationIssue, model.IssueEscalation, columns.EscalationQuestion, res)
}

func (s *Service) dispatchIssue(ctx context.Context, frag model.Fragment, text string, issueType model.IssueType, field string, res *types.BatchResult) {
	if !content.IsMeaningful(text) {
		return
	}

	fp := dedupe.Fingerprint(frag.CampusName, issueType, text)
	claimed, err := s.tracker.TryClaim(ctx, fp)
	if err != nil {
		res.Degraded = true
		metrics.RecordErrorByComponent("dedupe", "claim")
		s.logger.Error(ctx, "failed to claim alert fingerprint",
			logger.String("campus", frag.CampusName),
			logger.Error(err),
		)
		return
	}
	if !claimed {
		res.AlertsSuppressed++
		metrics.RecordAlertSuppressed()
		s.logger.Debug(ctx, "alert suppressed as duplicate",
			logger.String("campus", frag.CampusName),
			logger.String("type", string(issueType)),
		)
		return
	}

	n := model.Notification{
		ID:           uuid.NewString(),
		CampusName:   frag.CampusName,
		ResolverName: frag.ResolverName,
		Field:        field,
		Content:      text,
		Type:         issueType,
		Timestamp:    frag.DateEvaluated,
	}
	if err := s.notifier.Send(ctx, n); err != nil {
		res.Degraded = true
		metrics.RecordAlertFailed()
		s.logger.Error(ctx, "failed to deliver alert",
			logger.String("campus", frag.CampusName),
			logger.String("type", string(issueType)),
			logger.Error(err),
		)
		// Unclaim so the next ingestion of this issue retries delivery.
		if rerr := s.tracker.Release(ctx, fp); rerr != nil {
			s.logger.Error(ctx, "failed to release alert fingerprint", logger.Error(rerr))
		}
		return
	}

	res.AlertsSent++
	metrics.RecordAlertSent()
}
