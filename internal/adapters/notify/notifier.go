// Package notify delivers urgent-issue notifications to external channels.
package notify

import (
	"context"

	"github.com/vidyaops/campusboard/internal/domain/model"
	"github.com/vidyaops/campusboard/pkg/logger"
)

// Notifier delivers one notification request. Delivery retry/backoff is the
// caller's concern; implementations return the transport error as-is.
type Notifier interface {
	Send(ctx context.Context, n model.Notification) error
}

// LogNotifier writes notifications to the log only. Used when no Slack
// token is configured, so the pipeline stays testable without credentials.
type LogNotifier struct {
	log logger.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Send logs the notification and always succeeds.
func (l *LogNotifier) Send(ctx context.Context, n model.Notification) error {
	l.log.Info(ctx, "alert notification",
		logger.String("type", string(n.Type)),
		logger.String("campus", n.CampusName),
		logger.String("resolver", n.ResolverName),
		logger.String("content", n.Content),
	)
	return nil
}
