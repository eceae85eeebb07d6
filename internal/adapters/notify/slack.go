package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/slack-go/slack"
	"github.com/vidyaops/campusboard/internal/domain/model"
)

// Attachment colors by issue type.
const (
	colorUrgent     = "#d32f2f"
	colorEscalation = "#f9a825"
)

// SlackNotifier posts notifications to a Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier creates a notifier posting to the given channel.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
	}
}

// Send posts the notification as a colored attachment.
func (s *SlackNotifier) Send(ctx context.Context, n model.Notification) error {
	color := colorUrgent
	if n.Type == model.IssueEscalation {
		color = colorEscalation
	}

	attachment := slack.Attachment{
		Color: color,
		Title: fmt.Sprintf("%s: %s", n.Type, n.CampusName),
		Text:  n.Content,
		Fields: []slack.AttachmentField{
			{Title: "Campus", Value: n.CampusName, Short: true},
			{Title: "Reported by", Value: n.ResolverName, Short: true},
			{Title: "Field", Value: n.Field},
		},
		Ts: json.Number(strconv.FormatInt(n.Timestamp.Unix(), 10)),
	}

	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slack.MsgOptionText(fmt.Sprintf("%s at %s", n.Type, n.CampusName), false),
		slack.MsgOptionAttachments(attachment),
	)
	if err != nil {
		return fmt.Errorf("post slack notification: %w", err)
	}
	return nil
}
