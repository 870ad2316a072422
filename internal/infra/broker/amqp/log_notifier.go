package amqp

import (
	"context"
	"log/slog"

	"resort/internal/app/policies"
)

// LogNotifier writes notifications to the log. It is used when no broker
// is configured.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Send(ctx context.Context, msg policies.Message) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "notification",
		"channel", msg.Channel,
		"to", msg.To,
		"subject", msg.Subject,
		"template", msg.Template,
		"event_id", msg.EventID,
	)
	return nil
}
