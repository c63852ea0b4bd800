package notify

import (
	"context"

	"github.com/mikey/scamguard/internal/core"
	"go.uber.org/zap"
)

// LogNotifier surfaces suspicious analyses through the structured log. It is
// the default sink when no OS-level or webhook integration is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new log notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify writes the notification as a warning log entry
func (n *LogNotifier) Notify(ctx context.Context, notification *core.Notification) error {
	n.logger.Warn(notification.Title,
		zap.String("severity", string(notification.Severity)),
		zap.Bool("urgent", notification.Urgent),
		zap.String("message", notification.Message))
	return nil
}
