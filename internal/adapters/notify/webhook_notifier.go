package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mikey/scamguard/internal/core"
	"go.uber.org/zap"
)

// WebhookNotifier forwards notifications to an external sink (desktop
// notification bridge, chat hook, alerting pipeline) as a JSON POST
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// webhookPayload is the wire shape delivered to the sink
type webhookPayload struct {
	Severity string `json:"severity"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Urgent   bool   `json:"urgent"`
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(url string, timeout time.Duration, logger *zap.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Notify posts the notification to the configured webhook
func (n *WebhookNotifier) Notify(ctx context.Context, notification *core.Notification) error {
	payload, err := json.Marshal(webhookPayload{
		Severity: string(notification.Severity),
		Title:    notification.Title,
		Message:  notification.Message,
		Urgent:   notification.Urgent,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification sink returned status %d", resp.StatusCode)
	}

	n.logger.Debug("Notification delivered",
		zap.String("severity", string(notification.Severity)))
	return nil
}
