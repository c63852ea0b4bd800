package factory

import (
	"fmt"
	"time"

	"github.com/mikey/scamguard/internal/adapters/notify"
	"github.com/mikey/scamguard/internal/config"
	"github.com/mikey/scamguard/internal/core"
	"go.uber.org/zap"
)

// NotifierFactory creates notification sinks based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates a notification sink based on the configuration
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	switch f.cfg.GetString("notify.type") {
	case "log":
		return notify.NewLogNotifier(f.logger), nil
	case "webhook":
		url := f.cfg.GetString("notify.webhook_url")
		if url == "" {
			return nil, fmt.Errorf("notify.webhook_url must be set for webhook notifications")
		}
		return notify.NewWebhookNotifier(url, 10*time.Second, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", f.cfg.GetString("notify.type"))
	}
}
