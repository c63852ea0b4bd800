package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/scamguard/internal/adapters/history"
	"github.com/mikey/scamguard/internal/config"
	"github.com/mikey/scamguard/internal/core"
	"go.uber.org/zap"
)

// HistoryFactory creates history repositories based on configuration
type HistoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewHistoryFactory creates a new history factory
func NewHistoryFactory(cfg *config.Config, logger *zap.Logger) *HistoryFactory {
	return &HistoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateHistoryRepository creates a history repository based on the configuration
func (f *HistoryFactory) CreateHistoryRepository() (core.HistoryRepository, error) {
	historyCfg := f.cfg.GetHistory()

	switch historyCfg.Type {
	case "memory":
		return history.NewMemoryHistory(historyCfg.Capacity, f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(historyCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return history.NewSQLiteHistory(historyCfg.SQLitePath, historyCfg.Capacity, f.logger)
	case "mysql":
		return history.NewMySQLHistory(historyCfg.MySQLDSN, historyCfg.Capacity, f.logger)
	default:
		return nil, fmt.Errorf("unsupported history type: %s", historyCfg.Type)
	}
}
