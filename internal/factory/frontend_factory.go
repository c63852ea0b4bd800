package factory

import (
	"fmt"

	"github.com/mikey/scamguard/internal/adapters/api"
	"github.com/mikey/scamguard/internal/adapters/cli"
	"github.com/mikey/scamguard/internal/config"
	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/ports"
	"github.com/mikey/scamguard/internal/utils"
	"go.uber.org/zap"
)

// FrontendFactory creates analysis frontends based on configuration
type FrontendFactory struct {
	cfg           *config.Config
	settings      *config.SettingsStore
	logger        *zap.Logger
	service       *core.AnalysisService
	textProcessor *utils.TextProcessor
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(
	cfg *config.Config,
	settings *config.SettingsStore,
	logger *zap.Logger,
	service *core.AnalysisService,
	textProcessor *utils.TextProcessor,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:           cfg,
		settings:      settings,
		logger:        logger,
		service:       service,
		textProcessor: textProcessor,
	}
}

// CreateFrontend creates an analysis frontend based on the configuration
func (f *FrontendFactory) CreateFrontend() (ports.AnalysisFrontend, error) {
	frontendType := f.cfg.GetString("server.frontend_type")

	switch frontendType {
	case "http":
		return api.NewServer(
			f.service,
			f.settings,
			f.textProcessor,
			f.logger,
			f.cfg.GetString("server.listen_address"),
			f.cfg.GetInt("analysis.max_text_size"),
		), nil
	case "cli":
		return cli.NewFrontend(
			f.service,
			f.textProcessor,
			f.logger,
			f.cfg.GetInt("analysis.max_text_size"),
			f.cfg.GetBool("cli.verbose"),
		)
	default:
		return nil, fmt.Errorf("unsupported frontend type: %s", frontendType)
	}
}
