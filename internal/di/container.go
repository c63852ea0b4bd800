package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/scamguard/internal/config"
	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/factory"
	"github.com/mikey/scamguard/internal/logging"
	"github.com/mikey/scamguard/internal/ports"
	"github.com/mikey/scamguard/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register the persisted runtime settings store. Loading is synchronous,
	// so every classification observes a ready configuration.
	if err := container.Provide(func(cfg *config.Config) (*config.SettingsStore, error) {
		classifierCfg := cfg.GetClassifier()
		return config.NewSettingsStore(classifierCfg.SettingsPath, classifierCfg)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewHistoryFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register keyword scanner
	if err := container.Provide(func(logger *zap.Logger) *core.Scanner {
		return core.NewScanner(logger)
	}); err != nil {
		return nil, err
	}

	// Register suspicion classifier
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.SuspicionClassifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register result combiner
	if err := container.Provide(func(cfg *config.Config) *core.Combiner {
		return core.NewCombiner(cfg.GetFloat64("analysis.suspicion_threshold"))
	}); err != nil {
		return nil, err
	}

	// Register history repository
	if err := container.Provide(func(f *factory.HistoryFactory) (core.HistoryRepository, error) {
		return f.CreateHistoryRepository()
	}); err != nil {
		return nil, err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory) (core.Notifier, error) {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	// Register analysis service
	if err := container.Provide(core.NewAnalysisService); err != nil {
		return nil, err
	}

	// Register analysis frontend
	if err := container.Provide(func(f *factory.FrontendFactory) (ports.AnalysisFrontend, error) {
		return f.CreateFrontend()
	}); err != nil {
		return nil, err
	}

	return container, nil
}
