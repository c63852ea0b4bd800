package factory

import (
	"context"
	"fmt"

	"github.com/mikey/scamguard/internal/adapters/bedrock"
	"github.com/mikey/scamguard/internal/adapters/gemini"
	"github.com/mikey/scamguard/internal/adapters/openai"
	"github.com/mikey/scamguard/internal/adapters/remote"
	"github.com/mikey/scamguard/internal/config"
	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/utils"
	"go.uber.org/zap"
)

// ClassifierFactory creates suspicion classifiers
type ClassifierFactory struct {
	cfg           *config.Config
	settings      *config.SettingsStore
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(
	cfg *config.Config,
	settings *config.SettingsStore,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		settings:      settings,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates the suspicion classifier stack based on the
// configuration: a delegated provider wrapped in heuristic fallback, gated
// at request time by the persisted mock-mode flag
func (f *ClassifierFactory) CreateClassifier() (core.SuspicionClassifier, error) {
	heuristic := core.NewHeuristicClassifier(f.logger)
	classifierCfg := f.cfg.GetClassifier()

	var delegate core.SuspicionClassifier
	switch classifierCfg.Provider {
	case "heuristic":
		// Pure heuristic mode, nothing to delegate to
	case "remote":
		timeout, err := f.cfg.GetDuration("classifier.timeout")
		if err != nil {
			return nil, fmt.Errorf("invalid classifier timeout: %w", err)
		}
		delegate = remote.NewClassifier(
			f.settings,
			timeout,
			f.cfg.GetInt("analysis.max_text_size"),
			f.logger,
			f.textProcessor,
		)
	case "openai":
		client, err := openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
		if err != nil {
			return nil, err
		}
		delegate = client
	case "bedrock":
		client, err := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
		if err != nil {
			return nil, err
		}
		delegate = client
	case "gemini":
		client, err := gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateClassifier()
		if err != nil {
			return nil, err
		}
		delegate = client
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", classifierCfg.Provider)
	}

	fallback := core.NewFallbackClassifier(delegate, heuristic, f.logger)
	return &runtimeClassifier{
		settings:  f.settings,
		fallback:  fallback,
		heuristic: heuristic,
	}, nil
}

// runtimeClassifier routes each request through the heuristic evaluator when
// the persisted mock-mode flag is set, and through the fallback-wrapped
// delegate otherwise. Settings changes take effect on the next request.
type runtimeClassifier struct {
	settings  *config.SettingsStore
	fallback  *core.FallbackClassifier
	heuristic *core.HeuristicClassifier
}

// Classify implements core.SuspicionClassifier
func (c *runtimeClassifier) Classify(ctx context.Context, text string) (*core.AIVerdict, error) {
	if c.settings.Get().MockMode {
		return c.heuristic.Classify(ctx, text)
	}
	return c.fallback.Classify(ctx, text)
}

// Close releases any resources held by the delegated classifier
func (c *runtimeClassifier) Close() error {
	return c.fallback.Close()
}
