package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mikey/scamguard/internal/config"
	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/di"
	"github.com/mikey/scamguard/internal/adapters/history"
	"github.com/mikey/scamguard/internal/factory"
	"github.com/mikey/scamguard/internal/logging"
	"go.uber.org/zap"
)

func main() {
	flags := di.ParseFlags()

	var cfg *config.Config
	var err error

	// Initialize logger
	logger, err := logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	if flags.ConfigFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		// Create config from command line flags
		cfg = di.CreateConfigFromFlags(flags)
	}

	// An ephemeral settings store seeded from the flags; the CLI never
	// persists runtime settings
	classifierCfg := cfg.GetClassifier()
	settings, err := config.NewSettingsStore(os.DevNull, classifierCfg)
	if err != nil {
		logger.Fatal("Failed to initialize classifier settings", zap.Error(err))
	}

	textProcessor := factory.NewTextProcessorFactory(logger).CreateTextProcessor()

	// Initialize the classifier stack
	classifier, err := factory.NewClassifierFactory(cfg, settings, logger, textProcessor).CreateClassifier()
	if err != nil {
		logger.Fatal("Failed to create classifier", zap.Error(err))
	}

	// Build the scanner, including any extra keywords from the flags
	scanner := core.NewScanner(logger)
	for _, keyword := range di.ParseCustomKeywords(flags.CustomKeywords) {
		scanner.AddCustomKeyword(keyword, core.SeverityHigh, 3)
	}

	combiner := core.NewCombiner(cfg.GetFloat64("analysis.suspicion_threshold"))
	repo := history.NewMemoryHistory(cfg.GetHistory().Capacity, logger)
	service := core.NewAnalysisService(scanner, classifier, combiner, repo, nil, logger)

	// Read text from flag, file or stdin
	text := flags.Text
	if text == "" {
		var reader io.Reader
		if flags.InputFile != "" {
			file, err := os.Open(flags.InputFile)
			if err != nil {
				logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", flags.InputFile))
			}
			defer file.Close()
			reader = file
			logger.Info("Reading text from file", zap.String("file", flags.InputFile))
		} else {
			reader = os.Stdin
			logger.Info("Reading text from stdin")
		}
		raw, err := io.ReadAll(reader)
		if err != nil {
			logger.Fatal("Failed to read input", zap.Error(err))
		}
		text = string(raw)
	}

	source := flags.Source
	if source != core.SourceSelection && source != core.SourceInput {
		source = core.SourceInput
	}

	// Print input summary
	fmt.Printf("\n=== Input Summary ===\n")
	fmt.Printf("Source: %s\n", source)
	fmt.Printf("Text length: %d bytes\n", len(text))
	fmt.Printf("\n")

	// Analyze text
	fmt.Printf("=== Analysis ===\n")
	fmt.Printf("Provider: %s\n", classifierCfg.Provider)
	fmt.Printf("Suspicion threshold: %.2f\n", cfg.GetFloat64("analysis.suspicion_threshold"))

	startTime := time.Now()
	result, err := service.Analyze(context.Background(), text, source)
	if err != nil {
		logger.Fatal("Failed to analyze text", zap.Error(err))
	}
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Is suspicious: %t\n", result.IsSuspicious)
	fmt.Printf("Overall severity: %s\n", result.Severity)
	fmt.Printf("Final score: %.4f\n", result.FinalScore)
	fmt.Printf("Keyword score: %d (%d matches)\n", result.Keyword.Score, len(result.Keyword.Matches))
	for _, detail := range result.Keyword.Details {
		fmt.Printf("  [%s] %q: %s\n", detail.Severity, detail.Phrase, detail.Context)
	}
	fmt.Printf("Verdict: suspicious=%t confidence=%.4f source=%s\n",
		result.Verdict.IsSuspicious, result.Verdict.Confidence, result.Verdict.Source)
	fmt.Printf("Verdict reason: %s\n", result.Verdict.Reason)
	fmt.Printf("Recommendation: %s\n", result.Recommendation)
	fmt.Printf("Processing time: %v\n", duration)

	// Close any resources that need closing
	if closer, ok := classifier.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close classifier", zap.Error(err))
		}
	}
}
