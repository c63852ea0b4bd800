package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/ports"
	"github.com/mikey/scamguard/internal/utils"
	"go.uber.org/zap"
)

// Frontend implements a command-line interface for one-shot text analysis
type Frontend struct {
	service       *core.AnalysisService
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
	maxTextSize   int
	verbose       bool
}

// NewFrontend creates a new CLI frontend
func NewFrontend(
	service *core.AnalysisService,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
	maxTextSize int,
	verbose bool,
) (*Frontend, error) {
	return &Frontend{
		service:       service,
		textProcessor: textProcessor,
		logger:        logger,
		maxTextSize:   maxTextSize,
		verbose:       verbose,
	}, nil
}

// ProcessText analyzes a block of text and displays the results
func (f *Frontend) ProcessText(ctx context.Context, req *ports.AnalysisRequest) (*core.StoredAnalysis, error) {
	f.logger.Debug("Processing text", zap.Int("length", len(req.Text)))

	// Print text summary
	fmt.Printf("\n=== Text Summary ===\n")
	fmt.Printf("Source: %s\n", req.Source)
	fmt.Printf("Length: %d bytes\n", len(req.Text))

	if f.verbose {
		preview := req.Text
		if len(preview) > 500 {
			preview = preview[:500] + "..."
		}
		fmt.Printf("\nText preview:\n%s\n", preview)
	}

	fmt.Printf("\n=== Analysis ===\n")
	startTime := time.Now()

	text := f.textProcessor.NormalizeText(f.textProcessor.ProcessText(req.Text, f.maxTextSize))
	analysis, err := f.service.Analyze(ctx, text, req.Source)
	if err != nil {
		f.logger.Error("Failed to analyze text", zap.Error(err))
		fmt.Printf("Error: %v\n", err)
		return nil, err
	}
	duration := time.Since(startTime)

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Suspicious: %t\n", analysis.IsSuspicious)
	fmt.Printf("Severity: %s\n", analysis.Severity)
	fmt.Printf("Final score: %.4f\n", analysis.FinalScore)
	fmt.Printf("Keyword score: %d (%d matches)\n", analysis.Keyword.Score, len(analysis.Keyword.Matches))
	for _, m := range analysis.Keyword.Details {
		fmt.Printf("  [%s] %q at offset %d: %s\n", m.Severity, m.Phrase, m.Offset, m.Context)
	}
	fmt.Printf("Classifier: %s (confidence %.4f)\n", analysis.Verdict.Source, analysis.Verdict.Confidence)
	fmt.Printf("Reason: %s\n", analysis.Verdict.Reason)
	fmt.Printf("Recommendation: %s\n", analysis.Recommendation)
	fmt.Printf("Processing time: %v\n", duration)

	return analysis, nil
}

// Start is a no-op for the CLI frontend
func (f *Frontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI frontend
func (f *Frontend) Stop() error {
	return nil
}
