package core

import (
	"context"

	"go.uber.org/zap"
)

// FallbackClassifier wraps a delegated classifier and recovers from any of
// its failures by re-running the heuristic evaluator. Delegation failures
// are logged, never surfaced to the caller; the verdict's Source field is
// the only way to tell a degraded result apart.
type FallbackClassifier struct {
	delegate  SuspicionClassifier
	heuristic *HeuristicClassifier
	logger    *zap.Logger
}

// NewFallbackClassifier creates a classifier that prefers the delegate and
// falls back to the heuristic evaluator. A nil delegate yields a pure
// heuristic classifier.
func NewFallbackClassifier(delegate SuspicionClassifier, heuristic *HeuristicClassifier, logger *zap.Logger) *FallbackClassifier {
	return &FallbackClassifier{
		delegate:  delegate,
		heuristic: heuristic,
		logger:    logger,
	}
}

// Classify returns the delegate's verdict when it succeeds and the heuristic
// verdict otherwise. The returned error is always nil.
func (c *FallbackClassifier) Classify(ctx context.Context, text string) (*AIVerdict, error) {
	if c.delegate != nil {
		verdict, err := c.delegate.Classify(ctx, text)
		if err == nil && verdict != nil {
			return clampVerdict(verdict), nil
		}
		if c.logger != nil {
			c.logger.Warn("Delegated classification failed, using heuristic fallback",
				zap.Error(err))
		}
	}

	verdict, _ := c.heuristic.Classify(ctx, text)
	return clampVerdict(verdict), nil
}

// Close releases the delegate's resources when it holds any
func (c *FallbackClassifier) Close() error {
	if closer, ok := c.delegate.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// clampVerdict enforces the confidence range invariant regardless of the
// verdict's origin
func clampVerdict(v *AIVerdict) *AIVerdict {
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 1 {
		v.Confidence = 1
	}
	return v
}
