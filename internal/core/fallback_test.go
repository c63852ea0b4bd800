package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubClassifier returns a canned verdict or error
type stubClassifier struct {
	verdict *AIVerdict
	err     error
	calls   int
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (*AIVerdict, error) {
	s.calls++
	return s.verdict, s.err
}

func TestFallbackClassifier_DelegateSucceeds(t *testing.T) {
	delegate := &stubClassifier{
		verdict: &AIVerdict{
			IsSuspicious: true,
			Reason:       "remote says so",
			Confidence:   0.9,
			Source:       SourceRemote,
		},
	}
	classifier := NewFallbackClassifier(delegate, NewHeuristicClassifier(zap.NewNop()), zap.NewNop())

	verdict, err := classifier.Classify(context.Background(), "anything")
	require.NoError(t, err)

	assert.Equal(t, 1, delegate.calls)
	assert.Equal(t, SourceRemote, verdict.Source)
	assert.Equal(t, "remote says so", verdict.Reason)
	assert.Equal(t, 0.9, verdict.Confidence)
}

func TestFallbackClassifier_DelegateFails(t *testing.T) {
	delegate := &stubClassifier{err: errors.New("connection refused")}
	classifier := NewFallbackClassifier(delegate, NewHeuristicClassifier(zap.NewNop()), zap.NewNop())

	verdict, err := classifier.Classify(context.Background(), "please pay with bitcoin")

	// Delegation failures never surface; the heuristic verdict is returned
	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, verdict.Source)
	assert.True(t, verdict.IsSuspicious)
}

func TestFallbackClassifier_NilDelegate(t *testing.T) {
	classifier := NewFallbackClassifier(nil, NewHeuristicClassifier(zap.NewNop()), zap.NewNop())

	verdict, err := classifier.Classify(context.Background(), "hello there")
	require.NoError(t, err)

	assert.Equal(t, SourceHeuristic, verdict.Source)
	assert.False(t, verdict.IsSuspicious)
}

func TestFallbackClassifier_ClampsDelegateConfidence(t *testing.T) {
	tests := []struct {
		name     string
		given    float64
		expected float64
	}{
		{"Above range", 1.7, 1.0},
		{"Below range", -0.5, 0.0},
		{"In range", 0.42, 0.42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delegate := &stubClassifier{
				verdict: &AIVerdict{Confidence: tt.given, Source: SourceRemote},
			}
			classifier := NewFallbackClassifier(delegate, NewHeuristicClassifier(zap.NewNop()), zap.NewNop())

			verdict, err := classifier.Classify(context.Background(), "text")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, verdict.Confidence)
		})
	}
}
