package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHeuristicClassifier_Classify(t *testing.T) {
	classifier := NewHeuristicClassifier(zap.NewNop())

	tests := []struct {
		name              string
		text              string
		expectSuspicious  bool
		expectConfidence  float64
		expectReasonParts []string
	}{
		{
			name:             "Benign message",
			text:             "See you at the meeting tomorrow at 10.",
			expectSuspicious: false,
			expectConfidence: 0.0,
		},
		{
			name:             "Verification request alone stays below threshold",
			text:             "Can you confirm the schedule for next week?",
			expectSuspicious: false,
			expectConfidence: 0.2,
			expectReasonParts: []string{
				"verification or confirmation",
			},
		},
		{
			name:             "Link plus verification plus urgency plus credentials",
			text:             "click this link to verify your password immediately",
			expectSuspicious: true,
			expectConfidence: 1.0,
			expectReasonParts: []string{
				"urgency language",
				"clickable link",
				"verification or confirmation",
				"sensitive information",
			},
		},
		{
			name:             "Unusual payment request",
			text:             "Please pay the fee with bitcoin.",
			expectSuspicious: true,
			expectConfidence: 0.6,
			expectReasonParts: []string{
				"unusual payment method",
			},
		},
		{
			name:             "Account suspension threat",
			text:             "We will suspend your account unless you reply.",
			expectSuspicious: true,
			expectConfidence: 0.4,
			expectReasonParts: []string{
				"account suspension",
			},
		},
		{
			name:             "Multiple bare links",
			text:             "Check http://a.example.com and http://b.example.com",
			expectSuspicious: false,
			expectConfidence: 0.2,
			expectReasonParts: []string{
				"multiple links",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := classifier.Classify(context.Background(), tt.text)
			require.NoError(t, err)

			assert.Equal(t, tt.expectSuspicious, verdict.IsSuspicious)
			assert.InDelta(t, tt.expectConfidence, verdict.Confidence, 0.0001)
			assert.Equal(t, SourceHeuristic, verdict.Source)
			assert.False(t, verdict.ClassifiedAt.IsZero())

			if len(tt.expectReasonParts) == 0 {
				assert.Equal(t, "No suspicious patterns detected", verdict.Reason)
			}
			for _, part := range tt.expectReasonParts {
				assert.Contains(t, verdict.Reason, part)
			}
		})
	}
}

func TestHeuristicClassifier_SuspensionThresholdBoundary(t *testing.T) {
	classifier := NewHeuristicClassifier(zap.NewNop())

	// The suspension signal alone lands exactly on the threshold
	verdict, err := classifier.Classify(context.Background(), "Your account will be locked tonight.")
	require.NoError(t, err)

	assert.InDelta(t, 0.4, verdict.Confidence, 0.0001)
	assert.True(t, verdict.IsSuspicious)
}

func TestHeuristicClassifier_LongMessageCompounding(t *testing.T) {
	classifier := NewHeuristicClassifier(zap.NewNop())

	padding := strings.Repeat("This paragraph talks about the weather. ", 15)
	text := padding + "Act now and validate the request."

	verdict, err := classifier.Classify(context.Background(), text)
	require.NoError(t, err)

	// urgency (0.3) + verification (0.2) + long-message bonus (0.1)
	assert.InDelta(t, 0.6, verdict.Confidence, 0.0001)
	assert.True(t, verdict.IsSuspicious)
	assert.Contains(t, verdict.Reason, "Long message")
}

func TestHeuristicClassifier_ConfidenceClamped(t *testing.T) {
	classifier := NewHeuristicClassifier(zap.NewNop())

	text := "URGENT: your account is suspended. Click this link http://x.test http://y.test " +
		"to verify your password and pay the reactivation fee by wire transfer immediately."

	verdict, err := classifier.Classify(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, 1.0, verdict.Confidence)
	assert.True(t, verdict.IsSuspicious)
}
