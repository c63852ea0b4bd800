package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombiner_CombineBlendsScores(t *testing.T) {
	combiner := NewCombiner(0.5)

	keyword := DetectionResult{Flagged: true, Score: 100, Severity: SeverityMedium}
	verdict := AIVerdict{IsSuspicious: false, Confidence: 0.5}

	analysis := combiner.Combine("some text", keyword, verdict)

	// 0.6 * (100/200) + 0.4 * 0.5
	assert.InDelta(t, 0.5, analysis.FinalScore, 0.0001)
	assert.Equal(t, "some text", analysis.MessageText)
	assert.False(t, analysis.AnalyzedAt.IsZero())
}

func TestCombiner_CombineCapsKeywordScore(t *testing.T) {
	combiner := NewCombiner(0.5)

	keyword := DetectionResult{Flagged: true, Score: 900, Severity: SeverityCritical}
	verdict := AIVerdict{Confidence: 0.0}

	analysis := combiner.Combine("text", keyword, verdict)

	// Raw score is capped before scaling, so the keyword side contributes at
	// most its full blend weight
	assert.InDelta(t, 0.6, analysis.FinalScore, 0.0001)
}

func TestCombiner_CombineSuspiciousPaths(t *testing.T) {
	combiner := NewCombiner(0.5)

	tests := []struct {
		name       string
		keyword    DetectionResult
		verdict    AIVerdict
		suspicious bool
	}{
		{
			name:       "Flagged keywords above low severity",
			keyword:    DetectionResult{Flagged: true, Score: 6, Severity: SeverityMedium},
			verdict:    AIVerdict{Confidence: 0.0},
			suspicious: true,
		},
		{
			name:       "Flagged but low severity and low blend",
			keyword:    DetectionResult{Flagged: true, Score: 2, Severity: SeverityLow},
			verdict:    AIVerdict{Confidence: 0.1},
			suspicious: false,
		},
		{
			name:       "Classifier verdict alone",
			keyword:    DetectionResult{},
			verdict:    AIVerdict{IsSuspicious: true, Confidence: 0.45},
			suspicious: true,
		},
		{
			name:       "Blended score crosses the threshold",
			keyword:    DetectionResult{Score: 150},
			verdict:    AIVerdict{Confidence: 0.9},
			suspicious: true,
		},
		{
			name:       "Nothing triggers",
			keyword:    DetectionResult{},
			verdict:    AIVerdict{Confidence: 0.2},
			suspicious: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := combiner.Combine("text", tt.keyword, tt.verdict)
			assert.Equal(t, tt.suspicious, analysis.IsSuspicious)
		})
	}
}

func TestCombiner_InvalidThresholdFallsBackToDefault(t *testing.T) {
	for _, threshold := range []float64{0, -1, 1.5} {
		combiner := NewCombiner(threshold)

		// Final score 0.5 sits exactly on the default threshold
		analysis := combiner.Combine("text",
			DetectionResult{Score: 100},
			AIVerdict{Confidence: 0.5})
		assert.True(t, analysis.IsSuspicious)

		analysis = combiner.Combine("text",
			DetectionResult{Score: 90},
			AIVerdict{Confidence: 0.5})
		assert.False(t, analysis.IsSuspicious)
	}
}

func TestCombinedSeverity(t *testing.T) {
	tests := []struct {
		name     string
		keyword  DetectionResult
		verdict  AIVerdict
		expected Severity
	}{
		{
			name:     "Critical keywords win",
			keyword:  DetectionResult{Severity: SeverityCritical},
			expected: SeverityCritical,
		},
		{
			name:     "High classifier confidence escalates to critical",
			verdict:  AIVerdict{IsSuspicious: true, Confidence: 0.8},
			expected: SeverityCritical,
		},
		{
			name:     "High keywords",
			keyword:  DetectionResult{Severity: SeverityHigh},
			expected: SeverityHigh,
		},
		{
			name:     "Moderate classifier confidence maps to high",
			verdict:  AIVerdict{IsSuspicious: true, Confidence: 0.6},
			expected: SeverityHigh,
		},
		{
			name:     "Medium keywords",
			keyword:  DetectionResult{Severity: SeverityMedium},
			expected: SeverityMedium,
		},
		{
			name:     "Suspicious verdict with weak confidence maps to medium",
			verdict:  AIVerdict{IsSuspicious: true, Confidence: 0.41},
			expected: SeverityMedium,
		},
		{
			name:     "Nothing escalates",
			keyword:  DetectionResult{Severity: SeverityLow},
			verdict:  AIVerdict{Confidence: 0.9},
			expected: SeverityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, combinedSeverity(tt.keyword, tt.verdict))
		})
	}
}

func TestBuildRecommendation(t *testing.T) {
	combiner := NewCombiner(0.5)

	t.Run("Payment advisory included for payment matches", func(t *testing.T) {
		keyword := DetectionResult{
			Flagged:  true,
			Score:    50,
			Matches:  []string{"gift card"},
			Severity: SeverityCritical,
		}
		analysis := combiner.Combine("buy a gift card", keyword, AIVerdict{})

		assert.True(t, strings.HasPrefix(analysis.Recommendation, "Do not respond"))
		assert.Contains(t, analysis.Recommendation, "gift cards, wire transfers, or cryptocurrency")
		assert.Contains(t, analysis.Recommendation, "independently verified channel")
	})

	t.Run("Credential advisory included for sensitive matches", func(t *testing.T) {
		keyword := DetectionResult{
			Flagged:  true,
			Score:    50,
			Matches:  []string{"password"},
			Severity: SeverityCritical,
		}
		analysis := combiner.Combine("send your password", keyword, AIVerdict{})

		assert.Contains(t, analysis.Recommendation, "Never share passwords")
	})

	t.Run("Classifier reason quoted when suspicious", func(t *testing.T) {
		verdict := AIVerdict{
			IsSuspicious: true,
			Confidence:   0.7,
			Reason:       "Contains urgency language",
		}
		analysis := combiner.Combine("act fast", DetectionResult{}, verdict)

		assert.Contains(t, analysis.Recommendation, "Analysis notes: Contains urgency language.")
	})

	t.Run("Clean text gets the low tier lead", func(t *testing.T) {
		analysis := combiner.Combine("hello", DetectionResult{Severity: SeverityLow}, AIVerdict{})

		assert.True(t, strings.HasPrefix(analysis.Recommendation, "No strong scam indicators"))
		assert.Contains(t, analysis.Recommendation, "independently verified channel")
	})
}
