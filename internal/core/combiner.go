package core

import (
	"strings"
	"time"
)

// maxRawKeywordScore caps the raw keyword score before it is scaled onto the
// [0,1] range shared with the classifier confidence. Both inputs are
// normalized to the same scale before blending.
const maxRawKeywordScore = 200

// Blend weights for the two signals
const (
	keywordBlendWeight    = 0.6
	classifierBlendWeight = 0.4
)

// Combiner fuses a DetectionResult and an AIVerdict into one CombinedAnalysis
type Combiner struct {
	threshold float64
}

// NewCombiner creates a combiner with the given blended-score suspicion
// threshold (on the [0,1] scale)
func NewCombiner(threshold float64) *Combiner {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.5
	}
	return &Combiner{threshold: threshold}
}

// Combine merges both signals for the same text into the final verdict.
// It is a total function of its inputs.
func (c *Combiner) Combine(text string, keyword DetectionResult, verdict AIVerdict) *CombinedAnalysis {
	normalized := float64(keyword.Score) / maxRawKeywordScore
	if normalized > 1.0 {
		normalized = 1.0
	}
	finalScore := keywordBlendWeight*normalized + classifierBlendWeight*verdict.Confidence

	suspicious := (keyword.Flagged && keyword.Severity != SeverityLow) ||
		verdict.IsSuspicious ||
		finalScore >= c.threshold

	severity := combinedSeverity(keyword, verdict)

	return &CombinedAnalysis{
		Keyword:        keyword,
		Verdict:        verdict,
		FinalScore:     finalScore,
		Severity:       severity,
		IsSuspicious:   suspicious,
		Recommendation: buildRecommendation(severity, keyword, verdict),
		MessageText:    text,
		AnalyzedAt:     time.Now(),
	}
}

// combinedSeverity escalates the overall tier, in priority order, from the
// keyword severity and the classifier's confidence
func combinedSeverity(keyword DetectionResult, verdict AIVerdict) Severity {
	switch {
	case keyword.Severity == SeverityCritical || (verdict.IsSuspicious && verdict.Confidence >= 0.8):
		return SeverityCritical
	case keyword.Severity == SeverityHigh || (verdict.IsSuspicious && verdict.Confidence >= 0.6):
		return SeverityHigh
	case keyword.Severity == SeverityMedium || verdict.IsSuspicious:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Tier-specific lead sentences for recommendations
var severityLeads = map[Severity]string{
	SeverityCritical: "Do not respond to this message. It shows strong signs of a scam.",
	SeverityHigh:     "Treat this message with extreme caution. Several scam indicators were found.",
	SeverityMedium:   "Be careful with this message. Some suspicious patterns were detected.",
	SeverityLow:      "No strong scam indicators were found, but stay alert.",
}

// buildRecommendation produces the human-readable advisory: a tier lead
// sentence, targeted advisories for the matched category kinds, the
// classifier's stated reason, and a generic closing line.
func buildRecommendation(severity Severity, keyword DetectionResult, verdict AIVerdict) string {
	var b strings.Builder
	b.WriteString(severityLeads[severity])

	if matchesCategory(keyword, paymentPhrases) {
		b.WriteString(" Never pay with gift cards, wire transfers, or cryptocurrency on request; legitimate organizations do not ask for these.")
	}
	if matchesCategory(keyword, sensitivePhrases) {
		b.WriteString(" Never share passwords, card numbers, or other credentials in reply to a message.")
	}
	if matchesCategory(keyword, urgencyPhrases) {
		b.WriteString(" Pressure to act immediately is a common manipulation tactic; take your time.")
	}
	if verdict.IsSuspicious && verdict.Reason != "" && verdict.Reason != noFindingsReason {
		b.WriteString(" Analysis notes: ")
		b.WriteString(verdict.Reason)
		if !strings.HasSuffix(verdict.Reason, ".") {
			b.WriteString(".")
		}
	}

	b.WriteString(" When in doubt, contact the organization directly through an independently verified channel.")
	return b.String()
}

// Phrase markers used to pick targeted advisories from the matched set
var (
	paymentPhrases   = []string{"wire transfer", "gift card", "gift cards", "western union", "moneygram", "bitcoin", "cryptocurrency", "prepaid card"}
	sensitivePhrases = []string{"password", "social security number", "ssn", "credit card number", "bank account", "pin number", "security code", "routing number"}
	urgencyPhrases   = []string{"urgent", "immediately", "act now", "right away", "expires soon", "limited time", "final notice", "last chance"}
)

// matchesCategory reports whether any matched phrase belongs to the marker set
func matchesCategory(keyword DetectionResult, phrases []string) bool {
	for _, m := range keyword.Matches {
		lower := strings.ToLower(m)
		for _, p := range phrases {
			if lower == p {
				return true
			}
		}
	}
	return false
}
