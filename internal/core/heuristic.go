package core

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// suspicionThreshold is the confidence at which a heuristic verdict flips to
// suspicious
const suspicionThreshold = 0.4

// noFindingsReason is returned when no heuristic signal triggered
const noFindingsReason = "No suspicious patterns detected"

var (
	urgencyRe    = regexp.MustCompile(`(?i)\b(urgent|urgently|immediately|act now|right away|asap|expires? (?:today|soon))\b`)
	linkRe       = regexp.MustCompile(`(?i)(https?://\S+|click (?:this |the )?link|click here)`)
	verifyRe     = regexp.MustCompile(`(?i)\b(verify|verification|confirm|validate)\b`)
	suspensionRe = regexp.MustCompile(`(?i)account\b.{0,40}\b(suspend\w*|disabl\w*|lock\w*|clos\w*|terminat\w*)|\b(suspend\w*|disabl\w*|lock\w*|clos\w*|terminat\w*)\b.{0,40}\baccount`)
	sensitiveRe  = regexp.MustCompile(`(?i)\b(password|passcode|social security|ssn|credit card|card number|bank account|pin number|security code|routing number)\b`)
	paymentRe    = regexp.MustCompile(`(?i)\b(gift ?cards?|wire transfer|western union|moneygram|bitcoin|cryptocurrency|crypto wallet|prepaid card)\b`)
	urlRe        = regexp.MustCompile(`https?://`)
)

// heuristicSignal is one independently-triggered suspicion rule
type heuristicSignal struct {
	weight float64
	reason string
	match  func(text string) bool
}

// heuristicSignals are evaluated in order; each triggered signal adds its
// weight to the accumulated suspicion score
var heuristicSignals = []heuristicSignal{
	{
		weight: 0.3,
		reason: "Contains urgency language",
		match:  func(t string) bool { return urgencyRe.MatchString(t) },
	},
	{
		weight: 0.25,
		reason: "Contains a clickable link combined with a verification request",
		match:  func(t string) bool { return linkRe.MatchString(t) && verifyRe.MatchString(t) },
	},
	{
		weight: 0.2,
		reason: "Requests verification or confirmation of personal details",
		match:  func(t string) bool { return verifyRe.MatchString(t) },
	},
	{
		weight: 0.4,
		reason: "Threatens account suspension or closure",
		match:  func(t string) bool { return suspensionRe.MatchString(t) },
	},
	{
		weight: 0.5,
		reason: "Asks for sensitive information such as passwords or financial identifiers",
		match:  func(t string) bool { return sensitiveRe.MatchString(t) },
	},
	{
		weight: 0.6,
		reason: "Requests an unusual payment method such as gift cards or wire transfer",
		match:  func(t string) bool { return paymentRe.MatchString(t) },
	},
	{
		weight: 0.2,
		reason: "Contains multiple links",
		match:  func(t string) bool { return len(urlRe.FindAllStringIndex(t, -1)) >= 2 },
	},
}

// HeuristicClassifier is the rule-based suspicion evaluator. It is the
// default classification mode and the silent fallback for every delegated
// mode; it has no failure modes.
type HeuristicClassifier struct {
	logger *zap.Logger
}

// NewHeuristicClassifier creates a new heuristic classifier
func NewHeuristicClassifier(logger *zap.Logger) *HeuristicClassifier {
	return &HeuristicClassifier{logger: logger}
}

// Classify evaluates the fixed signal set over the text. The confidence is
// the clamped sum of triggered signal weights; the reason joins the
// triggered fragments.
func (c *HeuristicClassifier) Classify(ctx context.Context, text string) (*AIVerdict, error) {
	score := 0.0
	var reasons []string

	for _, sig := range heuristicSignals {
		if sig.match(text) {
			score += sig.weight
			reasons = append(reasons, sig.reason)
		}
	}

	// Long messages that already look suspicious compound the score
	if len(text) > 500 && score > 0.3 {
		score += 0.1
		reasons = append(reasons, "Long message with multiple suspicious traits")
	}

	confidence := score
	if confidence > 1.0 {
		confidence = 1.0
	}

	reason := noFindingsReason
	if len(reasons) > 0 {
		reason = strings.Join(reasons, "; ")
	}

	if c.logger != nil {
		c.logger.Debug("Heuristic classification complete",
			zap.Float64("confidence", confidence),
			zap.Int("triggered_signals", len(reasons)))
	}

	return &AIVerdict{
		IsSuspicious: confidence >= suspicionThreshold,
		Reason:       reason,
		Confidence:   confidence,
		Source:       SourceHeuristic,
		Model:        SourceHeuristic,
		ClassifiedAt: time.Now(),
	}, nil
}
