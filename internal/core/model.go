package core

import (
	"time"
)

// Severity is the ordered risk tier assigned to keyword categories and
// combined analyses
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRanks orders severities for comparison and escalation
var severityRanks = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the numeric position of the severity in the low..critical order
func (s Severity) Rank() int {
	return severityRanks[s]
}

// Score returns the per-match score contribution of the severity
func (s Severity) Score() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 3
	case SeverityHigh:
		return 6
	case SeverityCritical:
		return 10
	default:
		return 0
	}
}

// ParseSeverity maps a string onto a Severity, defaulting to low
func ParseSeverity(s string) Severity {
	switch Severity(s) {
	case SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(s)
	default:
		return SeverityLow
	}
}

// KeywordCategory groups phrases sharing one severity and one weight
type KeywordCategory struct {
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	Weight   int      `json:"weight"`
	Phrases  []string `json:"phrases"`
}

// MatchDetail records a single phrase occurrence found during a scan
type MatchDetail struct {
	Phrase   string   `json:"phrase"`
	Severity Severity `json:"severity"`
	Offset   int      `json:"offset"`
	Context  string   `json:"context"`
}

// DetectionResult is the output of one keyword scan
type DetectionResult struct {
	Flagged  bool          `json:"flagged"`
	Score    int           `json:"score"`
	Matches  []string      `json:"matches"`
	Severity Severity      `json:"severity"`
	Details  []MatchDetail `json:"details"`
}

// AIVerdict is the suspicion classifier's independent verdict for a text.
// Source records provenance so callers can tell a degraded (fallback)
// verdict from a native heuristic one.
type AIVerdict struct {
	IsSuspicious bool      `json:"isSuspicious"`
	Reason       string    `json:"reason"`
	Confidence   float64   `json:"confidence"`
	Source       string    `json:"source"`
	Model        string    `json:"model,omitempty"`
	ClassifiedAt time.Time `json:"classifiedAt"`
}

// Verdict sources
const (
	SourceHeuristic = "heuristic"
	SourceRemote    = "remote"
	SourceOpenAI    = "openai"
	SourceBedrock   = "bedrock"
	SourceGemini    = "gemini"
)

// CombinedAnalysis fuses the scanner result and classifier verdict into the
// engine's single output
type CombinedAnalysis struct {
	Keyword        DetectionResult `json:"keyword"`
	Verdict        AIVerdict       `json:"verdict"`
	FinalScore     float64         `json:"finalScore"`
	Severity       Severity        `json:"overallSeverity"`
	IsSuspicious   bool            `json:"isSuspicious"`
	Recommendation string          `json:"recommendation"`
	MessageText    string          `json:"messageText"`
	Source         string          `json:"captureSource,omitempty"`
	AnalyzedAt     time.Time       `json:"timestamp"`
}

// StoredAnalysis is a CombinedAnalysis plus its history identifier
type StoredAnalysis struct {
	ID string `json:"id"`
	CombinedAnalysis
}

// HistoryStats aggregates counters across all recorded analyses
type HistoryStats struct {
	TotalScans   int64 `json:"totalScans"`
	FlaggedScans int64 `json:"flaggedScans"`
}

// Notification is the payload handed to the notification sink for any
// suspicious analysis above the low tier
type Notification struct {
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Urgent   bool     `json:"urgent"`
}
