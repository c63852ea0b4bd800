package core

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// contextWindow is the number of characters captured on each side of a match
const contextWindow = 30

// Scanner matches text against categorized keyword phrases and aggregates
// the matches into a DetectionResult.
//
// Scans only read the category configuration; mutation operations take the
// write lock, so concurrent scans and administrative updates are safe.
type Scanner struct {
	categories []*KeywordCategory
	patterns   map[string]*regexp.Regexp
	logger     *zap.Logger
	mu         sync.RWMutex
}

// NewScanner creates a scanner seeded with the default keyword categories
func NewScanner(logger *zap.Logger) *Scanner {
	return NewScannerWithCategories(DefaultCategories(), logger)
}

// NewScannerWithCategories creates a scanner with an explicit category set
func NewScannerWithCategories(categories []*KeywordCategory, logger *zap.Logger) *Scanner {
	s := &Scanner{
		categories: categories,
		patterns:   make(map[string]*regexp.Regexp),
		logger:     logger,
	}
	for _, cat := range categories {
		for _, phrase := range cat.Phrases {
			s.compilePhrase(phrase)
		}
	}
	return s
}

// compilePhrase caches a case-insensitive whole-word pattern for a phrase.
// Phrases are quoted so regex metacharacters match literally.
// Caller must hold the write lock during concurrent use.
func (s *Scanner) compilePhrase(phrase string) {
	if _, ok := s.patterns[phrase]; ok {
		return
	}
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("Skipping unmatchable keyword phrase",
				zap.String("phrase", phrase),
				zap.Error(err))
		}
		return
	}
	s.patterns[phrase] = re
}

// Scan matches text against every category and returns the aggregate result.
// It is a pure function of the text and the current category configuration;
// an empty result is valid, not an error.
func (s *Scanner) Scan(text string) DetectionResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		details []MatchDetail
		matches []string
		score   int
	)
	seen := make(map[string]bool)

	for _, cat := range s.categories {
		for _, phrase := range cat.Phrases {
			re, ok := s.patterns[phrase]
			if !ok {
				continue
			}
			for _, loc := range re.FindAllStringIndex(text, -1) {
				details = append(details, MatchDetail{
					Phrase:   phrase,
					Severity: cat.Severity,
					Offset:   loc[0],
					Context:  extractContext(text, loc[0], loc[1]),
				})
				score += cat.Severity.Score() * cat.Weight
				if !seen[phrase] {
					seen[phrase] = true
					matches = append(matches, phrase)
				}
			}
		}
	}

	return DetectionResult{
		Flagged:  len(details) > 0,
		Score:    score,
		Matches:  matches,
		Severity: escalateSeverity(details),
		Details:  details,
	}
}

// extractContext returns a short excerpt around a match, marking clipped
// ends with ellipses
func extractContext(text string, start, end int) string {
	from := start - contextWindow
	if from < 0 {
		from = 0
	}
	to := end + contextWindow
	if to > len(text) {
		to = len(text)
	}
	excerpt := text[from:to]
	if from > 0 {
		excerpt = "..." + excerpt
	}
	if to < len(text) {
		excerpt = excerpt + "..."
	}
	return excerpt
}

// escalateSeverity applies the overall severity policy: multiple critical
// matches, or a critical alongside a high, escalate to critical even when
// the plain maximum would already be critical or lower counts would cap it.
// Otherwise the highest rank observed wins; no matches means low.
func escalateSeverity(details []MatchDetail) Severity {
	criticals, highs := 0, 0
	max := SeverityLow
	for _, d := range details {
		switch d.Severity {
		case SeverityCritical:
			criticals++
		case SeverityHigh:
			highs++
		}
		if d.Severity.Rank() > max.Rank() {
			max = d.Severity
		}
	}
	if criticals >= 2 || (criticals >= 1 && highs >= 1) {
		return SeverityCritical
	}
	return max
}

// AddCustomKeyword appends a phrase to the custom category for the given
// severity, creating the category with the given weight when it does not
// exist yet. Already-present phrases are left untouched.
func (s *Scanner) AddCustomKeyword(phrase string, severity Severity, weight int) {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := fmt.Sprintf("custom-%s", severity)
	var cat *KeywordCategory
	for _, c := range s.categories {
		if c.Name == name {
			cat = c
			break
		}
	}
	if cat == nil {
		cat = &KeywordCategory{Name: name, Severity: severity, Weight: weight}
		s.categories = append(s.categories, cat)
	}
	for _, existing := range cat.Phrases {
		if existing == phrase {
			return
		}
	}
	cat.Phrases = append(cat.Phrases, phrase)
	s.compilePhrase(phrase)

	if s.logger != nil {
		s.logger.Info("Added custom keyword",
			zap.String("phrase", phrase),
			zap.String("severity", string(severity)),
			zap.Int("weight", weight))
	}
}

// RemoveKeyword removes a phrase from every category it appears in and
// reports whether anything was removed
func (s *Scanner) RemoveKeyword(phrase string) bool {
	phrase = strings.ToLower(strings.TrimSpace(phrase))

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for _, cat := range s.categories {
		kept := cat.Phrases[:0]
		for _, p := range cat.Phrases {
			if strings.ToLower(p) == phrase {
				removed = true
				continue
			}
			kept = append(kept, p)
		}
		cat.Phrases = kept
	}
	if removed {
		delete(s.patterns, phrase)
		if s.logger != nil {
			s.logger.Info("Removed keyword", zap.String("phrase", phrase))
		}
	}
	return removed
}

// ListAllKeywords returns every configured phrase grouped by severity
func (s *Scanner) ListAllKeywords() map[Severity][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Severity][]string)
	for _, cat := range s.categories {
		out[cat.Severity] = append(out[cat.Severity], cat.Phrases...)
	}
	return out
}
