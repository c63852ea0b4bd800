package core

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Text capture sources accepted by the analysis pipeline
const (
	SourceSelection = "selection"
	SourceInput     = "input"
)

// AnalysisService is the core pipeline: it runs the keyword scanner and the
// suspicion classifier over the same text, combines both signals, records
// the result in history, and notifies on suspicious verdicts.
type AnalysisService struct {
	scanner    *Scanner
	classifier SuspicionClassifier
	combiner   *Combiner
	history    HistoryRepository
	notifier   Notifier
	logger     *zap.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	scanner *Scanner,
	classifier SuspicionClassifier,
	combiner *Combiner,
	history HistoryRepository,
	notifier Notifier,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		scanner:    scanner,
		classifier: classifier,
		combiner:   combiner,
		history:    history,
		notifier:   notifier,
		logger:     logger,
	}
}

// Scanner exposes the keyword scanner for administrative keyword operations
func (s *AnalysisService) Scanner() *Scanner {
	return s.scanner
}

// History exposes the history repository for the read-side endpoints
func (s *AnalysisService) History() HistoryRepository {
	return s.history
}

// Analyze runs the full pipeline over a block of captured text. History and
// notification failures are logged and dropped; the analysis itself is
// still returned.
func (s *AnalysisService) Analyze(ctx context.Context, text, source string) (*StoredAnalysis, error) {
	started := time.Now()

	keyword := s.scanner.Scan(text)

	verdict, err := s.classifier.Classify(ctx, text)
	if err != nil {
		// Classifiers recover internally; an error here means the pipeline
		// is wired with a bare delegate, so degrade to an empty verdict.
		s.logger.Error("Classifier returned an error", zap.Error(err))
		verdict = &AIVerdict{
			Reason:       "Classification unavailable",
			Source:       SourceHeuristic,
			ClassifiedAt: time.Now(),
		}
	}

	analysis := s.combiner.Combine(text, keyword, *verdict)
	analysis.Source = source
	stored := &StoredAnalysis{
		ID:               uuid.NewString(),
		CombinedAnalysis: *analysis,
	}

	s.logger.Info("Analysis complete",
		zap.String("id", stored.ID),
		zap.String("source", source),
		zap.String("severity", string(stored.Severity)),
		zap.Bool("suspicious", stored.IsSuspicious),
		zap.Float64("final_score", stored.FinalScore),
		zap.Int("keyword_matches", len(keyword.Matches)),
		zap.String("verdict_source", verdict.Source),
		zap.Duration("elapsed", time.Since(started)))

	if s.history != nil {
		if err := s.history.Save(ctx, stored); err != nil {
			s.logger.Error("Failed to record analysis in history", zap.Error(err))
		}
	}

	if s.notifier != nil && stored.IsSuspicious && stored.Severity != SeverityLow {
		if err := s.notifier.Notify(ctx, NotificationFor(stored)); err != nil {
			s.logger.Error("Failed to deliver notification", zap.Error(err))
		}
	}

	return stored, nil
}

// NotificationFor derives the notification payload for a suspicious analysis
func NotificationFor(a *StoredAnalysis) *Notification {
	title := "Possible scam detected"
	if a.Severity == SeverityCritical {
		title = "Likely scam detected"
	}
	return &Notification{
		Severity: a.Severity,
		Title:    title,
		Message:  a.Recommendation,
		Urgent:   a.Severity == SeverityCritical || a.Severity == SeverityHigh,
	}
}
