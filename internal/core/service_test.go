package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeHistory records saved analyses in memory
type fakeHistory struct {
	saved   []*StoredAnalysis
	saveErr error
}

func (f *fakeHistory) Save(ctx context.Context, a *StoredAnalysis) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, a)
	return nil
}

func (f *fakeHistory) List(ctx context.Context, limit int) ([]*StoredAnalysis, error) {
	return f.saved, nil
}

func (f *fakeHistory) Stats(ctx context.Context) (*HistoryStats, error) {
	return &HistoryStats{TotalScans: int64(len(f.saved))}, nil
}

func (f *fakeHistory) Clear(ctx context.Context) error {
	f.saved = nil
	return nil
}

// fakeNotifier records delivered notifications
type fakeNotifier struct {
	delivered []*Notification
}

func (f *fakeNotifier) Notify(ctx context.Context, n *Notification) error {
	f.delivered = append(f.delivered, n)
	return nil
}

func newTestService(history HistoryRepository, notifier Notifier) *AnalysisService {
	logger := zap.NewNop()
	return NewAnalysisService(
		NewScanner(logger),
		NewFallbackClassifier(nil, NewHeuristicClassifier(logger), logger),
		NewCombiner(0.5),
		history,
		notifier,
		logger,
	)
}

func TestAnalysisService_AnalyzeSuspiciousText(t *testing.T) {
	history := &fakeHistory{}
	notifier := &fakeNotifier{}
	service := newTestService(history, notifier)

	text := "Your account has been suspended. Verify your account immediately and send a wire transfer."
	result, err := service.Analyze(context.Background(), text, SourceSelection)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, SourceSelection, result.Source)
	assert.True(t, result.IsSuspicious)
	assert.Equal(t, SeverityCritical, result.Severity)
	assert.Equal(t, text, result.MessageText)

	require.Len(t, history.saved, 1)
	assert.Equal(t, result.ID, history.saved[0].ID)

	require.Len(t, notifier.delivered, 1)
	assert.Equal(t, SeverityCritical, notifier.delivered[0].Severity)
	assert.True(t, notifier.delivered[0].Urgent)
}

func TestAnalysisService_AnalyzeBenignText(t *testing.T) {
	history := &fakeHistory{}
	notifier := &fakeNotifier{}
	service := newTestService(history, notifier)

	result, err := service.Analyze(context.Background(), "Lunch at noon tomorrow?", SourceInput)
	require.NoError(t, err)

	assert.False(t, result.IsSuspicious)
	assert.Equal(t, SeverityLow, result.Severity)
	assert.Len(t, history.saved, 1)
	assert.Empty(t, notifier.delivered)
}

func TestAnalysisService_HistoryFailureDoesNotFailAnalysis(t *testing.T) {
	history := &fakeHistory{saveErr: errors.New("disk full")}
	service := newTestService(history, &fakeNotifier{})

	result, err := service.Analyze(context.Background(), "urgent wire transfer", SourceInput)

	require.NoError(t, err)
	assert.True(t, result.IsSuspicious)
}

func TestAnalysisService_ClassifierErrorDegrades(t *testing.T) {
	logger := zap.NewNop()
	history := &fakeHistory{}
	service := NewAnalysisService(
		NewScanner(logger),
		&stubClassifier{err: errors.New("boom")},
		NewCombiner(0.5),
		history,
		nil,
		logger,
	)

	result, err := service.Analyze(context.Background(), "Lunch tomorrow?", SourceInput)

	require.NoError(t, err)
	assert.Equal(t, SourceHeuristic, result.Verdict.Source)
	assert.Equal(t, "Classification unavailable", result.Verdict.Reason)
}

func TestAnalysisService_NilHistoryAndNotifier(t *testing.T) {
	service := newTestService(nil, nil)

	result, err := service.Analyze(context.Background(), "send gift cards immediately", SourceInput)

	require.NoError(t, err)
	assert.True(t, result.IsSuspicious)
}

func TestNotificationFor(t *testing.T) {
	tests := []struct {
		name        string
		severity    Severity
		expectTitle string
		expectUrgent bool
	}{
		{"Critical", SeverityCritical, "Likely scam detected", true},
		{"High", SeverityHigh, "Possible scam detected", true},
		{"Medium", SeverityMedium, "Possible scam detected", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := &StoredAnalysis{
				CombinedAnalysis: CombinedAnalysis{
					Severity:       tt.severity,
					Recommendation: "advice",
				},
			}
			n := NotificationFor(stored)

			assert.Equal(t, tt.expectTitle, n.Title)
			assert.Equal(t, tt.expectUrgent, n.Urgent)
			assert.Equal(t, "advice", n.Message)
		})
	}
}
