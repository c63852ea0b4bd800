package core

import (
	"context"
)

// SuspicionClassifier defines the interface for producing a suspicion verdict
// for a block of text
type SuspicionClassifier interface {
	// Classify analyzes text and returns a suspicion verdict
	Classify(ctx context.Context, text string) (*AIVerdict, error)
}

// HistoryRepository defines the interface for the bounded analysis history
type HistoryRepository interface {
	// Save appends an analysis, evicting the oldest entry beyond capacity
	Save(ctx context.Context, analysis *StoredAnalysis) error

	// List returns up to limit entries, newest first
	List(ctx context.Context, limit int) ([]*StoredAnalysis, error)

	// Stats returns the aggregate scan counters
	Stats(ctx context.Context) (*HistoryStats, error)

	// Clear removes all entries and resets the counters
	Clear(ctx context.Context) error
}

// Notifier defines the interface for surfacing suspicious analyses
type Notifier interface {
	// Notify delivers a notification for a suspicious analysis
	Notify(ctx context.Context, n *Notification) error
}
