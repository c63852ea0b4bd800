package history

import (
	"context"
	"sync"

	"github.com/mikey/scamguard/internal/core"
	"go.uber.org/zap"
)

// DefaultCapacity bounds the history when no explicit capacity is configured
const DefaultCapacity = 100

// MemoryHistory is an in-memory implementation of the HistoryRepository
// interface: a bounded list ordered newest first, with FIFO eviction
type MemoryHistory struct {
	entries  []*core.StoredAnalysis
	capacity int
	stats    core.HistoryStats
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewMemoryHistory creates a new in-memory history store
func NewMemoryHistory(capacity int, logger *zap.Logger) *MemoryHistory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryHistory{
		entries:  make([]*core.StoredAnalysis, 0, capacity),
		capacity: capacity,
		logger:   logger,
	}
}

// Save prepends the analysis and evicts the oldest entry beyond capacity
func (h *MemoryHistory) Save(ctx context.Context, analysis *core.StoredAnalysis) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append([]*core.StoredAnalysis{analysis}, h.entries...)
	if len(h.entries) > h.capacity {
		evicted := len(h.entries) - h.capacity
		h.entries = h.entries[:h.capacity]
		h.logger.Debug("Evicted oldest history entries", zap.Int("evicted", evicted))
	}

	h.stats.TotalScans++
	if analysis.IsSuspicious {
		h.stats.FlaggedScans++
	}
	return nil
}

// List returns up to limit entries, newest first
func (h *MemoryHistory) List(ctx context.Context, limit int) ([]*core.StoredAnalysis, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 || limit > len(h.entries) {
		limit = len(h.entries)
	}
	out := make([]*core.StoredAnalysis, limit)
	copy(out, h.entries[:limit])
	return out, nil
}

// Stats returns the aggregate scan counters
func (h *MemoryHistory) Stats(ctx context.Context) (*core.HistoryStats, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := h.stats
	return &stats, nil
}

// Clear removes all entries and resets the counters
func (h *MemoryHistory) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = h.entries[:0]
	h.stats = core.HistoryStats{}
	return nil
}
