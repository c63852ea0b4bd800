package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/scamguard/internal/core"
	"go.uber.org/zap"
)

// SQLiteHistory is a SQLite implementation of the HistoryRepository interface
type SQLiteHistory struct {
	db       *sql.DB
	capacity int
	logger   *zap.Logger
}

// NewSQLiteHistory creates a new SQLite history store
func NewSQLiteHistory(dbPath string, capacity int, logger *zap.Logger) (*SQLiteHistory, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create tables if they don't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_history (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			message_text TEXT,
			final_score REAL,
			severity TEXT,
			is_suspicious BOOLEAN,
			recommendation TEXT,
			analysis TEXT,
			analyzed_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_stats (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_scans INTEGER NOT NULL DEFAULT 0,
			flagged_scans INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create stats table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO analysis_stats (id) VALUES (1)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed stats row: %w", err)
	}

	return &SQLiteHistory{
		db:       db,
		capacity: capacity,
		logger:   logger,
	}, nil
}

// Save appends the analysis, bumps the counters, and trims entries beyond
// the capacity oldest-first
func (h *SQLiteHistory) Save(ctx context.Context, analysis *core.StoredAnalysis) error {
	blob, err := json.Marshal(analysis.CombinedAnalysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_history
			(id, message_text, final_score, severity, is_suspicious, recommendation, analysis, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, analysis.ID, analysis.MessageText, analysis.FinalScore, string(analysis.Severity),
		analysis.IsSuspicious, analysis.Recommendation, string(blob),
		analysis.AnalyzedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM analysis_history
		WHERE seq NOT IN (SELECT seq FROM analysis_history ORDER BY seq DESC LIMIT ?)
	`, h.capacity)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}

	flagged := 0
	if analysis.IsSuspicious {
		flagged = 1
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE analysis_stats SET total_scans = total_scans + 1, flagged_scans = flagged_scans + ? WHERE id = 1
	`, flagged)
	if err != nil {
		return fmt.Errorf("failed to update stats: %w", err)
	}

	return tx.Commit()
}

// List returns up to limit entries, newest first
func (h *SQLiteHistory) List(ctx context.Context, limit int) ([]*core.StoredAnalysis, error) {
	if limit <= 0 || limit > h.capacity {
		limit = h.capacity
	}

	rows, err := h.db.QueryContext(ctx, `
		SELECT id, analysis FROM analysis_history ORDER BY seq DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []*core.StoredAnalysis
	for rows.Next() {
		var id, blob string
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entry := &core.StoredAnalysis{ID: id}
		if err := json.Unmarshal([]byte(blob), &entry.CombinedAnalysis); err != nil {
			h.logger.Warn("Skipping undecodable history entry",
				zap.String("id", id), zap.Error(err))
			continue
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Stats returns the aggregate scan counters
func (h *SQLiteHistory) Stats(ctx context.Context) (*core.HistoryStats, error) {
	var stats core.HistoryStats
	err := h.db.QueryRowContext(ctx, `
		SELECT total_scans, flagged_scans FROM analysis_stats WHERE id = 1
	`).Scan(&stats.TotalScans, &stats.FlaggedScans)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return &stats, nil
}

// Clear removes all entries and resets the counters
func (h *SQLiteHistory) Clear(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, `DELETE FROM analysis_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if _, err := h.db.ExecContext(ctx, `UPDATE analysis_stats SET total_scans = 0, flagged_scans = 0 WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}
	return nil
}

// Close closes the database connection
func (h *SQLiteHistory) Close() error {
	return h.db.Close()
}
