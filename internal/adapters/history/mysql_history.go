package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/scamguard/internal/core"
	"go.uber.org/zap"
)

// MySQLHistory is a MySQL implementation of the HistoryRepository interface
type MySQLHistory struct {
	db       *sql.DB
	capacity int
	logger   *zap.Logger
}

// NewMySQLHistory creates a new MySQL history store
func NewMySQLHistory(dsn string, capacity int, logger *zap.Logger) (*MySQLHistory, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_history (
			seq BIGINT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(36) NOT NULL UNIQUE,
			message_text TEXT,
			final_score DOUBLE,
			severity VARCHAR(16),
			is_suspicious BOOLEAN,
			recommendation TEXT,
			analysis JSON,
			analyzed_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_stats (
			id TINYINT PRIMARY KEY,
			total_scans BIGINT NOT NULL DEFAULT 0,
			flagged_scans BIGINT NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create stats table: %w", err)
	}

	_, err = db.Exec(`INSERT IGNORE INTO analysis_stats (id) VALUES (1)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed stats row: %w", err)
	}

	return &MySQLHistory{
		db:       db,
		capacity: capacity,
		logger:   logger,
	}, nil
}

// Save appends the analysis, bumps the counters, and trims entries beyond
// the capacity oldest-first
func (h *MySQLHistory) Save(ctx context.Context, analysis *core.StoredAnalysis) error {
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
		analysis.IsSuspicious, analysis.Recommendation, string(blob), analysis.AnalyzedAt)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	// MySQL cannot reference the target table in a LIMIT subquery directly,
	// so trim via a derived table.
	_, err = tx.ExecContext(ctx, `
		DELETE FROM analysis_history
		WHERE seq NOT IN (
			SELECT seq FROM (
				SELECT seq FROM analysis_history ORDER BY seq DESC LIMIT ?
			) AS newest
		)
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
func (h *MySQLHistory) List(ctx context.Context, limit int) ([]*core.StoredAnalysis, error) {
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
func (h *MySQLHistory) Stats(ctx context.Context) (*core.HistoryStats, error) {
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
func (h *MySQLHistory) Clear(ctx context.Context) error {
	if _, err := h.db.ExecContext(ctx, `DELETE FROM analysis_history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if _, err := h.db.ExecContext(ctx, `UPDATE analysis_stats SET total_scans = 0, flagged_scans = 0 WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}
	return nil
}

// Close closes the database connection
func (h *MySQLHistory) Close() error {
	return h.db.Close()
}
