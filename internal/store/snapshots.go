package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/fortuna/courtvision/internal/trends"
)

// SnapshotSummary is one archived report without its full row payload.
type SnapshotSummary struct {
	SnapshotID  int64     `json:"snapshot_id"`
	GeneratedAt time.Time `json:"generated_at"`
	RowCount    int       `json:"row_count"`
	Warnings    []string  `json:"warnings"`
}

// SnapshotRepository archives trend reports and chat exchanges.
type SnapshotRepository struct {
	db *Database
}

// NewSnapshotRepository creates a snapshot repository.
func NewSnapshotRepository(db *Database) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SaveSnapshot archives one trend report.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, report trends.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	warnings := report.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	_, err = r.db.conn.ExecContext(ctx, `
		INSERT INTO trend_snapshots (generated_at, row_count, warnings, report)
		VALUES ($1, $2, $3, $4)`,
		report.GeneratedAt, len(report.Rows), pq.Array(warnings), payload,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns the most recent snapshot summaries, newest first.
func (r *SnapshotRepository) ListSnapshots(ctx context.Context, limit int) ([]SnapshotSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.db.conn.QueryContext(ctx, `
		SELECT snapshot_id, generated_at, row_count, warnings
		FROM trend_snapshots
		ORDER BY generated_at DESC
		LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var summaries []SnapshotSummary
	for rows.Next() {
		var s SnapshotSummary
		if err := rows.Scan(&s.SnapshotID, &s.GeneratedAt, &s.RowCount, pq.Array(&s.Warnings)); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetSnapshot returns one archived report in full.
func (r *SnapshotRepository) GetSnapshot(ctx context.Context, snapshotID int64) (*trends.Report, error) {
	var payload []byte
	err := r.db.conn.QueryRowContext(ctx, `
		SELECT report FROM trend_snapshots WHERE snapshot_id = $1`, snapshotID,
	).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("snapshot %d not found: %w", snapshotID, err)
	}

	var report trends.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %d: %w", snapshotID, err)
	}
	return &report, nil
}

// SaveChatMessage archives one question/answer exchange.
func (r *SnapshotRepository) SaveChatMessage(ctx context.Context, sessionID, question, answer string) error {
	_, err := r.db.conn.ExecContext(ctx, `
		INSERT INTO chat_messages (session_id, question, answer)
		VALUES ($1, $2, $3)`,
		sessionID, question, answer,
	)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}
