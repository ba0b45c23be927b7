package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"incident-analysis/internal/models"
)

// SaveSnapshot stores a metrics snapshot
func (db *DB) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}

	result, err := json.Marshal(snap.Result)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	query := `
        INSERT INTO metrics_snapshots (id, taken_at, range_label, result)
        VALUES (?, ?, ?, ?)
    `
	if _, err := db.ExecContext(ctx, query, snap.ID, snap.TakenAt.UTC(), snap.Range, string(result)); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ListSnapshots retrieves the latest snapshots, optionally for a single range
func (db *DB) ListSnapshots(ctx context.Context, rangeLabel string, limit int) ([]models.Snapshot, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
        SELECT id, taken_at, range_label, result
        FROM metrics_snapshots
        WHERE ? = '' OR range_label = ?
        ORDER BY taken_at DESC
        LIMIT ?
    `

	rows, err := db.QueryContext(ctx, query, rangeLabel, rangeLabel, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var s models.Snapshot
		var result string
		if err := rows.Scan(&s.ID, &s.TakenAt, &s.Range, &result); err != nil {
			continue
		}
		if err := json.Unmarshal([]byte(result), &s.Result); err != nil {
			continue
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// PurgeSnapshots deletes snapshots taken before the cutoff
func (db *DB) PurgeSnapshots(ctx context.Context, before time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM metrics_snapshots WHERE taken_at < ?`, before.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Vacuum reclaims space; run occasionally
func (db *DB) Vacuum(ctx context.Context) error {
	_, err := db.ExecContext(ctx, "VACUUM")
	return err
}
