package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"incident-analysis/internal/models"
)

const incidentColumns = `id, type, created_at, declenchement, fin_retab, duration_hours,
        affected_customers, status, depart, poste_name, voltage, r_depart, retab, ir, troncons`

// SaveIncident inserts a new incident. A missing ID is generated and a
// missing status defaults to Pending.
func (db *DB) SaveIncident(ctx context.Context, inc models.Incident) (models.Incident, error) {
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	inc.Status = models.ParseStatus(string(inc.Status))

	query := `
        INSERT INTO incidents (` + incidentColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := db.ExecContext(ctx, query, incidentArgs(inc)...)
	if err != nil {
		return inc, fmt.Errorf("insert incident %s: %w", inc.ID, err)
	}
	return inc, nil
}

// UpdateIncident replaces every field of an existing incident except its
// creation time
func (db *DB) UpdateIncident(ctx context.Context, inc models.Incident) error {
	query := `
        UPDATE incidents SET
            type = ?, declenchement = ?, fin_retab = ?, duration_hours = ?,
            affected_customers = ?, status = ?, depart = ?, poste_name = ?,
            voltage = ?, r_depart = ?, retab = ?, ir = ?, troncons = ?
        WHERE id = ?
    `
	args := incidentArgs(inc)
	// drop id and created_at, then key the update by id
	updateArgs := append([]any{args[1]}, args[3:]...)
	updateArgs = append(updateArgs, inc.ID)

	res, err := db.ExecContext(ctx, query, updateArgs...)
	if err != nil {
		return fmt.Errorf("update incident %s: %w", inc.ID, err)
	}
	return expectRow(res, inc.ID)
}

// UpdateStatus sets the status of an incident
func (db *DB) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	res, err := db.ExecContext(ctx, `UPDATE incidents SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update status %s: %w", id, err)
	}
	return expectRow(res, id)
}

// DeleteIncident removes an incident
func (db *DB) DeleteIncident(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM incidents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete incident %s: %w", id, err)
	}
	return expectRow(res, id)
}

// GetIncident retrieves a single incident
func (db *DB) GetIncident(ctx context.Context, id string) (models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = ?`
	inc, err := scanIncident(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return inc, fmt.Errorf("incident %s: %w", id, ErrNotFound)
	}
	return inc, err
}

// ListIncidents retrieves all incidents, newest first
func (db *DB) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	return db.queryIncidents(ctx, `
        SELECT `+incidentColumns+`
        FROM incidents
        ORDER BY created_at DESC, id
    `)
}

// RecentIncidents retrieves the most recently created incidents
func (db *DB) RecentIncidents(ctx context.Context, limit int) ([]models.Incident, error) {
	return db.queryIncidents(ctx, `
        SELECT `+incidentColumns+`
        FROM incidents
        WHERE created_at IS NOT NULL
        ORDER BY created_at DESC
        LIMIT ?
    `, limit)
}

// CountByStatus retrieves the number of incidents per status
func (db *DB) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := db.QueryContext(ctx, `SELECT status, COUNT(*) FROM incidents GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			continue
		}
		counts[models.ParseStatus(status)] += n
	}
	return counts, rows.Err()
}

func (db *DB) queryIncidents(ctx context.Context, query string, args ...any) ([]models.Incident, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []models.Incident
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			continue
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanIncident(row scanner) (models.Incident, error) {
	var (
		inc       models.Incident
		typeField string
		status    string
		createdAt sql.NullTime
		duration  sql.NullFloat64
		affected  sql.NullInt64
	)

	err := row.Scan(&inc.ID, &typeField, &createdAt, &inc.Declenchement, &inc.FinRetab, &duration,
		&affected, &status, &inc.Depart, &inc.PosteName, &inc.Voltage, &inc.RDepart, &inc.Retab,
		&inc.IR, &inc.Troncons)
	if err != nil {
		return inc, err
	}

	inc.Type = models.NewTypeSet(strings.Fields(typeField)...)
	inc.Status = models.ParseStatus(status)
	if createdAt.Valid {
		t := createdAt.Time
		inc.CreatedAt = &t
	}
	if duration.Valid {
		d := duration.Float64
		inc.Duration = &d
	}
	if affected.Valid {
		a := int(affected.Int64)
		inc.AffectedCustomers = &a
	}
	return inc, nil
}

func incidentArgs(inc models.Incident) []any {
	var createdAt, duration, affected any
	if inc.CreatedAt != nil {
		createdAt = inc.CreatedAt.UTC()
	}
	if inc.Duration != nil {
		duration = *inc.Duration
	}
	if inc.AffectedCustomers != nil {
		affected = *inc.AffectedCustomers
	}
	return []any{
		inc.ID, inc.Type.String(), createdAt, inc.Declenchement, inc.FinRetab, duration,
		affected, string(inc.Status), inc.Depart, inc.PosteName, inc.Voltage, inc.RDepart,
		inc.Retab, inc.IR, inc.Troncons,
	}
}

func expectRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("incident %s: %w", id, ErrNotFound)
	}
	return nil
}
