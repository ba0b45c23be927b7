package database

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("not found")

// DB wraps sql.DB with additional methods
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("database open failed: %w", err)
	}

	// Enable WAL mode for better concurrent access
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")

	return &DB{db}, nil
}

// InitSchema creates all necessary tables
func (db *DB) InitSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS incidents (
        id TEXT PRIMARY KEY,
        type TEXT NOT NULL DEFAULT '',
        created_at DATETIME,
        declenchement TEXT NOT NULL DEFAULT '',
        fin_retab TEXT NOT NULL DEFAULT '',
        duration_hours REAL,
        affected_customers INTEGER,
        status TEXT NOT NULL DEFAULT 'Pending',
        depart TEXT NOT NULL DEFAULT '',
        poste_name TEXT NOT NULL DEFAULT '',
        voltage TEXT NOT NULL DEFAULT '',
        r_depart TEXT NOT NULL DEFAULT '',
        retab TEXT NOT NULL DEFAULT '',
        ir TEXT NOT NULL DEFAULT '',
        troncons TEXT NOT NULL DEFAULT ''
    );

    CREATE INDEX IF NOT EXISTS idx_incidents_created_at ON incidents(created_at);
    CREATE INDEX IF NOT EXISTS idx_incidents_status ON incidents(status);

    -- Periodic analysis results, one row per range label per run
    CREATE TABLE IF NOT EXISTS metrics_snapshots (
        id TEXT PRIMARY KEY,
        taken_at DATETIME NOT NULL,
        range_label TEXT NOT NULL,
        result TEXT NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_snapshots_range_taken ON metrics_snapshots(range_label, taken_at);
    `

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	return nil
}
