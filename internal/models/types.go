package models

import (
	"context"
	"time"
)

// IncidentStore defines operations for incident persistence
type IncidentStore interface {
	SaveIncident(ctx context.Context, inc Incident) (Incident, error)
	UpdateIncident(ctx context.Context, inc Incident) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	DeleteIncident(ctx context.Context, id string) error
	GetIncident(ctx context.Context, id string) (Incident, error)
	ListIncidents(ctx context.Context) ([]Incident, error)
	RecentIncidents(ctx context.Context, limit int) ([]Incident, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

// SnapshotStore defines persistence for scheduled metrics snapshots
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	ListSnapshots(ctx context.Context, rangeLabel string, limit int) ([]Snapshot, error)
	PurgeSnapshots(ctx context.Context, before time.Time) (int64, error)
}

// Store combines incident and snapshot persistence
type Store interface {
	IncidentStore
	SnapshotStore
	Close() error
}
