package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incident-analysis/internal/models"
)

var _ models.Store = (*DB)(nil)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.InitSchema())
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

func TestIncidentCRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	created := time.Date(2024, 1, 10, 8, 30, 0, 0, time.UTC)
	saved, err := db.SaveIncident(ctx, models.Incident{
		Type:              models.NewTypeSet("DD", "ED"),
		CreatedAt:         &created,
		Declenchement:     "2024-01-10 08:00",
		FinRetab:          "2024-01-10 10:00",
		Duration:          ptr(2.0),
		AffectedCustomers: ptr(450),
		Depart:            "Feeder 12",
		PosteName:         "Poste Nord",
		Voltage:           "30 kV",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, models.StatusPending, saved.Status)

	got, err := db.GetIncident(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TypeSet{"DD", "ED"}, got.Type)
	require.NotNil(t, got.CreatedAt)
	assert.True(t, created.Equal(*got.CreatedAt))
	assert.Equal(t, 2.0, *got.Duration)
	assert.Equal(t, 450, *got.AffectedCustomers)
	assert.Equal(t, "Poste Nord", got.PosteName)

	got.Depart = "Feeder 14"
	got.Type = models.NewTypeSet("DRR")
	got.AffectedCustomers = nil
	require.NoError(t, db.UpdateIncident(ctx, got))

	updated, err := db.GetIncident(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Feeder 14", updated.Depart)
	assert.Equal(t, models.TypeSet{"DRR"}, updated.Type)
	assert.Nil(t, updated.AffectedCustomers)
	assert.True(t, created.Equal(*updated.CreatedAt), "update must keep creation time")

	require.NoError(t, db.UpdateStatus(ctx, saved.ID, models.StatusResolved))
	updated, err = db.GetIncident(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, updated.Status)

	require.NoError(t, db.DeleteIncident(ctx, saved.ID))
	_, err = db.GetIncident(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMissingIncident(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	assert.ErrorIs(t, db.UpdateStatus(ctx, "nope", models.StatusResolved), ErrNotFound)
	assert.ErrorIs(t, db.DeleteIncident(ctx, "nope"), ErrNotFound)
	assert.ErrorIs(t, db.UpdateIncident(ctx, models.Incident{ID: "nope"}), ErrNotFound)
}

func TestListAndCounts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, status := range []models.Status{models.StatusPending, models.StatusResolved, models.StatusResolved, models.StatusInProgress} {
		createdAt := base.Add(time.Duration(i) * time.Hour)
		_, err := db.SaveIncident(ctx, models.Incident{
			ID:        string(rune('a' + i)),
			Type:      models.NewTypeSet("BC"),
			CreatedAt: &createdAt,
			Status:    status,
		})
		require.NoError(t, err)
	}
	_, err := db.SaveIncident(ctx, models.Incident{ID: "undated", Type: models.NewTypeSet("ED")})
	require.NoError(t, err)

	all, err := db.ListIncidents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "d", all[0].ID)
	assert.Equal(t, "a", all[3].ID)
	assert.Nil(t, all[4].CreatedAt)

	recent, err := db.RecentIncidents(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].ID)

	counts, err := db.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.StatusPending])
	assert.Equal(t, 2, counts[models.StatusResolved])
	assert.Equal(t, 1, counts[models.StatusInProgress])
}

func TestSnapshots(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	old := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.SaveSnapshot(ctx, models.Snapshot{
		TakenAt: old,
		Range:   "Last 30 Days",
		Result:  models.MetricsResult{Range: "Last 30 Days", Indices: models.Indices{DDCount: 1}},
	}))
	require.NoError(t, db.SaveSnapshot(ctx, models.Snapshot{
		TakenAt: recent,
		Range:   "Last 90 Days",
		Result:  models.MetricsResult{Range: "Last 90 Days", TypeStats: map[string]int{"DD": 3}, Indices: models.Indices{DDCount: 3, SAIDI: 0.25}},
	}))

	all, err := db.ListSnapshots(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Last 90 Days", all[0].Range)
	assert.Equal(t, 0.25, all[0].Result.Indices.SAIDI)
	assert.Equal(t, 3, all[0].Result.TypeStats["DD"])

	only, err := db.ListSnapshots(ctx, "Last 30 Days", 10)
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, 1, only[0].Result.Indices.DDCount)

	n, err := db.PurgeSnapshots(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	all, err = db.ListSnapshots(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, db.Vacuum(ctx))
}
