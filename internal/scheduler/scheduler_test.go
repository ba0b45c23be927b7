package scheduler

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incident-analysis/internal/config"
	"incident-analysis/internal/database"
	"incident-analysis/internal/models"
	"incident-analysis/internal/reliability"
)

func newStore(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "sched.db"))
	require.NoError(t, err)
	require.NoError(t, db.InitSchema())
	t.Cleanup(func() { db.Close() })
	return db
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestSchedulerTakesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	created := fixed.AddDate(0, 0, -3)
	duration := 2.0
	affected := 500
	_, err := store.SaveIncident(ctx, models.Incident{
		Type: models.NewTypeSet("DD"), CreatedAt: &created, Duration: &duration, AffectedCustomers: &affected,
	})
	require.NoError(t, err)

	// stale snapshot that maintenance must purge
	require.NoError(t, store.SaveSnapshot(ctx, models.Snapshot{TakenAt: fixed.AddDate(-1, 0, 0), Range: "Last 30 Days"}))

	cfg := config.SnapshotConfig{
		Enabled:   true,
		Interval:  time.Hour,
		Retention: 30 * 24 * time.Hour,
		Ranges:    []string{"Last 30 Days", "Last Year"},
	}
	s := New(cfg, store, reliability.NewEngine(reliability.DefaultParams()), quietLogger())
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool {
		snaps, err := store.ListSnapshots(ctx, "", 10)
		if err != nil || len(snaps) != 2 {
			return false
		}
		for _, snap := range snaps {
			if !snap.TakenAt.Equal(fixed) {
				return false
			}
		}
		return true
	}, 5*time.Second, 20*time.Millisecond)

	s.Stop()
	s.Wait()

	snaps, err := store.ListSnapshots(ctx, "Last Year", 10)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.True(t, fixed.Equal(snaps[0].TakenAt))
	assert.Equal(t, 1, snaps[0].Result.Indices.DDCount)
	assert.Equal(t, 0.1, snaps[0].Result.Indices.SAIDI)
	assert.Empty(t, snaps[0].Result.Filtered)
}
