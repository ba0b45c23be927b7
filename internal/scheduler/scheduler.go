package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"incident-analysis/internal/config"
	"incident-analysis/internal/models"
	"incident-analysis/internal/reliability"
)

// Store is the persistence the scheduler needs
type Store interface {
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	models.SnapshotStore
}

// Scheduler periodically snapshots the reliability metrics of each
// configured range and expires old snapshots
type Scheduler struct {
	config  config.SnapshotConfig
	store   Store
	engine  *reliability.Engine
	logger  *logrus.Logger
	now     func() time.Time
	results chan models.Snapshot
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a new Scheduler
func New(cfg config.SnapshotConfig, store Store, engine *reliability.Engine, logger *logrus.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		config:  cfg,
		store:   store,
		engine:  engine,
		logger:  logger,
		now:     time.Now,
		results: make(chan models.Snapshot, 100),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins taking snapshots
func (s *Scheduler) Start() error {
	s.logger.WithField("ranges", s.config.Ranges).Info("Starting snapshot scheduler")

	// Start result processor
	s.wg.Add(1)
	go s.processResults()

	s.wg.Add(1)
	go s.snapshotWorker()

	// Start maintenance routines
	s.wg.Add(1)
	go s.maintenanceWorker()

	s.logger.WithField("interval", s.config.Interval).Info("Snapshot scheduler started")
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping snapshot scheduler...")
	s.cancel()
}

// Wait blocks until all goroutines finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
	s.logger.Info("Snapshot scheduler stopped")
}
