package scheduler

import (
	"context"
	"time"
)

// maintenanceWorker runs periodic maintenance tasks
func (s *Scheduler) maintenanceWorker() {
	defer s.wg.Done()

	// Run maintenance every hour
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	// Run immediately on start
	s.performMaintenance()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.performMaintenance()
		}
	}
}

// vacuumer is implemented by stores that can reclaim space
type vacuumer interface {
	Vacuum(ctx context.Context) error
}

// performMaintenance expires snapshots older than the retention window
func (s *Scheduler) performMaintenance() {
	s.logger.Debug("Running maintenance tasks...")

	cutoff := s.now().Add(-s.config.Retention)
	n, err := s.store.PurgeSnapshots(s.ctx, cutoff)
	if err != nil {
		s.logger.WithError(err).Error("Failed to purge snapshots")
	} else if n > 0 {
		s.logger.WithField("deleted", n).Info("Purged expired snapshots")
	}

	// Vacuum to reclaim space (run occasionally)
	if v, ok := s.store.(vacuumer); ok && s.now().Day() == 1 {
		if err := v.Vacuum(s.ctx); err != nil {
			s.logger.WithError(err).Error("Failed to vacuum database")
		}
	}

	s.logger.Debug("Maintenance complete")
}
