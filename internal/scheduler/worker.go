package scheduler

import (
	"time"

	"incident-analysis/internal/models"
	"incident-analysis/internal/reliability"
)

// snapshotWorker takes snapshots at the configured interval
func (s *Scheduler) snapshotWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Immediate first snapshot
	s.takeSnapshots()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.takeSnapshots()
		}
	}
}

// takeSnapshots analyses the current incident log once per configured range
// and queues the results for persistence
func (s *Scheduler) takeSnapshots() {
	incidents, err := s.store.ListIncidents(s.ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load incidents for snapshot")
		return
	}

	now := s.now()
	for _, label := range s.config.Ranges {
		res := s.engine.Analyze(incidents, reliability.Query{Range: label, Type: reliability.AllTypes}, now)
		// the incident list is reproducible from the store
		res.Filtered = nil

		snap := models.Snapshot{TakenAt: now, Range: res.Range, Result: res}
		select {
		case s.results <- snap:
		default:
			s.logger.WithField("range", label).Warn("Snapshot channel full, dropping snapshot")
		}
	}
}

// processResults persists snapshots from the results channel
func (s *Scheduler) processResults() {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case snap := <-s.results:
			if err := s.store.SaveSnapshot(s.ctx, snap); err != nil {
				s.logger.WithError(err).Error("Failed to save snapshot")
			}
		}
	}
}
