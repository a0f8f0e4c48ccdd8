// Package scheduler runs automatic backups on a fixed interval when enabled
// by config. There is no cross-request coordination: a scheduled backup is
// an ordinary Create call and races with manual ones the same way two manual
// calls race with each other.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/roamio/backupd/internal/core"
	"github.com/roamio/backupd/internal/model"
)

type Scheduler struct {
	logger   zerolog.Logger
	backups  *core.BackupService
	interval time.Duration
}

func New(logger zerolog.Logger, backups *core.BackupService, interval time.Duration) *Scheduler {
	return &Scheduler{
		logger:   logger.With().Str("component", "scheduler").Logger(),
		backups:  backups,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled, creating one automatic backup per
// interval. A failed backup is logged and the ticker keeps going.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("automatic backups enabled")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			result, err := s.backups.Create(ctx, model.BackupTypeAutomatic, "scheduled backup")
			if err != nil {
				s.logger.Error().Err(err).Msg("automatic backup failed")
				continue
			}
			s.logger.Info().
				Str("backup_id", result.Entry.ID).
				Int64("total_documents", result.Entry.TotalDocuments).
				Msg("automatic backup created")
		}
	}
}
