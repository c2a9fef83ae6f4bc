// Package workers runs the background jobs: the nightly karma sweep, the
// spatial index rebuild and refresh-token cleanup.
package workers

import (
	"context"
	"time"

	"favorx_backend/internal/logger"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron             *cron.Cron
	karmaService     services.KarmaService
	locationService  services.LocationService
	refreshTokenRepo repositories.RefreshTokenRepository
}

func NewScheduler(
	karmaService services.KarmaService,
	locationService services.LocationService,
	refreshTokenRepo repositories.RefreshTokenRepository,
) *Scheduler {
	return &Scheduler{
		cron:             cron.New(),
		karmaService:     karmaService,
		locationService:  locationService,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers and launches the jobs. The sweep runs off-peak; scores
// stay consistent during the day through the synchronous recompute on each
// rating/review event, the sweep catches decay drift.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("karma sweep started")
		resp, err := s.karmaService.RecomputeActiveUsers(ctx)
		if err != nil {
			logger.Error("karma sweep failed", "error", err)
			return
		}
		logger.Info("karma sweep finished",
			"processed", resp.Processed, "failed", resp.Failed)
	})

	s.cron.AddFunc("30 3 * * *", func() {
		indexed, err := s.locationService.RebuildIndex(ctx)
		if err != nil {
			logger.Error("location index rebuild failed", "error", err)
			return
		}
		logger.Info("location index rebuilt", "indexed", indexed)
	})

	s.cron.AddFunc("0 4 * * *", func() {
		removed, err := s.refreshTokenRepo.DeleteExpired(time.Now())
		if err != nil {
			logger.Error("refresh token cleanup failed", "error", err)
			return
		}
		logger.Info("expired refresh tokens removed", "count", removed)
	})

	s.cron.Start()
	logger.Info("background scheduler started")
}

func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	logger.Info("background scheduler stopped")
}
