package cron

import (
	"context"
	"fmt"
	"time"

	"habitlog-service/internal/domain/service"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const refreshTimeout = 5 * time.Minute

// LeaderboardRefresher periodically recomputes cached leaderboards
type LeaderboardRefresher struct {
	leaderboards service.LeaderboardService
	cron         *cron.Cron
	interval     time.Duration
	logger       *zap.Logger
}

// NewLeaderboardRefresher creates a new leaderboard refresher
func NewLeaderboardRefresher(leaderboards service.LeaderboardService, interval time.Duration, logger *zap.Logger) *LeaderboardRefresher {
	return &LeaderboardRefresher{
		leaderboards: leaderboards,
		cron:         cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		interval:     interval,
		logger:       logger,
	}
}

// Start schedules the refresh job
func (r *LeaderboardRefresher) Start() error {
	cronExpr := fmt.Sprintf("@every %s", r.interval.String())

	if _, err := r.cron.AddFunc(cronExpr, r.refresh); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.cron.Start()
	r.logger.Info("leaderboard refresher started", zap.Duration("interval", r.interval))

	return nil
}

// Stop waits for a running refresh to finish
func (r *LeaderboardRefresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("leaderboard refresher stopped")
}

func (r *LeaderboardRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	start := time.Now()
	if err := r.leaderboards.RefreshAll(ctx); err != nil {
		r.logger.Error("leaderboard refresh failed", zap.Error(err))
		return
	}

	r.logger.Debug("leaderboard refresh completed", zap.Duration("took", time.Since(start)))
}
