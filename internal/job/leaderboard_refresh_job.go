package job

import (
	"MarketPulse/internal/pkg/logger"
	"MarketPulse/internal/service"
	"context"
	log "log/slog"
	"time"
)

type LeaderboardRefreshJob struct {
	leaderboardSvc service.LeaderboardService
}

func NewLeaderboardRefreshJob(leaderboardSvc service.LeaderboardService) *LeaderboardRefreshJob {
	return &LeaderboardRefreshJob{
		leaderboardSvc: leaderboardSvc,
	}
}

func (s *LeaderboardRefreshJob) Run() {
	ctx, cancel := context.WithTimeout(logger.WithTraceID(context.Background(), "job-leaderboard"), time.Minute)
	defer cancel()

	start := time.Now()
	if err := s.leaderboardSvc.RefreshLeaderboards(ctx); err != nil {
		log.ErrorContext(ctx, "leaderboard refresh failed", "err", err)
		return
	}
	log.InfoContext(ctx, "leaderboard refreshed", "latency", time.Since(start))
}
