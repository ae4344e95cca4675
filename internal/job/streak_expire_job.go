package job

import (
	"MarketPulse/internal/pkg/logger"
	"MarketPulse/internal/service"
	"context"
	log "log/slog"
	"time"
)

// StreakExpireJob 每天凌晨清零已中断的连续天数，避免排行榜展示失效的连续记录
type StreakExpireJob struct {
	ledger service.PointsLedger
}

func NewStreakExpireJob(ledger service.PointsLedger) *StreakExpireJob {
	return &StreakExpireJob{
		ledger: ledger,
	}
}

func (s *StreakExpireJob) Run() {
	ctx, cancel := context.WithTimeout(logger.WithTraceID(context.Background(), "job-streak"), 5*time.Minute)
	defer cancel()

	log.InfoContext(ctx, "start streak expire job")
	n, err := s.ledger.ExpireStreaks(ctx)
	if err != nil {
		log.ErrorContext(ctx, "streak expire job failed", "err", err)
		return
	}
	log.InfoContext(ctx, "streak expire job finished", "reset_count", n)
}
