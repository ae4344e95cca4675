package job

import (
	"MarketPulse/internal/pkg/logger"
	"MarketPulse/internal/service"
	"context"
	log "log/slog"
	"time"
)

// CounterReconcileJob 用流水校准最近活跃用户的行为计数
type CounterReconcileJob struct {
	catalogSvc service.CatalogService
	window     time.Duration
	now        service.Clock
}

func NewCounterReconcileJob(catalogSvc service.CatalogService, window time.Duration, now service.Clock) *CounterReconcileJob {
	return &CounterReconcileJob{
		catalogSvc: catalogSvc,
		window:     window,
		now:        now,
	}
}

func (s *CounterReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(logger.WithTraceID(context.Background(), "job-counter"), 30*time.Minute)
	defer cancel()

	log.InfoContext(ctx, "start counter reconcile job")
	checked, drifted, err := s.catalogSvc.ReconcileCounters(ctx, s.now().UTC().Add(-s.window))
	if err != nil {
		log.ErrorContext(ctx, "counter reconcile job aborted", "checked", checked, "drifted", drifted, "err", err)
		return
	}
	if drifted > 0 {
		log.WarnContext(ctx, "counter reconcile job found drift", "checked", checked, "drifted", drifted)
		return
	}
	log.InfoContext(ctx, "counter reconcile job finished", "checked", checked)
}
