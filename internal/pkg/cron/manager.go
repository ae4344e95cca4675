package cron

import (
	"MarketPulse/internal/job"
	"fmt"
	log "log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	streakExpireSpec     = "0 5 0 * * *"
	counterReconcileSpec = "0 30 3 * * *"
)

type Manager struct {
	engine                *cron.Cron
	streakExpireJob       *job.StreakExpireJob
	leaderboardRefreshJob *job.LeaderboardRefreshJob
	counterReconcileJob   *job.CounterReconcileJob
	leaderboardInterval   time.Duration
}

// NewCronManager 所有任务按 UTC 调度，与每日挑战的日期边界一致
func NewCronManager(
	streakExpireJob *job.StreakExpireJob,
	leaderboardRefreshJob *job.LeaderboardRefreshJob,
	counterReconcileJob *job.CounterReconcileJob,
	leaderboardInterval time.Duration,
) *Manager {
	return &Manager{
		engine:                cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
		streakExpireJob:       streakExpireJob,
		leaderboardRefreshJob: leaderboardRefreshJob,
		counterReconcileJob:   counterReconcileJob,
		leaderboardInterval:   leaderboardInterval,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(streakExpireSpec, s.streakExpireJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob(counterReconcileSpec, s.counterReconcileJob); err != nil {
		return err
	}
	if s.leaderboardRefreshJob != nil && s.leaderboardInterval > 0 {
		spec := fmt.Sprintf("@every %s", s.leaderboardInterval)
		if _, err := s.engine.AddJob(spec, s.leaderboardRefreshJob); err != nil {
			return err
		}
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

// Entries 已注册的任务数量
func (s *Manager) Entries() int {
	return len(s.engine.Entries())
}
