package cron

import (
	"MarketPulse/internal/job"
	"testing"
	"time"
)

func TestRegisterJobs(t *testing.T) {
	m := NewCronManager(&job.StreakExpireJob{}, &job.LeaderboardRefreshJob{}, &job.CounterReconcileJob{}, time.Minute)
	if err := m.RegisterJobs(); err != nil {
		t.Fatalf("RegisterJobs() error = %v", err)
	}
	if m.Entries() != 3 {
		t.Fatalf("Entries() = %d, want 3", m.Entries())
	}
}

func TestRegisterJobsWithoutLeaderboardCache(t *testing.T) {
	m := NewCronManager(&job.StreakExpireJob{}, nil, &job.CounterReconcileJob{}, time.Minute)
	if err := m.RegisterJobs(); err != nil {
		t.Fatalf("RegisterJobs() error = %v", err)
	}
	if m.Entries() != 2 {
		t.Fatalf("Entries() = %d, want 2", m.Entries())
	}
}
