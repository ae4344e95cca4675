package service

import (
	"MarketPulse/internal/model"
	"MarketPulse/internal/pkg/lock"
	"MarketPulse/internal/repository"
	"context"
	"sync"
	"testing"
	"time"
)

func TestNextStreak(t *testing.T) {
	last := time.Date(2024, 6, 3, 22, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		current int
		now     time.Time
		want    int
	}{
		{"same day keeps streak", 4, last.Add(time.Hour), 4},
		{"next day increments", 4, time.Date(2024, 6, 4, 0, 30, 0, 0, time.UTC), 5},
		{"gap resets", 4, time.Date(2024, 6, 6, 9, 0, 0, 0, time.UTC), 1},
		{"first activity starts at one", 0, last, 1},
		{"clock behind keeps streak", 4, last.Add(-48 * time.Hour), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextStreak(tt.current, last, tt.now); got != tt.want {
				t.Fatalf("NextStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestApplyPointsRejectsInvalidInput(t *testing.T) {
	h := newHarness(t)
	if _, err := h.ledger.ApplyPoints(h.ctx, 0, 10); err != ErrUserIDMissing {
		t.Fatalf("ApplyPoints() error = %v, want ErrUserIDMissing", err)
	}
	if _, err := h.ledger.ApplyPoints(h.ctx, 1, -1); err != ErrPointsInvalid {
		t.Fatalf("ApplyPoints() error = %v, want ErrPointsInvalid", err)
	}
}

func TestApplyPointsKeepsLatestActivity(t *testing.T) {
	h := newHarness(t)
	h.seedAccount(1, 0, 3, testStart.Add(time.Hour))

	account, err := h.ledger.ApplyPoints(h.ctx, 1, 10)
	if err != nil {
		t.Fatalf("ApplyPoints() error = %v", err)
	}
	if !account.LastActivity.Equal(testStart.Add(time.Hour)) {
		t.Fatalf("LastActivity moved backwards to %v", account.LastActivity)
	}
	if account.StreakDays != 3 {
		t.Fatalf("StreakDays = %d, want 3", account.StreakDays)
	}
}

func TestExpireStreaks(t *testing.T) {
	h := newHarness(t)
	h.seedAccount(1, 50, 4, testStart.Add(-48*time.Hour))
	h.seedAccount(2, 50, 4, testStart.Add(-24*time.Hour))
	h.seedAccount(3, 50, 2, testStart)

	n, err := h.ledger.ExpireStreaks(h.ctx)
	if err != nil {
		t.Fatalf("ExpireStreaks() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("ExpireStreaks() reset %d accounts, want 1", n)
	}
	if got := h.account(1).StreakDays; got != 0 {
		t.Fatalf("stale streak = %d, want 0", got)
	}
	if got := h.account(2).StreakDays; got != 4 {
		t.Fatalf("yesterday streak = %d, want 4", got)
	}
	if got := h.account(1).Points; got != 50 {
		t.Fatalf("points changed by streak expiry: %d", got)
	}
}

// pointsReadRecorder 记录积分账户的读取方式
type pointsReadRecorder struct {
	repository.PointsRepo
	mu    sync.Mutex
	reads []string
}

func (r *pointsReadRecorder) GetByUserID(ctx context.Context, userID uint64) (*model.UserPoints, error) {
	r.record("plain")
	return r.PointsRepo.GetByUserID(ctx, userID)
}

func (r *pointsReadRecorder) GetByUserIDForUpdate(ctx context.Context, userID uint64) (*model.UserPoints, error) {
	r.record("for_update")
	return r.PointsRepo.GetByUserIDForUpdate(ctx, userID)
}

func (r *pointsReadRecorder) record(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads = append(r.reads, kind)
}

func TestTrackActivityLocksBeforeSnapshot(t *testing.T) {
	h := newHarness(t)
	h.seedAccount(1, 95, 1, testStart)

	recorder := &pointsReadRecorder{PointsRepo: h.pointsRepo}
	txManager := repository.NewTxManager(h.db)
	svc := NewGamificationService(
		txManager,
		lock.NewKeyedMutex(),
		NewActivityRecorder(txManager, h.activityRepo, h.clock.Now),
		NewPointsLedger(txManager, recorder, h.clock.Now),
		h.evaluator,
		NewChallengeTracker(txManager, h.challengeRepo, h.clock.Now),
		NewNotificationDispatcher(h.rules),
		h.publisher,
		h.rules,
	)

	res, err := svc.TrackActivity(h.ctx, 1, model.ActivityReadArticle, "article-1", nil)
	if err != nil {
		t.Fatalf("TrackActivity() error = %v", err)
	}
	if res.Before == nil || res.Before.Points != 95 || res.Notification.LevelUp == nil {
		t.Fatalf("result = %+v", res)
	}
	if len(recorder.reads) == 0 || recorder.reads[0] != "for_update" {
		t.Fatalf("reads = %v, want the before snapshot read under row lock", recorder.reads)
	}
	for _, kind := range recorder.reads {
		if kind == "plain" {
			t.Fatalf("reads = %v, want no unlocked account reads inside the chain", recorder.reads)
		}
	}
}
