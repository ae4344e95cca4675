package service

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/model"
	"MarketPulse/internal/pkg/lock"
	"MarketPulse/internal/repository"
	"MarketPulse/internal/testutil"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"
)

var testStart = time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)

type fakePublisher struct {
	mu   sync.Mutex
	sent []*dto.NotificationDTO
	err  error
}

func (p *fakePublisher) PublishNotification(_ context.Context, _ uint64, n *dto.NotificationDTO) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, n)
	return p.err
}

type harness struct {
	t     *testing.T
	ctx   context.Context
	db    *gorm.DB
	clock *testutil.FixedClock
	rules Rules

	activityRepo    repository.ActivityRepo
	pointsRepo      repository.PointsRepo
	achievementRepo repository.AchievementRepo
	challengeRepo   repository.ChallengeRepo

	ledger    PointsLedger
	evaluator AchievementEvaluator
	svc       GamificationService
	stats     StatsService
	catalog   CatalogService
	publisher *fakePublisher
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithRules(t, DefaultRules())
}

func newHarnessWithRules(t *testing.T, rules Rules) *harness {
	t.Helper()
	db := testutil.OpenTestDB(t)
	clock := testutil.NewFixedClock(testStart)
	now := clock.Now

	h := &harness{
		t:               t,
		ctx:             context.Background(),
		db:              db,
		clock:           clock,
		rules:           rules,
		activityRepo:    repository.NewActivityRepo(db),
		pointsRepo:      repository.NewPointsRepo(db),
		achievementRepo: repository.NewAchievementRepo(db),
		challengeRepo:   repository.NewChallengeRepo(db),
		publisher:       &fakePublisher{},
	}
	txManager := repository.NewTxManager(db)
	locker := lock.NewKeyedMutex()

	h.ledger = NewPointsLedger(txManager, h.pointsRepo, now)
	h.evaluator = NewAchievementEvaluator(h.achievementRepo, h.activityRepo, h.pointsRepo, now)
	h.svc = NewGamificationService(
		txManager,
		locker,
		NewActivityRecorder(txManager, h.activityRepo, now),
		h.ledger,
		h.evaluator,
		NewChallengeTracker(txManager, h.challengeRepo, now),
		NewNotificationDispatcher(rules),
		h.publisher,
		rules,
	)
	h.stats = NewStatsService(h.activityRepo, h.pointsRepo, h.achievementRepo, h.challengeRepo, rules, now)
	h.catalog = NewCatalogService(txManager, locker, h.achievementRepo, h.challengeRepo, h.activityRepo, now)
	return h
}

func (h *harness) track(userID uint64, activityType model.ActivityType, points *int64) *TrackResult {
	h.t.Helper()
	res, err := h.svc.TrackActivity(h.ctx, userID, activityType, "article-1", points)
	if err != nil {
		h.t.Fatalf("TrackActivity(%s) error = %v", activityType, err)
	}
	return res
}

// seedAccount 直接写入一个已有账户
func (h *harness) seedAccount(userID uint64, points int64, streak int, lastActivity time.Time) {
	h.t.Helper()
	if _, err := h.pointsRepo.EnsurePoints(h.ctx, userID, lastActivity); err != nil {
		h.t.Fatalf("EnsurePoints() error = %v", err)
	}
	err := h.pointsRepo.UpdatePoints(h.ctx, &model.UserPoints{
		UserID:       userID,
		Points:       points,
		Level:        model.LevelForPoints(points),
		StreakDays:   streak,
		LastActivity: lastActivity.UTC(),
	})
	if err != nil {
		h.t.Fatalf("UpdatePoints() error = %v", err)
	}
}

func (h *harness) account(userID uint64) *model.UserPoints {
	h.t.Helper()
	account, err := h.pointsRepo.GetByUserID(h.ctx, userID)
	if err != nil {
		h.t.Fatalf("GetByUserID() error = %v", err)
	}
	if account == nil {
		h.t.Fatalf("account %d not found", userID)
	}
	return account
}

func (h *harness) addAchievement(name string, action model.ActionRequired, threshold int64) *model.Achievement {
	h.t.Helper()
	a := &model.Achievement{Name: name, ActionRequired: action, Threshold: threshold, IsActive: true}
	if action == model.ActionTotalPoints {
		a.PointsRequired = threshold
	}
	if err := h.achievementRepo.CreateAchievement(h.ctx, a); err != nil {
		h.t.Fatalf("CreateAchievement() error = %v", err)
	}
	return a
}

func (h *harness) addChallenge(challengeType model.ActivityType, target, reward int64) *model.DailyChallenge {
	h.t.Helper()
	c := &model.DailyChallenge{
		Date:          h.clock.Now().Format(model.DateLayout),
		Title:         "daily " + string(challengeType),
		ChallengeType: challengeType,
		TargetCount:   target,
		PointsReward:  reward,
		IsActive:      true,
	}
	if err := h.challengeRepo.CreateChallenge(h.ctx, c); err != nil {
		h.t.Fatalf("CreateChallenge() error = %v", err)
	}
	return c
}

func (h *harness) activityCount(userID uint64) int64 {
	h.t.Helper()
	n, err := h.activityRepo.CountActivities(h.ctx, userID)
	if err != nil {
		h.t.Fatalf("CountActivities() error = %v", err)
	}
	return n
}

func (h *harness) counters(userID uint64) map[model.ActivityType]int64 {
	h.t.Helper()
	counts, err := h.activityRepo.GetCounters(h.ctx, userID)
	if err != nil {
		h.t.Fatalf("GetCounters() error = %v", err)
	}
	return counts
}

func ptr(v int64) *int64 {
	return &v
}

func isPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
