package service

import (
	"MarketPulse/internal/model"
	"MarketPulse/internal/repository"
	"context"
	log "log/slog"
)

// AchievementEvaluator 对照成就目录发放新达成的成就
type AchievementEvaluator interface {
	Evaluate(ctx context.Context, userID uint64) ([]*model.Achievement, error)
}

type achievementEvaluatorImpl struct {
	achievementRepo repository.AchievementRepo
	activityRepo    repository.ActivityRepo
	pointsRepo      repository.PointsRepo
	now             Clock
}

func NewAchievementEvaluator(
	achievementRepo repository.AchievementRepo,
	activityRepo repository.ActivityRepo,
	pointsRepo repository.PointsRepo,
	now Clock,
) AchievementEvaluator {
	return &achievementEvaluatorImpl{
		achievementRepo: achievementRepo,
		activityRepo:    activityRepo,
		pointsRepo:      pointsRepo,
		now:             now,
	}
}

// Evaluate 读取维护的计数而非扫描流水，重复调用不会重复发放
func (s *achievementEvaluatorImpl) Evaluate(ctx context.Context, userID uint64) ([]*model.Achievement, error) {
	if userID == 0 {
		return nil, ErrUserIDMissing
	}

	catalog, err := s.achievementRepo.GetActiveAchievements(ctx)
	if err != nil {
		return nil, persistErr("load_achievements", err)
	}
	if len(catalog) == 0 {
		return nil, nil
	}

	earnedIDs, err := s.achievementRepo.GetEarnedAchievementIDs(ctx, userID)
	if err != nil {
		return nil, persistErr("load_earned_achievements", err)
	}
	earned := make(map[uint64]struct{}, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = struct{}{}
	}

	counts, err := s.activityRepo.GetCounters(ctx, userID)
	if err != nil {
		return nil, persistErr("load_counters", err)
	}
	account, err := s.pointsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, persistErr("load_points", err)
	}

	var newly []*model.Achievement
	now := s.now().UTC()
	for _, a := range catalog {
		if _, ok := earned[a.ID]; ok {
			continue
		}
		if !a.Met(counts, account) {
			continue
		}
		created, err := s.achievementRepo.CreateUserAchievement(ctx, &model.UserAchievement{
			UserID:        userID,
			AchievementID: a.ID,
			EarnedAt:      now,
		})
		if err != nil {
			return nil, persistErr("grant_achievement", err)
		}
		if !created {
			log.WarnContext(ctx, "achievement already granted by concurrent request",
				"user_id", userID, "achievement_id", a.ID)
			continue
		}
		log.InfoContext(ctx, "achievement earned", "user_id", userID, "achievement_id", a.ID, "name", a.Name)
		newly = append(newly, a)
	}
	return newly, nil
}

