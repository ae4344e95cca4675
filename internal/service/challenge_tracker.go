package service

import (
	"MarketPulse/internal/model"
	"MarketPulse/internal/pkg/util"
	"MarketPulse/internal/repository"
	"context"
	log "log/slog"
)

// ChallengeTracker 推进当日挑战进度，返回本次新完成的挑战
type ChallengeTracker interface {
	AdvanceProgress(ctx context.Context, userID uint64, activityType model.ActivityType) ([]*model.DailyChallenge, error)
}

type challengeTrackerImpl struct {
	txManager     repository.TxManager
	challengeRepo repository.ChallengeRepo
	now           Clock
}

func NewChallengeTracker(txManager repository.TxManager, challengeRepo repository.ChallengeRepo, now Clock) ChallengeTracker {
	return &challengeTrackerImpl{
		txManager:     txManager,
		challengeRepo: challengeRepo,
		now:           now,
	}
}

// AdvanceProgress 挑战完成类型不参与计数
func (s *challengeTrackerImpl) AdvanceProgress(ctx context.Context, userID uint64, activityType model.ActivityType) ([]*model.DailyChallenge, error) {
	if userID == 0 {
		return nil, ErrUserIDMissing
	}
	if !activityType.Challengeable() {
		return nil, nil
	}

	now := s.now().UTC()
	today := util.Today(now)

	var completed []*model.DailyChallenge
	err := s.txManager.Transaction(ctx, func(ctx context.Context) error {
		challenges, err := s.challengeRepo.GetActiveChallengesByType(ctx, today, activityType)
		if err != nil {
			return err
		}

		for _, c := range challenges {
			progress, created, err := s.challengeRepo.GetOrCreateProgress(ctx, userID, c.ID, today)
			if err != nil {
				return err
			}

			// 已有进度在加载时就达到目标却未标记完成，只补标记不发奖
			reachedBefore := !created && progress.CurrentProgress >= c.TargetCount
			progress.CurrentProgress++

			if !progress.IsCompleted && progress.CurrentProgress >= c.TargetCount {
				t := now
				progress.IsCompleted = true
				progress.CompletedAt = &t
				if reachedBefore {
					log.WarnContext(ctx, "daily challenge progress was complete but unmarked",
						"user_id", userID, "challenge_id", c.ID, "date", today)
				} else {
					completed = append(completed, c)
					log.InfoContext(ctx, "daily challenge completed",
						"user_id", userID, "challenge_id", c.ID, "date", today)
				}
			}
			if err = s.challengeRepo.UpdateProgress(ctx, progress); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, persistErr("advance_challenge", err)
	}
	return completed, nil
}
