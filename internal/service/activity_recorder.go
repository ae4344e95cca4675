package service

import (
	"MarketPulse/internal/model"
	"MarketPulse/internal/repository"
	"context"
)

// ActivityRecorder 追加行为流水并同步累计计数
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, userID uint64, activityType model.ActivityType, targetID string, pointsEarned int64) (*model.UserActivity, error)
}

type activityRecorderImpl struct {
	txManager    repository.TxManager
	activityRepo repository.ActivityRepo
	now          Clock
}

func NewActivityRecorder(txManager repository.TxManager, activityRepo repository.ActivityRepo, now Clock) ActivityRecorder {
	return &activityRecorderImpl{
		txManager:    txManager,
		activityRepo: activityRepo,
		now:          now,
	}
}

func (s *activityRecorderImpl) RecordActivity(ctx context.Context, userID uint64, activityType model.ActivityType, targetID string, pointsEarned int64) (*model.UserActivity, error) {
	if err := validateActivity(userID, activityType, pointsEarned); err != nil {
		return nil, err
	}

	activity := &model.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		TargetID:     targetID,
		PointsEarned: pointsEarned,
		CreatedAt:    s.now().UTC(),
	}

	err := s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := s.activityRepo.CreateActivity(ctx, activity); err != nil {
			return err
		}
		return s.activityRepo.IncrCounter(ctx, userID, activityType)
	})
	if err != nil {
		return nil, persistErr("record_activity", err)
	}
	return activity, nil
}

func validateActivity(userID uint64, activityType model.ActivityType, pointsEarned int64) error {
	if userID == 0 {
		return ErrUserIDMissing
	}
	if !activityType.Valid() {
		return ErrActivityTypeInvalid
	}
	if pointsEarned < 0 {
		return ErrPointsInvalid
	}
	return nil
}
