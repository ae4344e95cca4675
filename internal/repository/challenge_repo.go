package repository

import (
	"MarketPulse/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChallengeRepo interface {
	GetActiveChallengesByDate(ctx context.Context, date string) ([]*model.DailyChallenge, error)
	GetActiveChallengesByType(ctx context.Context, date string, challengeType model.ActivityType) ([]*model.DailyChallenge, error)
	GetChallengeByID(ctx context.Context, id uint64) (*model.DailyChallenge, error)
	GetChallengesByDate(ctx context.Context, date string) ([]*model.DailyChallenge, error)
	CreateChallenge(ctx context.Context, challenge *model.DailyChallenge) error
	SetChallengeActive(ctx context.Context, id uint64, active bool) error

	GetOrCreateProgress(ctx context.Context, userID, challengeID uint64, date string) (*model.UserDailyProgress, bool, error)
	UpdateProgress(ctx context.Context, progress *model.UserDailyProgress) error
	GetUserProgressByDate(ctx context.Context, userID uint64, date string) ([]*model.UserDailyProgress, error)
}

type challengeRepoImpl struct {
	db *gorm.DB
}

func NewChallengeRepo(db *gorm.DB) ChallengeRepo {
	return &challengeRepoImpl{db: db}
}

func (s *challengeRepoImpl) GetActiveChallengesByDate(ctx context.Context, date string) ([]*model.DailyChallenge, error) {
	list := make([]*model.DailyChallenge, 0)
	err := conn(ctx, s.db).
		Where("date = ? AND is_active = ?", date, true).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// GetActiveChallengesByType 挑战完成类型永远不参与匹配
func (s *challengeRepoImpl) GetActiveChallengesByType(ctx context.Context, date string, challengeType model.ActivityType) ([]*model.DailyChallenge, error) {
	list := make([]*model.DailyChallenge, 0)
	if !challengeType.Challengeable() {
		return list, nil
	}
	err := conn(ctx, s.db).
		Where("date = ? AND is_active = ? AND challenge_type = ?", date, true, challengeType).
		Where("challenge_type <> ?", model.ActivityCompleteDailyChallenge).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (s *challengeRepoImpl) GetChallengeByID(ctx context.Context, id uint64) (*model.DailyChallenge, error) {
	var challenge model.DailyChallenge
	err := conn(ctx, s.db).Where("id = ?", id).First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &challenge, nil
}

// GetChallengesByDate 包含已停用的挑战，供后台查看
func (s *challengeRepoImpl) GetChallengesByDate(ctx context.Context, date string) ([]*model.DailyChallenge, error) {
	list := make([]*model.DailyChallenge, 0)
	err := conn(ctx, s.db).
		Where("date = ?", date).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (s *challengeRepoImpl) SetChallengeActive(ctx context.Context, id uint64, active bool) error {
	return conn(ctx, s.db).Model(&model.DailyChallenge{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		}).Error
}

func (s *challengeRepoImpl) CreateChallenge(ctx context.Context, challenge *model.DailyChallenge) error {
	return conn(ctx, s.db).Create(challenge).Error
}

// GetOrCreateProgress 加锁读取当日进度，不存在时插入空进度，created 表示本次新建
func (s *challengeRepoImpl) GetOrCreateProgress(ctx context.Context, userID, challengeID uint64, date string) (*model.UserDailyProgress, bool, error) {
	db := conn(ctx, s.db)
	now := time.Now()
	progress := &model.UserDailyProgress{
		UserID:      userID,
		ChallengeID: challengeID,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(progress)
	if result.Error != nil && !IsDuplicateError(result.Error) {
		return nil, false, result.Error
	}
	created := result.Error == nil && result.RowsAffected > 0

	var existing model.UserDailyProgress
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND challenge_id = ? AND date = ?", userID, challengeID, date).
		First(&existing).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, created, nil
}

func (s *challengeRepoImpl) UpdateProgress(ctx context.Context, progress *model.UserDailyProgress) error {
	return conn(ctx, s.db).Model(&model.UserDailyProgress{}).
		Where("id = ?", progress.ID).
		Updates(map[string]interface{}{
			"current_progress": progress.CurrentProgress,
			"is_completed":     progress.IsCompleted,
			"completed_at":     progress.CompletedAt,
			"updated_at":       time.Now(),
		}).Error
}

func (s *challengeRepoImpl) GetUserProgressByDate(ctx context.Context, userID uint64, date string) ([]*model.UserDailyProgress, error) {
	list := make([]*model.UserDailyProgress, 0)
	err := conn(ctx, s.db).
		Where("user_id = ? AND date = ?", userID, date).
		Order("challenge_id ASC").
		Find(&list).Error
	return list, err
}
