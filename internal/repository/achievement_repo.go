package repository

import (
	"MarketPulse/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepo interface {
	GetActiveAchievements(ctx context.Context) ([]*model.Achievement, error)
	GetAchievementByID(ctx context.Context, id uint64) (*model.Achievement, error)
	CreateAchievement(ctx context.Context, achievement *model.Achievement) error
	UpdateAchievement(ctx context.Context, achievement *model.Achievement) error
	SetAchievementActive(ctx context.Context, id uint64, active bool) error

	GetEarnedAchievementIDs(ctx context.Context, userID uint64) ([]uint64, error)
	CreateUserAchievement(ctx context.Context, ua *model.UserAchievement) (bool, error)
	GetUserAchievements(ctx context.Context, userID uint64) ([]*model.UserAchievement, error)
	GetRecentUserAchievements(ctx context.Context, userID uint64, since time.Time, limit int) ([]*model.UserAchievement, error)
	CountUserAchievements(ctx context.Context, userID uint64) (int64, error)
}

type achievementRepoImpl struct {
	db *gorm.DB
}

func NewAchievementRepo(db *gorm.DB) AchievementRepo {
	return &achievementRepoImpl{db: db}
}

func (s *achievementRepoImpl) GetActiveAchievements(ctx context.Context) ([]*model.Achievement, error) {
	list := make([]*model.Achievement, 0)
	err := conn(ctx, s.db).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (s *achievementRepoImpl) GetAchievementByID(ctx context.Context, id uint64) (*model.Achievement, error) {
	var achievement model.Achievement
	err := conn(ctx, s.db).Where("id = ?", id).First(&achievement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &achievement, nil
}

func (s *achievementRepoImpl) CreateAchievement(ctx context.Context, achievement *model.Achievement) error {
	return conn(ctx, s.db).Create(achievement).Error
}

func (s *achievementRepoImpl) UpdateAchievement(ctx context.Context, achievement *model.Achievement) error {
	return conn(ctx, s.db).Model(&model.Achievement{}).
		Where("id = ?", achievement.ID).
		Updates(map[string]interface{}{
			"name":            achievement.Name,
			"description":     achievement.Description,
			"icon":            achievement.Icon,
			"category":        achievement.Category,
			"action_required": achievement.ActionRequired,
			"threshold":       achievement.Threshold,
			"points_required": achievement.PointsRequired,
			"is_active":       achievement.IsActive,
			"updated_at":      time.Now(),
		}).Error
}

func (s *achievementRepoImpl) SetAchievementActive(ctx context.Context, id uint64, active bool) error {
	return conn(ctx, s.db).Model(&model.Achievement{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		}).Error
}

func (s *achievementRepoImpl) GetEarnedAchievementIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := conn(ctx, s.db).Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &ids).Error
	return ids, err
}

// CreateUserAchievement 唯一键冲突时不报错，返回 false 表示已被其他请求写入
func (s *achievementRepoImpl) CreateUserAchievement(ctx context.Context, ua *model.UserAchievement) (bool, error) {
	result := conn(ctx, s.db).
		Omit("Achievement").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(ua)
	if result.Error != nil {
		if IsDuplicateError(result.Error) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *achievementRepoImpl) GetUserAchievements(ctx context.Context, userID uint64) ([]*model.UserAchievement, error) {
	list := make([]*model.UserAchievement, 0)
	err := conn(ctx, s.db).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&list).Error
	return list, err
}

// GetRecentUserAchievements 获取 since 之后获得的成就，按获得时间倒序
func (s *achievementRepoImpl) GetRecentUserAchievements(ctx context.Context, userID uint64, since time.Time, limit int) ([]*model.UserAchievement, error) {
	list := make([]*model.UserAchievement, 0)
	err := conn(ctx, s.db).
		Preload("Achievement").
		Where("user_id = ? AND earned_at >= ?", userID, since).
		Order("earned_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (s *achievementRepoImpl) CountUserAchievements(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := conn(ctx, s.db).Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
