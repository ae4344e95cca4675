package repository

import (
	"MarketPulse/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PointsRepo interface {
	GetByUserID(ctx context.Context, userID uint64) (*model.UserPoints, error)
	GetByUserIDForUpdate(ctx context.Context, userID uint64) (*model.UserPoints, error)
	EnsurePoints(ctx context.Context, userID uint64, now time.Time) (bool, error)
	UpdatePoints(ctx context.Context, points *model.UserPoints) error
	GetTopByPoints(ctx context.Context, limit int) ([]*model.UserPoints, error)
	GetTopByLevel(ctx context.Context, limit int) ([]*model.UserPoints, error)
	GetTopByStreak(ctx context.Context, limit int) ([]*model.UserPoints, error)
	CountPointsAbove(ctx context.Context, points int64) (int64, error)
	CountLevelAbove(ctx context.Context, level int, points int64) (int64, error)
	CountStreakAbove(ctx context.Context, streak int, points int64) (int64, error)
	ResetExpiredStreaks(ctx context.Context, before time.Time) (int64, error)
}

type pointsRepoImpl struct {
	db *gorm.DB
}

func NewPointsRepo(db *gorm.DB) PointsRepo {
	return &pointsRepoImpl{db: db}
}

func (s *pointsRepoImpl) GetByUserID(ctx context.Context, userID uint64) (*model.UserPoints, error) {
	return s.getByUserID(conn(ctx, s.db), userID)
}

// GetByUserIDForUpdate 行锁读取，需在事务内调用
func (s *pointsRepoImpl) GetByUserIDForUpdate(ctx context.Context, userID uint64) (*model.UserPoints, error) {
	return s.getByUserID(conn(ctx, s.db).Clauses(clause.Locking{Strength: "UPDATE"}), userID)
}

func (s *pointsRepoImpl) getByUserID(db *gorm.DB, userID uint64) (*model.UserPoints, error) {
	var points model.UserPoints
	err := db.Where("user_id = ?", userID).First(&points).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &points, nil
}

// EnsurePoints 账户不存在时插入空账户，返回 true 表示本次新建
func (s *pointsRepoImpl) EnsurePoints(ctx context.Context, userID uint64, now time.Time) (bool, error) {
	points := &model.UserPoints{
		UserID:       userID,
		Level:        1,
		LastActivity: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	result := conn(ctx, s.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(points)
	if result.Error != nil {
		if IsDuplicateError(result.Error) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *pointsRepoImpl) UpdatePoints(ctx context.Context, points *model.UserPoints) error {
	return conn(ctx, s.db).Model(&model.UserPoints{}).
		Where("user_id = ?", points.UserID).
		Updates(map[string]interface{}{
			"points":        points.Points,
			"level":         points.Level,
			"streak_days":   points.StreakDays,
			"last_activity": points.LastActivity,
			"updated_at":    time.Now(),
		}).Error
}

func (s *pointsRepoImpl) GetTopByPoints(ctx context.Context, limit int) ([]*model.UserPoints, error) {
	return s.top(ctx, limit, "points DESC", "user_id ASC")
}

func (s *pointsRepoImpl) GetTopByLevel(ctx context.Context, limit int) ([]*model.UserPoints, error) {
	return s.top(ctx, limit, "level DESC", "points DESC", "user_id ASC")
}

func (s *pointsRepoImpl) GetTopByStreak(ctx context.Context, limit int) ([]*model.UserPoints, error) {
	return s.top(ctx, limit, "streak_days DESC", "points DESC", "user_id ASC")
}

func (s *pointsRepoImpl) top(ctx context.Context, limit int, orders ...string) ([]*model.UserPoints, error) {
	list := make([]*model.UserPoints, 0, limit)
	db := conn(ctx, s.db)
	for _, o := range orders {
		db = db.Order(o)
	}
	err := db.Limit(limit).Find(&list).Error
	return list, err
}

func (s *pointsRepoImpl) CountPointsAbove(ctx context.Context, points int64) (int64, error) {
	var count int64
	err := conn(ctx, s.db).Model(&model.UserPoints{}).
		Where("points > ?", points).
		Count(&count).Error
	return count, err
}

// CountLevelAbove 等级更高或同级积分更高的账户数
func (s *pointsRepoImpl) CountLevelAbove(ctx context.Context, level int, points int64) (int64, error) {
	var count int64
	err := conn(ctx, s.db).Model(&model.UserPoints{}).
		Where("level > ? OR (level = ? AND points > ?)", level, level, points).
		Count(&count).Error
	return count, err
}

func (s *pointsRepoImpl) CountStreakAbove(ctx context.Context, streak int, points int64) (int64, error) {
	var count int64
	err := conn(ctx, s.db).Model(&model.UserPoints{}).
		Where("streak_days > ? OR (streak_days = ? AND points > ?)", streak, streak, points).
		Count(&count).Error
	return count, err
}

// ResetExpiredStreaks 将最后活跃早于 before 的连续天数清零
func (s *pointsRepoImpl) ResetExpiredStreaks(ctx context.Context, before time.Time) (int64, error) {
	result := conn(ctx, s.db).Model(&model.UserPoints{}).
		Where("last_activity < ? AND streak_days > ?", before, 0).
		Updates(map[string]interface{}{
			"streak_days": 0,
			"updated_at":  time.Now(),
		})
	return result.RowsAffected, result.Error
}
