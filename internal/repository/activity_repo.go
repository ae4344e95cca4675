package repository

import (
	"MarketPulse/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepo interface {
	CreateActivity(ctx context.Context, activity *model.UserActivity) error
	IncrCounter(ctx context.Context, userID uint64, activityType model.ActivityType) error
	GetCounters(ctx context.Context, userID uint64) (map[model.ActivityType]int64, error)
	CountByType(ctx context.Context, userID uint64) (map[model.ActivityType]int64, error)
	ReplaceCounters(ctx context.Context, userID uint64, counts map[model.ActivityType]int64) error
	CountActivities(ctx context.Context, userID uint64) (int64, error)
	ListActivities(ctx context.Context, userID uint64, beforeID uint64, limit int) ([]*model.UserActivity, error)
	GetActiveUserIDsSince(ctx context.Context, since time.Time) ([]uint64, error)
}

type activityRepoImpl struct {
	db *gorm.DB
}

func NewActivityRepo(db *gorm.DB) ActivityRepo {
	return &activityRepoImpl{db: db}
}

func (s *activityRepoImpl) CreateActivity(ctx context.Context, activity *model.UserActivity) error {
	return conn(ctx, s.db).Create(activity).Error
}

// IncrCounter 原子递增计数，不存在则创建
func (s *activityRepoImpl) IncrCounter(ctx context.Context, userID uint64, activityType model.ActivityType) error {
	counter := &model.UserActivityCounter{
		UserID:       userID,
		ActivityType: activityType,
		Count:        1,
		UpdatedAt:    time.Now(),
	}
	return conn(ctx, s.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "activity_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"count":      gorm.Expr("user_activity_counters.count + ?", 1),
			"updated_at": counter.UpdatedAt,
		}),
	}).Create(counter).Error
}

func (s *activityRepoImpl) GetCounters(ctx context.Context, userID uint64) (map[model.ActivityType]int64, error) {
	var counters []*model.UserActivityCounter
	err := conn(ctx, s.db).
		Where("user_id = ?", userID).
		Find(&counters).Error
	if err != nil {
		return nil, err
	}
	res := make(map[model.ActivityType]int64, len(counters))
	for _, c := range counters {
		res[c.ActivityType] = c.Count
	}
	return res, nil
}

// CountByType 从流水全量聚合，仅用于校准计数
func (s *activityRepoImpl) CountByType(ctx context.Context, userID uint64) (map[model.ActivityType]int64, error) {
	var rows []struct {
		ActivityType model.ActivityType
		Total        int64
	}
	err := conn(ctx, s.db).Model(&model.UserActivity{}).
		Select("activity_type, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("activity_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make(map[model.ActivityType]int64, len(rows))
	for _, r := range rows {
		res[r.ActivityType] = r.Total
	}
	return res, nil
}

func (s *activityRepoImpl) ReplaceCounters(ctx context.Context, userID uint64, counts map[model.ActivityType]int64) error {
	db := conn(ctx, s.db)
	if err := db.Where("user_id = ?", userID).Delete(&model.UserActivityCounter{}).Error; err != nil {
		return err
	}
	if len(counts) == 0 {
		return nil
	}
	now := time.Now()
	counters := make([]*model.UserActivityCounter, 0, len(counts))
	for t, c := range counts {
		counters = append(counters, &model.UserActivityCounter{
			UserID:       userID,
			ActivityType: t,
			Count:        c,
			UpdatedAt:    now,
		})
	}
	return db.Create(&counters).Error
}

func (s *activityRepoImpl) CountActivities(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := conn(ctx, s.db).Model(&model.UserActivity{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (s *activityRepoImpl) GetActiveUserIDsSince(ctx context.Context, since time.Time) ([]uint64, error) {
	var ids []uint64
	err := conn(ctx, s.db).Model(&model.UserActivity{}).
		Where("created_at >= ?", since).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListActivities 按 id 倒序翻页，beforeID 为 0 时从最新开始
func (s *activityRepoImpl) ListActivities(ctx context.Context, userID uint64, beforeID uint64, limit int) ([]*model.UserActivity, error) {
	list := make([]*model.UserActivity, 0, limit)
	db := conn(ctx, s.db).Where("user_id = ?", userID)
	if beforeID > 0 {
		db = db.Where("id < ?", beforeID)
	}
	err := db.Order("id DESC").Limit(limit).Find(&list).Error
	return list, err
}
