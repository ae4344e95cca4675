package model

import "time"

// UserActivity 用户行为流水，只增不改
type UserActivity struct {
	ID           uint64       `gorm:"primaryKey" json:"id"`
	UserID       uint64       `gorm:"not null;index:idx_user_activity_user_type,priority:1" json:"userId"`
	ActivityType ActivityType `gorm:"type:varchar(32);not null;index:idx_user_activity_user_type,priority:2" json:"activityType"`
	TargetID     string       `gorm:"type:varchar(64);not null;default:''" json:"targetId"`
	PointsEarned int64        `gorm:"not null;default:0" json:"pointsEarned"`
	CreatedAt    time.Time    `gorm:"not null;index" json:"createdAt"`
}

func (UserActivity) TableName() string {
	return "user_activity"
}

// UserActivityCounter 按行为类型维护的累计计数，与流水在同一事务内递增
type UserActivityCounter struct {
	UserID       uint64       `gorm:"primaryKey" json:"userId"`
	ActivityType ActivityType `gorm:"primaryKey;type:varchar(32)" json:"activityType"`
	Count        int64        `gorm:"not null;default:0" json:"count"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func (UserActivityCounter) TableName() string {
	return "user_activity_counters"
}
