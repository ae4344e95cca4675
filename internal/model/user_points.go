package model

import "time"

// PointsPerLevel 每升一级所需积分
const PointsPerLevel = 100

// UserPoints 用户积分账户
type UserPoints struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	UserID       uint64    `gorm:"not null;uniqueIndex:uk_user_points_user" json:"userId"`
	Points       int64     `gorm:"not null;default:0;index" json:"points"`
	Level        int       `gorm:"not null;default:1" json:"level"`
	StreakDays   int       `gorm:"not null;default:0" json:"streakDays"`
	LastActivity time.Time `gorm:"not null" json:"lastActivity"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (UserPoints) TableName() string {
	return "user_points"
}

// LevelForPoints 等级只由积分推导
func LevelForPoints(points int64) int {
	if points < 0 {
		points = 0
	}
	return int(points/PointsPerLevel) + 1
}
