package model

import "time"

// DateLayout 每日挑战按 UTC 自然日切分
const DateLayout = time.DateOnly

// DailyChallenge 每日挑战目录
type DailyChallenge struct {
	ID            uint64       `gorm:"primaryKey" json:"id"`
	Date          string       `gorm:"column:date;type:char(10);not null;index:idx_daily_challenge_date" json:"date"`
	Title         string       `gorm:"type:varchar(64);not null;default:''" json:"title"`
	Description   string       `gorm:"type:varchar(255);not null;default:''" json:"description"`
	ChallengeType ActivityType `gorm:"type:varchar(32);not null" json:"challengeType"`
	TargetCount   int64        `gorm:"not null;default:1" json:"targetCount"`
	PointsReward  int64        `gorm:"not null;default:0" json:"pointsReward"`
	IsActive      bool         `gorm:"not null" json:"isActive"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

func (DailyChallenge) TableName() string {
	return "daily_challenges"
}

// UserDailyProgress 用户当日挑战进度
type UserDailyProgress struct {
	ID              uint64     `gorm:"primaryKey" json:"id"`
	UserID          uint64     `gorm:"not null;uniqueIndex:uk_user_challenge_date,priority:1" json:"userId"`
	ChallengeID     uint64     `gorm:"not null;uniqueIndex:uk_user_challenge_date,priority:2" json:"challengeId"`
	Date            string     `gorm:"column:date;type:char(10);not null;uniqueIndex:uk_user_challenge_date,priority:3" json:"date"`
	CurrentProgress int64      `gorm:"not null;default:0" json:"currentProgress"`
	IsCompleted     bool       `gorm:"not null" json:"isCompleted"`
	CompletedAt     *time.Time `json:"completedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (UserDailyProgress) TableName() string {
	return "user_daily_progress"
}
