package model

import "time"

// Achievement 成就目录
type Achievement struct {
	ID             uint64         `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"type:varchar(64);not null" json:"name"`
	Description    string         `gorm:"type:varchar(255);not null;default:''" json:"description"`
	Icon           string         `gorm:"type:varchar(32);not null;default:''" json:"icon"`
	Category       string         `gorm:"type:varchar(32);not null;default:''" json:"category"`
	ActionRequired ActionRequired `gorm:"type:varchar(32);not null" json:"actionRequired"`
	Threshold      int64          `gorm:"not null;default:0" json:"threshold"`
	PointsRequired int64          `gorm:"not null;default:0" json:"pointsRequired"`
	IsActive       bool           `gorm:"not null;index" json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement 用户已获得的成就，永久保留
type UserAchievement struct {
	ID            uint64      `gorm:"primaryKey" json:"id"`
	UserID        uint64      `gorm:"not null;uniqueIndex:uk_user_achievement,priority:1" json:"userId"`
	AchievementID uint64      `gorm:"not null;uniqueIndex:uk_user_achievement,priority:2" json:"achievementId"`
	EarnedAt      time.Time   `gorm:"not null;index" json:"earnedAt"`
	Achievement   Achievement `gorm:"foreignKey:AchievementID" json:"achievement"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

// Target 达成所需的数值，total_points 使用 PointsRequired
func (a *Achievement) Target() int64 {
	if a.ActionRequired == ActionTotalPoints {
		return a.PointsRequired
	}
	return a.Threshold
}

// Progress 根据行为计数和积分账户计算当前进度，account 可为 nil
func (a *Achievement) Progress(counts map[ActivityType]int64, account *UserPoints) int64 {
	if t, ok := a.ActionRequired.ActivityType(); ok {
		return counts[t]
	}
	if account == nil {
		return 0
	}
	switch a.ActionRequired {
	case ActionStreakDays:
		return int64(account.StreakDays)
	case ActionTotalPoints:
		return account.Points
	}
	return 0
}

// Met 条件未知的成就永远不会达成
func (a *Achievement) Met(counts map[ActivityType]int64, account *UserPoints) bool {
	if !a.ActionRequired.Valid() {
		return false
	}
	return a.Progress(counts, account) >= a.Target()
}
