package service

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/model"

	"github.com/jinzhu/copier"
)

// NotificationDispatcher 比较行为前后的状态，选出唯一的一类通知
type NotificationDispatcher interface {
	Dispatch(before, after *model.UserPoints, earned []*model.Achievement) *dto.NotificationDTO
}

type notificationDispatcherImpl struct {
	rules Rules
}

func NewNotificationDispatcher(rules Rules) NotificationDispatcher {
	return &notificationDispatcherImpl{rules: rules}
}

// Dispatch 优先级固定为 成就 > 升级 > 连续天数里程碑，没有可通知的内容时返回 nil
// before 为 nil 视为新账户：0 积分、1 级、0 天
func (s *notificationDispatcherImpl) Dispatch(before, after *model.UserPoints, earned []*model.Achievement) *dto.NotificationDTO {
	if len(earned) > 0 {
		// 同一次行为达成多个成就时展示最后达成的一个
		return &dto.NotificationDTO{Achievement: ToAchievementDTO(earned[len(earned)-1])}
	}
	if after == nil {
		return nil
	}

	var (
		prevPoints int64
		prevLevel  = 1
		prevStreak int
	)
	if before != nil {
		prevPoints = before.Points
		prevLevel = before.Level
		prevStreak = before.StreakDays
	}

	if after.Level > prevLevel {
		return &dto.NotificationDTO{LevelUp: &dto.LevelUpDTO{
			NewLevel:     after.Level,
			PointsEarned: after.Points - prevPoints,
		}}
	}

	if after.StreakDays > prevStreak && s.rules.IsMilestone(after.StreakDays) {
		return &dto.NotificationDTO{StreakMilestone: &dto.StreakMilestoneDTO{
			Days:         after.StreakDays,
			PointsEarned: int64(after.StreakDays * s.rules.StreakBonusMultiplier),
		}}
	}
	return nil
}

// ToAchievementDTO 成就展示字段
func ToAchievementDTO(a *model.Achievement) *dto.AchievementDTO {
	if a == nil {
		return nil
	}
	item := &dto.AchievementDTO{}
	_ = copier.Copy(item, a)
	item.ActionRequired = string(a.ActionRequired)
	return item
}
