package service

import (
	"MarketPulse/internal/api/config"
	"MarketPulse/internal/model"
	"time"
)

// Clock 便于测试替换当前时间
type Clock func() time.Time

// Rules 积分与通知规则
type Rules struct {
	DefaultPoints         map[model.ActivityType]int64
	StreakMilestones      []int
	StreakBonusMultiplier int
	AchievementRecency    time.Duration
	MaxChainDepth         int
}

func DefaultRules() Rules {
	return Rules{
		DefaultPoints: map[model.ActivityType]int64{
			model.ActivityReadArticle:     10,
			model.ActivityPostComment:     15,
			model.ActivityLikeArticle:     5,
			model.ActivityBookmarkArticle: 5,
		},
		StreakMilestones:      []int{3, 7, 14, 30, 50, 100},
		StreakBonusMultiplier: 2,
		AchievementRecency:    5 * time.Second,
		MaxChainDepth:         2,
	}
}

// RulesFromConfig 配置缺省的字段沿用默认值
func RulesFromConfig(cfg config.GamificationConfig) Rules {
	r := DefaultRules()
	dp := cfg.DefaultPoints
	if dp.ReadArticle > 0 {
		r.DefaultPoints[model.ActivityReadArticle] = dp.ReadArticle
	}
	if dp.PostComment > 0 {
		r.DefaultPoints[model.ActivityPostComment] = dp.PostComment
	}
	if dp.LikeArticle > 0 {
		r.DefaultPoints[model.ActivityLikeArticle] = dp.LikeArticle
	}
	if dp.BookmarkArticle > 0 {
		r.DefaultPoints[model.ActivityBookmarkArticle] = dp.BookmarkArticle
	}
	if len(cfg.StreakMilestones) > 0 {
		r.StreakMilestones = cfg.StreakMilestones
	}
	if cfg.StreakBonusMultiplier > 0 {
		r.StreakBonusMultiplier = cfg.StreakBonusMultiplier
	}
	if cfg.AchievementRecencySeconds > 0 {
		r.AchievementRecency = time.Duration(cfg.AchievementRecencySeconds) * time.Second
	}
	// 显式配置为 0 时不产生挑战完成事件
	if cfg.MaxChainDepth != nil && *cfg.MaxChainDepth >= 0 {
		r.MaxChainDepth = *cfg.MaxChainDepth
	}
	return r
}

// PointsFor 调用方未给出积分时使用默认积分
func (r Rules) PointsFor(activityType model.ActivityType, pointsEarned *int64) int64 {
	if pointsEarned != nil {
		return *pointsEarned
	}
	return r.DefaultPoints[activityType]
}

// IsMilestone 连续天数是否命中里程碑
func (r Rules) IsMilestone(days int) bool {
	for _, m := range r.StreakMilestones {
		if m == days {
			return true
		}
	}
	return false
}
