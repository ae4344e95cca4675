package dto

// TrackActivityReq 上报用户行为
// PointsEarned 为空时按行为类型取默认积分
type TrackActivityReq struct {
	ActivityType string `json:"activity_type" binding:"required,max=32"`
	TargetID     string `json:"target_id" binding:"max=64"`
	PointsEarned *int64 `json:"points_earned" binding:"omitempty,min=0"`
}

// TrackResultDTO 行为上报结果，失败不影响主流程
type TrackResultDTO struct {
	Success      bool             `json:"success"`
	Notification *NotificationDTO `json:"notification,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// NotificationDTO 单次上报最多带一类通知
type NotificationDTO struct {
	Achievement     *AchievementDTO     `json:"achievement,omitempty"`
	LevelUp         *LevelUpDTO         `json:"levelUp,omitempty"`
	StreakMilestone *StreakMilestoneDTO `json:"streakMilestone,omitempty"`
}

// Kind 通知类别，空通知返回空串
func (n *NotificationDTO) Kind() string {
	switch {
	case n == nil:
		return ""
	case n.Achievement != nil:
		return "achievement"
	case n.LevelUp != nil:
		return "level_up"
	case n.StreakMilestone != nil:
		return "streak_milestone"
	}
	return ""
}

type LevelUpDTO struct {
	NewLevel     int   `json:"newLevel"`
	PointsEarned int64 `json:"pointsEarned"`
}

type StreakMilestoneDTO struct {
	Days         int   `json:"days"`
	PointsEarned int64 `json:"pointsEarned"`
}

// AchievementDTO 成就展示信息
type AchievementDTO struct {
	ID             uint64 `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Icon           string `json:"icon"`
	Category       string `json:"category"`
	ActionRequired string `json:"actionRequired"`
	Threshold      int64  `json:"threshold"`
	PointsRequired int64  `json:"pointsRequired"`
}

// AchievementProgressDTO 成就墙，含获得状态与进度
type AchievementProgressDTO struct {
	AchievementDTO
	Earned   bool    `json:"earned"`
	EarnedAt *string `json:"earnedAt"`
	Progress int64   `json:"progress"`
	Target   int64   `json:"target"`
}

// EarnedAchievementDTO 近期获得的成就
type EarnedAchievementDTO struct {
	Achievement *AchievementDTO `json:"achievement"`
	EarnedAt    string          `json:"earnedAt"`
}

// UserStatsDTO 用户积分概览
type UserStatsDTO struct {
	UserID              uint64           `json:"userId"`
	Points              int64            `json:"points"`
	Level               int              `json:"level"`
	StreakDays          int              `json:"streakDays"`
	LastActivity        *string          `json:"lastActivity"`
	PointsInLevel       int64            `json:"pointsInLevel"`
	PointsToNextLevel   int64            `json:"pointsToNextLevel"`
	ActivityCounts      map[string]int64 `json:"activityCounts"`
	TotalActivities     int64            `json:"totalActivities"`
	AchievementsEarned  int64            `json:"achievementsEarned"`
	ChallengesCompleted int64            `json:"challengesCompleted"`
	Rank                int64            `json:"rank"`
}

// ChallengeProgressDTO 今日挑战与当前进度
type ChallengeProgressDTO struct {
	ID              uint64  `json:"id"`
	Date            string  `json:"date"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	ChallengeType   string  `json:"challengeType"`
	TargetCount     int64   `json:"targetCount"`
	PointsReward    int64   `json:"pointsReward"`
	CurrentProgress int64   `json:"currentProgress"`
	IsCompleted     bool    `json:"isCompleted"`
	CompletedAt     *string `json:"completedAt"`
}

// ActivityDTO 行为流水
type ActivityDTO struct {
	ID           uint64 `json:"id"`
	ActivityType string `json:"activityType"`
	TargetID     string `json:"targetId"`
	PointsEarned int64  `json:"pointsEarned"`
	CreatedAt    string `json:"createdAt"`
}

// ActivityPageDTO 行为流水分页，NextCursor 为空表示没有更多
type ActivityPageDTO struct {
	List       []*ActivityDTO `json:"list"`
	NextCursor string         `json:"nextCursor"`
}
