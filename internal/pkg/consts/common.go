package consts

const (
	LeaderboardMetricPoints = "points"
	LeaderboardMetricLevel  = "level"
	LeaderboardMetricStreak = "streak"
)

const (
	RoleAdmin = "ADMIN"
)

const (
	NotificationAchievement     = "achievement"
	NotificationLevelUp         = "level_up"
	NotificationStreakMilestone = "streak_milestone"
)
