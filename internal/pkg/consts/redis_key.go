package consts

const (
	LeaderboardKey = "gamification:leaderboard:"
)

const (
	GamificationUserLock = "lock:gamification:user:"
)

const (
	TokenBlacklistKey = "token:blacklist:"
)
