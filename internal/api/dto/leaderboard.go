package dto

// LeaderboardEntryDTO 排行榜条目
type LeaderboardEntryDTO struct {
	Rank       int    `json:"rank"`
	UserID     uint64 `json:"userId"`
	Points     int64  `json:"points"`
	Level      int    `json:"level"`
	StreakDays int    `json:"streakDays"`
}

// LeaderboardDTO Me 仅在登录时返回
type LeaderboardDTO struct {
	Metric string                 `json:"metric"`
	List   []*LeaderboardEntryDTO `json:"list"`
	Me     *LeaderboardEntryDTO   `json:"me,omitempty"`
}
