package dto

// AchievementReq 创建或更新成就
type AchievementReq struct {
	Name           string `json:"name" binding:"required,max=64"`
	Description    string `json:"description" binding:"max=255"`
	Icon           string `json:"icon" binding:"max=32"`
	Category       string `json:"category" binding:"max=32"`
	ActionRequired string `json:"action_required" binding:"required"`
	Threshold      int64  `json:"threshold" binding:"min=0"`
	PointsRequired int64  `json:"points_required" binding:"min=0"`
	IsActive       *bool  `json:"is_active"`
}

// ChallengeReq 创建每日挑战，Date 为空表示今天
type ChallengeReq struct {
	Date          string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Title         string `json:"title" binding:"required,max=64"`
	Description   string `json:"description" binding:"max=255"`
	ChallengeType string `json:"challenge_type" binding:"required"`
	TargetCount   int64  `json:"target_count" binding:"required,min=1"`
	PointsReward  int64  `json:"points_reward" binding:"min=0"`
}

// ChallengeDTO 后台查看的挑战
type ChallengeDTO struct {
	ID            uint64 `json:"id"`
	Date          string `json:"date"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	ChallengeType string `json:"challengeType"`
	TargetCount   int64  `json:"targetCount"`
	PointsReward  int64  `json:"pointsReward"`
	IsActive      bool   `json:"isActive"`
}

// CounterRebuildDTO 计数校准结果
type CounterRebuildDTO struct {
	UserID  uint64           `json:"userId"`
	Before  map[string]int64 `json:"before"`
	After   map[string]int64 `json:"after"`
	Drifted bool             `json:"drifted"`
}
