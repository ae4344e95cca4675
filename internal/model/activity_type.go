package model

// ActivityType 用户行为类型
type ActivityType string

const (
	ActivityReadArticle            ActivityType = "read_article"
	ActivityPostComment            ActivityType = "post_comment"
	ActivityLikeArticle            ActivityType = "like_article"
	ActivityBookmarkArticle        ActivityType = "bookmark_article"
	ActivityCompleteDailyChallenge ActivityType = "complete_daily_challenge"
)

// ActivityTypes 所有可识别的行为类型
var ActivityTypes = []ActivityType{
	ActivityReadArticle,
	ActivityPostComment,
	ActivityLikeArticle,
	ActivityBookmarkArticle,
	ActivityCompleteDailyChallenge,
}

func (t ActivityType) Valid() bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Challengeable 是否可以作为每日挑战的计数类型
// 挑战完成本身永远不计入挑战进度，否则会自我触发
func (t ActivityType) Challengeable() bool {
	return t.Valid() && t != ActivityCompleteDailyChallenge
}

// ParseActivityType 解析外部传入的行为类型
func ParseActivityType(s string) (ActivityType, bool) {
	t := ActivityType(s)
	return t, t.Valid()
}

// ActionRequired 成就的达成条件
type ActionRequired string

const (
	ActionReadArticles       ActionRequired = "read_articles"
	ActionPostComments       ActionRequired = "post_comments"
	ActionLikeArticles       ActionRequired = "like_articles"
	ActionBookmarkArticles   ActionRequired = "bookmark_articles"
	ActionCompleteChallenges ActionRequired = "complete_challenges"
	ActionStreakDays         ActionRequired = "streak_days"
	ActionTotalPoints        ActionRequired = "total_points"
)

var actionActivity = map[ActionRequired]ActivityType{
	ActionReadArticles:       ActivityReadArticle,
	ActionPostComments:       ActivityPostComment,
	ActionLikeArticles:       ActivityLikeArticle,
	ActionBookmarkArticles:   ActivityBookmarkArticle,
	ActionCompleteChallenges: ActivityCompleteDailyChallenge,
}

// ActivityType 返回计数型条件对应的行为类型
func (a ActionRequired) ActivityType() (ActivityType, bool) {
	t, ok := actionActivity[a]
	return t, ok
}

func (a ActionRequired) Valid() bool {
	if _, ok := actionActivity[a]; ok {
		return true
	}
	return a == ActionStreakDays || a == ActionTotalPoints
}
