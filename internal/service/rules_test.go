package service

import (
	"MarketPulse/internal/api/config"
	"MarketPulse/internal/model"
	"testing"
	"time"
)

func TestRulesFromConfig(t *testing.T) {
	r := RulesFromConfig(config.GamificationConfig{
		DefaultPoints:             config.DefaultPointsConfig{LikeArticle: 8},
		StreakMilestones:          []int{5},
		AchievementRecencySeconds: 30,
	})

	if r.DefaultPoints[model.ActivityLikeArticle] != 8 || r.DefaultPoints[model.ActivityReadArticle] != 10 {
		t.Fatalf("DefaultPoints = %v", r.DefaultPoints)
	}
	if !r.IsMilestone(5) || r.IsMilestone(7) {
		t.Fatalf("milestones = %v", r.StreakMilestones)
	}
	if r.AchievementRecency != 30*time.Second || r.MaxChainDepth != 2 || r.StreakBonusMultiplier != 2 {
		t.Fatalf("rules = %+v", r)
	}
}

func TestPointsFor(t *testing.T) {
	r := DefaultRules()
	if got := r.PointsFor(model.ActivityPostComment, nil); got != 15 {
		t.Fatalf("PointsFor(post_comment) = %d, want 15", got)
	}
	if got := r.PointsFor(model.ActivityCompleteDailyChallenge, nil); got != 0 {
		t.Fatalf("PointsFor(complete_daily_challenge) = %d, want 0", got)
	}
	zero := int64(0)
	if got := r.PointsFor(model.ActivityReadArticle, &zero); got != 0 {
		t.Fatalf("PointsFor() with explicit zero = %d", got)
	}
}

func TestRulesFromConfigChainDepth(t *testing.T) {
	depth := func(n int) *int { return &n }
	tests := []struct {
		name string
		cfg  *int
		want int
	}{
		{"unset keeps default", nil, 2},
		{"zero disables challenge rewards", depth(0), 0},
		{"negative keeps default", depth(-1), 2},
		{"explicit value", depth(4), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := RulesFromConfig(config.GamificationConfig{MaxChainDepth: tt.cfg})
			if r.MaxChainDepth != tt.want {
				t.Fatalf("MaxChainDepth = %d, want %d", r.MaxChainDepth, tt.want)
			}
		})
	}
}
