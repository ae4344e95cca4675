package service

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/model"
	"MarketPulse/internal/pkg/util"
	"MarketPulse/internal/repository"
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultActivityPageSize = 20
	maxActivityPageSize     = 100
	recentAchievementLimit  = 5
)

// StatsService 用户侧只读查询：概览、成就墙、今日挑战、行为流水
type StatsService interface {
	GetUserStats(ctx context.Context, userID uint64) (*dto.UserStatsDTO, error)
	GetAchievementBoard(ctx context.Context, userID uint64) ([]*dto.AchievementProgressDTO, error)
	GetRecentAchievements(ctx context.Context, userID uint64) ([]*dto.EarnedAchievementDTO, error)
	GetTodayChallenges(ctx context.Context, userID uint64) ([]*dto.ChallengeProgressDTO, error)
	GetActivities(ctx context.Context, userID uint64, cursor string, limit int) (*dto.ActivityPageDTO, error)
}

type statsServiceImpl struct {
	activityRepo    repository.ActivityRepo
	pointsRepo      repository.PointsRepo
	achievementRepo repository.AchievementRepo
	challengeRepo   repository.ChallengeRepo
	rules           Rules
	now             Clock
}

func NewStatsService(
	activityRepo repository.ActivityRepo,
	pointsRepo repository.PointsRepo,
	achievementRepo repository.AchievementRepo,
	challengeRepo repository.ChallengeRepo,
	rules Rules,
	now Clock,
) StatsService {
	return &statsServiceImpl{
		activityRepo:    activityRepo,
		pointsRepo:      pointsRepo,
		achievementRepo: achievementRepo,
		challengeRepo:   challengeRepo,
		rules:           rules,
		now:             now,
	}
}

func (s *statsServiceImpl) GetUserStats(ctx context.Context, userID uint64) (*dto.UserStatsDTO, error) {
	if userID == 0 {
		return nil, ErrUserIDMissing
	}

	var (
		account      *model.UserPoints
		counts       map[model.ActivityType]int64
		total        int64
		achievements int64
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		account, err = s.pointsRepo.GetByUserID(gCtx, userID)
		return
	})
	g.Go(func() (err error) {
		counts, err = s.activityRepo.GetCounters(gCtx, userID)
		return
	})
	g.Go(func() (err error) {
		total, err = s.activityRepo.CountActivities(gCtx, userID)
		return
	})
	g.Go(func() (err error) {
		achievements, err = s.achievementRepo.CountUserAchievements(gCtx, userID)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, persistErr("load_stats", err)
	}

	stats := &dto.UserStatsDTO{
		UserID:             userID,
		Level:              1,
		ActivityCounts:     make(map[string]int64, len(counts)),
		TotalActivities:    total,
		AchievementsEarned: achievements,
	}
	for t, c := range counts {
		stats.ActivityCounts[string(t)] = c
	}
	stats.ChallengesCompleted = counts[model.ActivityCompleteDailyChallenge]

	if account != nil {
		stats.Points = account.Points
		stats.Level = account.Level
		stats.StreakDays = account.StreakDays
		last := account.LastActivity.UTC().Format(time.RFC3339)
		stats.LastActivity = &last

		above, err := s.pointsRepo.CountPointsAbove(ctx, account.Points)
		if err != nil {
			return nil, persistErr("load_rank", err)
		}
		stats.Rank = above + 1
	}
	stats.PointsInLevel = stats.Points % model.PointsPerLevel
	stats.PointsToNextLevel = model.PointsPerLevel - stats.PointsInLevel
	return stats, nil
}

// GetAchievementBoard 所有启用的成就，已获得的标记时间，进度封顶为目标值
func (s *statsServiceImpl) GetAchievementBoard(ctx context.Context, userID uint64) ([]*dto.AchievementProgressDTO, error) {
	if userID == 0 {
		return nil, ErrUserIDMissing
	}

	catalog, err := s.achievementRepo.GetActiveAchievements(ctx)
	if err != nil {
		return nil, persistErr("load_achievements", err)
	}
	earnedList, err := s.achievementRepo.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, persistErr("load_earned_achievements", err)
	}
	counts, err := s.activityRepo.GetCounters(ctx, userID)
	if err != nil {
		return nil, persistErr("load_counters", err)
	}
	account, err := s.pointsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, persistErr("load_points", err)
	}

	earnedAt := make(map[uint64]time.Time, len(earnedList))
	for _, ua := range earnedList {
		earnedAt[ua.AchievementID] = ua.EarnedAt
	}

	res := make([]*dto.AchievementProgressDTO, 0, len(catalog))
	for _, a := range catalog {
		target := a.Target()
		item := &dto.AchievementProgressDTO{
			AchievementDTO: *ToAchievementDTO(a),
			Progress:       min(a.Progress(counts, account), target),
			Target:         target,
		}
		if t, ok := earnedAt[a.ID]; ok {
			ts := t.UTC().Format(time.RFC3339)
			item.Earned = true
			item.EarnedAt = &ts
			item.Progress = target
		}
		res = append(res, item)
	}
	return res, nil
}

// GetRecentAchievements 最近一个时间窗内获得的成就
func (s *statsServiceImpl) GetRecentAchievements(ctx context.Context, userID uint64) ([]*dto.EarnedAchievementDTO, error) {
	if userID == 0 {
		return nil, ErrUserIDMissing
	}
	since := recentSince(s.now().UTC(), s.rules.AchievementRecency)
	list, err := s.achievementRepo.GetRecentUserAchievements(ctx, userID, since, recentAchievementLimit)
	if err != nil {
		return nil, persistErr("load_recent_achievements", err)
	}
	res := make([]*dto.EarnedAchievementDTO, 0, len(list))
	for _, ua := range list {
		res = append(res, &dto.EarnedAchievementDTO{
			Achievement: ToAchievementDTO(&ua.Achievement),
			EarnedAt:    ua.EarnedAt.UTC().Format(time.RFC3339),
		})
	}
	return res, nil
}

func (s *statsServiceImpl) GetTodayChallenges(ctx context.Context, userID uint64) ([]*dto.ChallengeProgressDTO, error) {
	if userID == 0 {
		return nil, ErrUserIDMissing
	}
	today := util.Today(s.now())

	challenges, err := s.challengeRepo.GetActiveChallengesByDate(ctx, today)
	if err != nil {
		return nil, persistErr("load_challenges", err)
	}
	progressList, err := s.challengeRepo.GetUserProgressByDate(ctx, userID, today)
	if err != nil {
		return nil, persistErr("load_challenge_progress", err)
	}
	progressMap := make(map[uint64]*model.UserDailyProgress, len(progressList))
	for _, p := range progressList {
		progressMap[p.ChallengeID] = p
	}

	res := make([]*dto.ChallengeProgressDTO, 0, len(challenges))
	for _, c := range challenges {
		item := &dto.ChallengeProgressDTO{
			ID:            c.ID,
			Date:          c.Date,
			Title:         c.Title,
			Description:   c.Description,
			ChallengeType: string(c.ChallengeType),
			TargetCount:   c.TargetCount,
			PointsReward:  c.PointsReward,
		}
		if p, ok := progressMap[c.ID]; ok {
			item.CurrentProgress = p.CurrentProgress
			item.IsCompleted = p.IsCompleted
			if p.CompletedAt != nil {
				ts := p.CompletedAt.UTC().Format(time.RFC3339)
				item.CompletedAt = &ts
			}
		}
		res = append(res, item)
	}
	return res, nil
}

// GetActivities 行为流水按 id 倒序，cursor 为上一页返回的 nextCursor
func (s *statsServiceImpl) GetActivities(ctx context.Context, userID uint64, cursor string, limit int) (*dto.ActivityPageDTO, error) {
	if userID == 0 {
		return nil, ErrUserIDMissing
	}
	if limit <= 0 {
		limit = defaultActivityPageSize
	}
	if limit > maxActivityPageSize {
		limit = maxActivityPageSize
	}

	c, err := util.DecodeCursor(cursor)
	if err != nil {
		return nil, ErrCursorInvalid
	}
	var beforeID uint64
	if c != nil {
		beforeID = c.LastID
	}

	// 多取一条判断是否还有下一页
	list, err := s.activityRepo.ListActivities(ctx, userID, beforeID, limit+1)
	if err != nil {
		return nil, persistErr("load_activities", err)
	}

	page := &dto.ActivityPageDTO{List: make([]*dto.ActivityDTO, 0, limit)}
	hasMore := len(list) > limit
	if hasMore {
		list = list[:limit]
	}
	for _, a := range list {
		page.List = append(page.List, &dto.ActivityDTO{
			ID:           a.ID,
			ActivityType: string(a.ActivityType),
			TargetID:     a.TargetID,
			PointsEarned: a.PointsEarned,
			CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	if hasMore && len(list) > 0 {
		page.NextCursor = util.EncodeCursor(&util.ActivityCursor{LastID: list[len(list)-1].ID})
	}
	return page, nil
}

// recentSince 近期成就查询的起点
func recentSince(now time.Time, window time.Duration) time.Time {
	return now.Add(-window)
}
