package service

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/model"
	"MarketPulse/internal/pkg/consts"
	"MarketPulse/internal/pkg/redis"
	"MarketPulse/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

var LeaderboardMetrics = []string{
	consts.LeaderboardMetricPoints,
	consts.LeaderboardMetricLevel,
	consts.LeaderboardMetricStreak,
}

// LeaderboardCache 排行榜缓存，未命中返回 ok=false
type LeaderboardCache interface {
	Get(ctx context.Context, metric string) (list []*dto.LeaderboardEntryDTO, ok bool, err error)
	Set(ctx context.Context, metric string, list []*dto.LeaderboardEntryDTO) error
}

type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, metric string, userID uint64) (*dto.LeaderboardDTO, error)
	RefreshLeaderboards(ctx context.Context) error
}

type leaderboardServiceImpl struct {
	pointsRepo repository.PointsRepo
	cache      LeaderboardCache
	size       int
}

// NewLeaderboardService cache 为 nil 时每次直接查库
func NewLeaderboardService(pointsRepo repository.PointsRepo, cache LeaderboardCache, size int) LeaderboardService {
	if size <= 0 {
		size = 50
	}
	return &leaderboardServiceImpl{
		pointsRepo: pointsRepo,
		cache:      cache,
		size:       size,
	}
}

func (s *leaderboardServiceImpl) GetLeaderboard(ctx context.Context, metric string, userID uint64) (*dto.LeaderboardDTO, error) {
	if !validMetric(metric) {
		return nil, ErrLeaderboardMetricInvalid
	}

	list, err := s.cachedList(ctx, metric)
	if err != nil {
		return nil, err
	}
	res := &dto.LeaderboardDTO{Metric: metric, List: list}

	if userID != 0 {
		me, err := s.entryFor(ctx, metric, userID)
		if err != nil {
			return nil, err
		}
		res.Me = me
	}
	return res, nil
}

// RefreshLeaderboards 重新计算所有榜单并写入缓存
func (s *leaderboardServiceImpl) RefreshLeaderboards(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	for _, metric := range LeaderboardMetrics {
		list, err := s.loadList(ctx, metric)
		if err != nil {
			return err
		}
		if err = s.cache.Set(ctx, metric, list); err != nil {
			return err
		}
	}
	return nil
}

func (s *leaderboardServiceImpl) cachedList(ctx context.Context, metric string) ([]*dto.LeaderboardEntryDTO, error) {
	if s.cache != nil {
		list, ok, err := s.cache.Get(ctx, metric)
		if err != nil {
			log.WarnContext(ctx, "leaderboard cache read failed", "metric", metric, "err", err)
		} else if ok {
			return list, nil
		}
	}

	list, err := s.loadList(ctx, metric)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err = s.cache.Set(ctx, metric, list); err != nil {
			log.WarnContext(ctx, "leaderboard cache write failed", "metric", metric, "err", err)
		}
	}
	return list, nil
}

func (s *leaderboardServiceImpl) loadList(ctx context.Context, metric string) ([]*dto.LeaderboardEntryDTO, error) {
	var (
		accounts []*model.UserPoints
		err      error
	)
	switch metric {
	case consts.LeaderboardMetricLevel:
		accounts, err = s.pointsRepo.GetTopByLevel(ctx, s.size)
	case consts.LeaderboardMetricStreak:
		accounts, err = s.pointsRepo.GetTopByStreak(ctx, s.size)
	default:
		accounts, err = s.pointsRepo.GetTopByPoints(ctx, s.size)
	}
	if err != nil {
		return nil, persistErr("load_leaderboard", err)
	}

	list := make([]*dto.LeaderboardEntryDTO, 0, len(accounts))
	for i, a := range accounts {
		list = append(list, toLeaderboardEntry(a, i+1))
	}
	return list, nil
}

// entryFor 排名 = 排在前面的账户数 + 1，没有账户时返回 nil
func (s *leaderboardServiceImpl) entryFor(ctx context.Context, metric string, userID uint64) (*dto.LeaderboardEntryDTO, error) {
	account, err := s.pointsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, persistErr("load_points", err)
	}
	if account == nil {
		return nil, nil
	}

	var above int64
	switch metric {
	case consts.LeaderboardMetricLevel:
		above, err = s.pointsRepo.CountLevelAbove(ctx, account.Level, account.Points)
	case consts.LeaderboardMetricStreak:
		above, err = s.pointsRepo.CountStreakAbove(ctx, account.StreakDays, account.Points)
	default:
		above, err = s.pointsRepo.CountPointsAbove(ctx, account.Points)
	}
	if err != nil {
		return nil, persistErr("load_rank", err)
	}
	return toLeaderboardEntry(account, int(above)+1), nil
}

func toLeaderboardEntry(a *model.UserPoints, rank int) *dto.LeaderboardEntryDTO {
	return &dto.LeaderboardEntryDTO{
		Rank:       rank,
		UserID:     a.UserID,
		Points:     a.Points,
		Level:      a.Level,
		StreakDays: a.StreakDays,
	}
}

func validMetric(metric string) bool {
	for _, m := range LeaderboardMetrics {
		if m == metric {
			return true
		}
	}
	return false
}

type redisLeaderboardCache struct {
	expiration time.Duration
}

// NewRedisLeaderboardCache 每个榜单存为一个 JSON 字符串列表
func NewRedisLeaderboardCache(expiration time.Duration) LeaderboardCache {
	return &redisLeaderboardCache{expiration: expiration}
}

func (s *redisLeaderboardCache) Get(ctx context.Context, metric string) ([]*dto.LeaderboardEntryDTO, bool, error) {
	values, err := redis.GetList(ctx, consts.LeaderboardKey+metric)
	if err != nil {
		return nil, false, err
	}
	if len(values) == 0 {
		return nil, false, nil
	}
	list := make([]*dto.LeaderboardEntryDTO, 0, len(values))
	for _, v := range values {
		var entry dto.LeaderboardEntryDTO
		if err = json.Unmarshal([]byte(v), &entry); err != nil {
			return nil, false, err
		}
		list = append(list, &entry)
	}
	return list, true, nil
}

func (s *redisLeaderboardCache) Set(ctx context.Context, metric string, list []*dto.LeaderboardEntryDTO) error {
	values := make([]string, 0, len(list))
	for _, entry := range list {
		b, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		values = append(values, string(b))
	}
	return redis.ReplaceList(ctx, consts.LeaderboardKey+metric, values, s.expiration)
}
