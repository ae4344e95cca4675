package service

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/model"
	"MarketPulse/internal/pkg/lock"
	"MarketPulse/internal/pkg/util"
	"MarketPulse/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/jinzhu/copier"
)

// CatalogService 成就与每日挑战目录维护，以及计数校准
type CatalogService interface {
	CreateAchievement(ctx context.Context, req *dto.AchievementReq) (*dto.AchievementDTO, error)
	UpdateAchievement(ctx context.Context, id uint64, req *dto.AchievementReq) error
	DeactivateAchievement(ctx context.Context, id uint64) error

	ListChallenges(ctx context.Context, date string) ([]*dto.ChallengeDTO, error)
	CreateChallenge(ctx context.Context, req *dto.ChallengeReq) (*dto.ChallengeDTO, error)
	DeactivateChallenge(ctx context.Context, id uint64) error

	RebuildCounters(ctx context.Context, userID uint64) (*dto.CounterRebuildDTO, error)
	ReconcileCounters(ctx context.Context, since time.Time) (checked int, drifted int, err error)
}

type catalogServiceImpl struct {
	txManager       repository.TxManager
	locker          lock.Locker
	achievementRepo repository.AchievementRepo
	challengeRepo   repository.ChallengeRepo
	activityRepo    repository.ActivityRepo
	now             Clock
}

func NewCatalogService(
	txManager repository.TxManager,
	locker lock.Locker,
	achievementRepo repository.AchievementRepo,
	challengeRepo repository.ChallengeRepo,
	activityRepo repository.ActivityRepo,
	now Clock,
) CatalogService {
	return &catalogServiceImpl{
		txManager:       txManager,
		locker:          locker,
		achievementRepo: achievementRepo,
		challengeRepo:   challengeRepo,
		activityRepo:    activityRepo,
		now:             now,
	}
}

func (s *catalogServiceImpl) CreateAchievement(ctx context.Context, req *dto.AchievementReq) (*dto.AchievementDTO, error) {
	achievement, err := achievementFromReq(req)
	if err != nil {
		return nil, err
	}
	if err = s.achievementRepo.CreateAchievement(ctx, achievement); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "achievement created", "achievement_id", achievement.ID, "name", achievement.Name)
	return ToAchievementDTO(achievement), nil
}

func (s *catalogServiceImpl) UpdateAchievement(ctx context.Context, id uint64, req *dto.AchievementReq) error {
	existing, err := s.achievementRepo.GetAchievementByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrAchievementNotFound
	}
	achievement, err := achievementFromReq(req)
	if err != nil {
		return err
	}
	achievement.ID = id
	if req.IsActive == nil {
		achievement.IsActive = existing.IsActive
	}
	return s.achievementRepo.UpdateAchievement(ctx, achievement)
}

// DeactivateAchievement 停用后不再发放，已获得的记录保留
func (s *catalogServiceImpl) DeactivateAchievement(ctx context.Context, id uint64) error {
	existing, err := s.achievementRepo.GetAchievementByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrAchievementNotFound
	}
	return s.achievementRepo.SetAchievementActive(ctx, id, false)
}

func achievementFromReq(req *dto.AchievementReq) (*model.Achievement, error) {
	action := model.ActionRequired(req.ActionRequired)
	if !action.Valid() {
		return nil, ErrActionRequiredInvalid
	}
	if req.Threshold < 0 || req.PointsRequired < 0 {
		return nil, ErrParamInvalid
	}
	achievement := &model.Achievement{}
	_ = copier.Copy(achievement, req)
	achievement.ActionRequired = action
	achievement.IsActive = req.IsActive == nil || *req.IsActive
	return achievement, nil
}

// ListChallenges date 为空时为今天
func (s *catalogServiceImpl) ListChallenges(ctx context.Context, date string) ([]*dto.ChallengeDTO, error) {
	date, err := s.normalizeDate(date)
	if err != nil {
		return nil, err
	}
	list, err := s.challengeRepo.GetChallengesByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ChallengeDTO, 0, len(list))
	for _, c := range list {
		res = append(res, toChallengeDTO(c))
	}
	return res, nil
}

// CreateChallenge 挑战完成本身不能作为挑战类型
func (s *catalogServiceImpl) CreateChallenge(ctx context.Context, req *dto.ChallengeReq) (*dto.ChallengeDTO, error) {
	challengeType := model.ActivityType(req.ChallengeType)
	if !challengeType.Challengeable() {
		return nil, ErrChallengeTypeInvalid
	}
	if req.TargetCount < 1 || req.PointsReward < 0 {
		return nil, ErrParamInvalid
	}
	date, err := s.normalizeDate(req.Date)
	if err != nil {
		return nil, err
	}

	challenge := &model.DailyChallenge{
		Date:          date,
		Title:         req.Title,
		Description:   req.Description,
		ChallengeType: challengeType,
		TargetCount:   req.TargetCount,
		PointsReward:  req.PointsReward,
		IsActive:      true,
	}
	if err = s.challengeRepo.CreateChallenge(ctx, challenge); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "daily challenge created", "challenge_id", challenge.ID, "date", date, "type", challengeType)
	return toChallengeDTO(challenge), nil
}

func (s *catalogServiceImpl) DeactivateChallenge(ctx context.Context, id uint64) error {
	existing, err := s.challengeRepo.GetChallengeByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrChallengeNotFound
	}
	return s.challengeRepo.SetChallengeActive(ctx, id, false)
}

func (s *catalogServiceImpl) normalizeDate(date string) (string, error) {
	if date == "" {
		return util.Today(s.now()), nil
	}
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return "", ErrChallengeDateInvalid
	}
	return t.Format(model.DateLayout), nil
}

// RebuildCounters 用流水重新聚合计数，与行为上报共用用户锁
func (s *catalogServiceImpl) RebuildCounters(ctx context.Context, userID uint64) (*dto.CounterRebuildDTO, error) {
	if userID == 0 {
		return nil, ErrUserIDMissing
	}

	unlock, err := s.locker.Lock(ctx, strconv.FormatUint(userID, 10))
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, ErrGamificationBusy
		}
		return nil, err
	}
	defer unlock()

	res := &dto.CounterRebuildDTO{UserID: userID}
	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		before, err := s.activityRepo.GetCounters(ctx, userID)
		if err != nil {
			return err
		}
		after, err := s.activityRepo.CountByType(ctx, userID)
		if err != nil {
			return err
		}
		res.Before = toCountMap(before)
		res.After = toCountMap(after)
		res.Drifted = countersDiffer(before, after)
		if !res.Drifted {
			return nil
		}
		return s.activityRepo.ReplaceCounters(ctx, userID, after)
	})
	if err != nil {
		return nil, persistErr("rebuild_counters", err)
	}
	if res.Drifted {
		log.WarnContext(ctx, "activity counters drifted, rebuilt from history",
			"user_id", userID, "before", res.Before, "after", res.After)
	}
	return res, nil
}

// ReconcileCounters 校准 since 之后有过行为的用户，单个用户失败不影响其他用户
func (s *catalogServiceImpl) ReconcileCounters(ctx context.Context, since time.Time) (int, int, error) {
	userIDs, err := s.activityRepo.GetActiveUserIDsSince(ctx, since)
	if err != nil {
		return 0, 0, persistErr("load_active_users", err)
	}
	checked, drifted := 0, 0
	for _, id := range userIDs {
		if ctx.Err() != nil {
			return checked, drifted, ctx.Err()
		}
		res, err := s.RebuildCounters(ctx, id)
		if err != nil {
			log.ErrorContext(ctx, "rebuild counters failed", "user_id", id, "err", err)
			continue
		}
		checked++
		if res.Drifted {
			drifted++
		}
	}
	return checked, drifted, nil
}

func toCountMap(m map[model.ActivityType]int64) map[string]int64 {
	res := make(map[string]int64, len(m))
	for k, v := range m {
		res[string(k)] = v
	}
	return res
}

func countersDiffer(a, b map[model.ActivityType]int64) bool {
	for k, v := range a {
		if b[k] != v {
			return true
		}
	}
	for k, v := range b {
		if a[k] != v {
			return true
		}
	}
	return false
}

func toChallengeDTO(c *model.DailyChallenge) *dto.ChallengeDTO {
	return &dto.ChallengeDTO{
		ID:            c.ID,
		Date:          c.Date,
		Title:         c.Title,
		Description:   c.Description,
		ChallengeType: string(c.ChallengeType),
		TargetCount:   c.TargetCount,
		PointsReward:  c.PointsReward,
		IsActive:      c.IsActive,
	}
}
