package service

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/model"
	"MarketPulse/internal/pkg/lock"
	"MarketPulse/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
)

// NotificationPublisher 通知外发，失败只记录日志
type NotificationPublisher interface {
	PublishNotification(ctx context.Context, userID uint64, notification *dto.NotificationDTO) error
}

// TrackResult 一次上报在整条链路上产生的变化
type TrackResult struct {
	Activity     *model.UserActivity
	Before       *model.UserPoints
	After        *model.UserPoints
	Achievements []*model.Achievement
	Challenges   []*model.DailyChallenge
	Notification *dto.NotificationDTO
}

type GamificationService interface {
	TrackActivity(ctx context.Context, userID uint64, activityType model.ActivityType, targetID string, pointsEarned *int64) (*TrackResult, error)
}

type gamificationServiceImpl struct {
	txManager  repository.TxManager
	locker     lock.Locker
	recorder   ActivityRecorder
	ledger     PointsLedger
	evaluator  AchievementEvaluator
	tracker    ChallengeTracker
	dispatcher NotificationDispatcher
	publisher  NotificationPublisher
	rules      Rules
}

func NewGamificationService(
	txManager repository.TxManager,
	locker lock.Locker,
	recorder ActivityRecorder,
	ledger PointsLedger,
	evaluator AchievementEvaluator,
	tracker ChallengeTracker,
	dispatcher NotificationDispatcher,
	publisher NotificationPublisher,
	rules Rules,
) GamificationService {
	return &gamificationServiceImpl{
		txManager:  txManager,
		locker:     locker,
		recorder:   recorder,
		ledger:     ledger,
		evaluator:  evaluator,
		tracker:    tracker,
		dispatcher: dispatcher,
		publisher:  publisher,
		rules:      rules,
	}
}

// activityEvent 链路队列中的一个待处理行为，depth 为 0 表示用户直接触发
type activityEvent struct {
	activityType model.ActivityType
	targetID     string
	points       int64
	depth        int
}

// TrackActivity 同一用户的链路串行执行，整条链路在一个事务内提交
func (s *gamificationServiceImpl) TrackActivity(ctx context.Context, userID uint64, activityType model.ActivityType, targetID string, pointsEarned *int64) (*TrackResult, error) {
	points := s.rules.PointsFor(activityType, pointsEarned)
	if err := validateActivity(userID, activityType, points); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, strconv.FormatUint(userID, 10))
	if err != nil {
		if errors.Is(err, lock.ErrLockNotAcquired) {
			return nil, ErrGamificationBusy
		}
		return nil, persistErr("acquire_lock", err)
	}
	defer unlock()

	res := &TrackResult{}
	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		before, err := s.ledger.GetAccountForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		res.Before = before

		queue := []activityEvent{{activityType: activityType, targetID: targetID, points: points}}
		for len(queue) > 0 {
			ev := queue[0]
			queue = queue[1:]

			completed, err := s.process(ctx, userID, ev, res)
			if err != nil {
				return err
			}
			for _, c := range completed {
				if ev.depth+1 > s.rules.MaxChainDepth {
					log.WarnContext(ctx, "challenge reward dropped, chain depth exceeded",
						"user_id", userID, "challenge_id", c.ID, "depth", ev.depth+1)
					continue
				}
				queue = append(queue, activityEvent{
					activityType: model.ActivityCompleteDailyChallenge,
					targetID:     strconv.FormatUint(c.ID, 10),
					points:       c.PointsReward,
					depth:        ev.depth + 1,
				})
			}
		}
		return nil
	})
	if err != nil {
		log.ErrorContext(ctx, "track activity failed",
			"user_id", userID, "activity_type", activityType, "err", err)
		return nil, persistErr("track_activity", err)
	}

	res.Notification = s.dispatcher.Dispatch(res.Before, res.After, res.Achievements)
	if res.After != nil && res.Before != nil && res.After.Level > res.Before.Level {
		log.InfoContext(ctx, "user leveled up", "user_id", userID, "level", res.After.Level)
	}
	s.publish(ctx, userID, res.Notification)
	return res, nil
}

// process 单个行为依次经过 记录 -> 积分 -> 成就 -> 挑战
func (s *gamificationServiceImpl) process(ctx context.Context, userID uint64, ev activityEvent, res *TrackResult) ([]*model.DailyChallenge, error) {
	activity, err := s.recorder.RecordActivity(ctx, userID, ev.activityType, ev.targetID, ev.points)
	if err != nil {
		return nil, err
	}
	if ev.depth == 0 {
		res.Activity = activity
	}

	account, err := s.ledger.ApplyPoints(ctx, userID, ev.points)
	if err != nil {
		return nil, err
	}
	res.After = account

	earned, err := s.evaluator.Evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	res.Achievements = append(res.Achievements, earned...)

	completed, err := s.tracker.AdvanceProgress(ctx, userID, ev.activityType)
	if err != nil {
		return nil, err
	}
	res.Challenges = append(res.Challenges, completed...)
	return completed, nil
}

func (s *gamificationServiceImpl) publish(ctx context.Context, userID uint64, notification *dto.NotificationDTO) {
	if s.publisher == nil || notification == nil {
		return
	}
	if err := s.publisher.PublishNotification(ctx, userID, notification); err != nil {
		log.WarnContext(ctx, "publish notification failed", "user_id", userID, "err", err)
	}
}
