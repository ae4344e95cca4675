package service

import (
	"MarketPulse/internal/model"
	"MarketPulse/internal/pkg/util"
	"MarketPulse/internal/repository"
	"context"
	"errors"
	"time"
)

// PointsLedger 积分账户读写，等级只由积分推导
type PointsLedger interface {
	ApplyPoints(ctx context.Context, userID uint64, pointsEarned int64) (*model.UserPoints, error)
	GetAccountForUpdate(ctx context.Context, userID uint64) (*model.UserPoints, error)
	ExpireStreaks(ctx context.Context) (int64, error)
}

type pointsLedgerImpl struct {
	txManager  repository.TxManager
	pointsRepo repository.PointsRepo
	now        Clock
}

func NewPointsLedger(txManager repository.TxManager, pointsRepo repository.PointsRepo, now Clock) PointsLedger {
	return &pointsLedgerImpl{
		txManager:  txManager,
		pointsRepo: pointsRepo,
		now:        now,
	}
}

// ApplyPoints 在行锁下累加积分并推进连续天数，返回更新后的快照
func (s *pointsLedgerImpl) ApplyPoints(ctx context.Context, userID uint64, pointsEarned int64) (*model.UserPoints, error) {
	if userID == 0 {
		return nil, ErrUserIDMissing
	}
	if pointsEarned < 0 {
		return nil, ErrPointsInvalid
	}

	now := s.now().UTC()
	var account *model.UserPoints
	err := s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.pointsRepo.EnsurePoints(ctx, userID, now); err != nil {
			return err
		}
		current, err := s.pointsRepo.GetByUserIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if current == nil {
			return errors.New("积分账户创建后读取为空")
		}

		current.Points += pointsEarned
		current.Level = model.LevelForPoints(current.Points)
		current.StreakDays = NextStreak(current.StreakDays, current.LastActivity, now)
		if now.After(current.LastActivity) {
			current.LastActivity = now
		}
		if err = s.pointsRepo.UpdatePoints(ctx, current); err != nil {
			return err
		}
		account = current
		return nil
	})
	if err != nil {
		return nil, persistErr("apply_points", err)
	}
	return account, nil
}

// GetAccountForUpdate 须在事务内调用，行锁持有到事务结束
// 多实例未开启分布式锁时，用它保证前后快照不被其他实例穿插
func (s *pointsLedgerImpl) GetAccountForUpdate(ctx context.Context, userID uint64) (*model.UserPoints, error) {
	account, err := s.pointsRepo.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, persistErr("load_points", err)
	}
	return account, nil
}

// ExpireStreaks 昨天和今天都没有活跃的账户连续天数清零
// 下次活跃时按中断规则从 1 重新开始
func (s *pointsLedgerImpl) ExpireStreaks(ctx context.Context) (int64, error) {
	yesterday := util.StartOfDay(s.now()).AddDate(0, 0, -1)
	n, err := s.pointsRepo.ResetExpiredStreaks(ctx, yesterday)
	if err != nil {
		return 0, persistErr("expire_streaks", err)
	}
	return n, nil
}

// NextStreak 按 UTC 自然日推进连续天数
// 同一天保持不变，隔一天加一，中断超过一天重置为 1
func NextStreak(current int, lastActivity, now time.Time) int {
	diff := util.DayDiff(lastActivity, now)
	switch {
	case diff == 1:
		return current + 1
	case diff > 1:
		return 1
	case current < 1:
		return 1
	default:
		return current
	}
}
