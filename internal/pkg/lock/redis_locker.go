package lock

import (
	"MarketPulse/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// RedisLocker 基于 SETNX 的跨实例锁
type RedisLocker struct {
	prefix     string
	ttl        time.Duration
	retryTimes int
}

func NewRedisLocker(prefix string, ttl time.Duration, retryTimes int) *RedisLocker {
	return &RedisLocker{
		prefix:     prefix,
		ttl:        ttl,
		retryTimes: retryTimes,
	}
}

func (s *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := s.prefix + key
	value := uuid.NewString()
	ok, err := redis.TryLock(ctx, lockKey, value, s.ttl, s.retryTimes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLockNotAcquired
	}
	return func() {
		released, err := redis.UnLock(context.WithoutCancel(ctx), lockKey, value)
		if err != nil || !released {
			log.WarnContext(ctx, "redis lock release failed", "key", lockKey, "released", released, "err", err)
		}
	}, nil
}
