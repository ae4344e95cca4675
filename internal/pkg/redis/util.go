package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockRetryInterval = 200 * time.Millisecond

// unlockScript 只删除自己持有的锁
var unlockScript = redis.NewScript(`
if redis.call('get', KEYS[1]) == ARGV[1] then
	return redis.call('del', KEYS[1])
end
return 0`)

// Exists key 是否存在
func Exists(ctx context.Context, key string) (bool, error) {
	n, err := Rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TryLock 尝试加锁，retryTimes 为 -1 时一直重试直到 ctx 结束
func TryLock(ctx context.Context, key, value string, expiration time.Duration, retryTimes int) (bool, error) {
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()
	for attempt := 0; retryTimes < 0 || attempt <= retryTimes; attempt++ {
		ok, err := Rdb.SetNX(ctx, key, value, expiration).Result()
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-ticker.C:
		}
	}
	return false, nil
}

// UnLock 释放锁，value 不匹配时说明锁已过期被他人持有，返回 false
func UnLock(ctx context.Context, key, value string) (bool, error) {
	n, err := unlockScript.Run(ctx, Rdb, []string{key}, value).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReplaceList 原子地覆盖列表并设置过期时间，空列表等同于删除
func ReplaceList(ctx context.Context, key string, values []string, expiration time.Duration) error {
	_, err := Rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values)
			pipe.Expire(ctx, key, expiration)
		}
		return nil
	})
	return err
}

// GetList 获取列表，key 不存在时返回空
func GetList(ctx context.Context, key string) ([]string, error) {
	return Rdb.LRange(ctx, key, 0, -1).Result()
}
