package redis

import (
	"MarketPulse/internal/api/config"
	"MarketPulse/internal/pkg/logger"
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"
)

var Rdb *redis.Client

// InitRedis 初始化 Redis 客户端连接
func InitRedis(cfg config.RedisConfig) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,

		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
	hook := logger.NewRedisLogger()
	if cfg.SlowThresholdMs > 0 {
		hook.SlowThreshold = time.Duration(cfg.SlowThresholdMs) * time.Millisecond
	}
	rdb.AddHook(hook)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return err
	}

	Rdb = rdb
	return nil
}

// Enabled 是否已初始化
func Enabled() bool {
	return Rdb != nil
}
