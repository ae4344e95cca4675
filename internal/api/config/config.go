package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从 ./configs/config.yaml 加载配置并填充到 Cfg
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	return load(v)
}

// LoadConfigFrom 从指定文件加载配置
func LoadConfigFrom(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) error {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("redis.slow_threshold_ms", 100)
	v.SetDefault("jwt.issuer", "MarketPulse")
	v.SetDefault("kafka_activity_consumer.topic", "gamification.activity")
	v.SetDefault("kafka_activity_consumer.group_id", "gamification-activity")
	v.SetDefault("kafka_notification_producer.topic", "gamification.notification")

	v.SetDefault("gamification.default_points.read_article", 10)
	v.SetDefault("gamification.default_points.post_comment", 15)
	v.SetDefault("gamification.default_points.like_article", 5)
	v.SetDefault("gamification.default_points.bookmark_article", 5)
	v.SetDefault("gamification.streak_milestones", []int{3, 7, 14, 30, 50, 100})
	v.SetDefault("gamification.streak_bonus_multiplier", 2)
	v.SetDefault("gamification.achievement_recency_seconds", 5)
	v.SetDefault("gamification.max_chain_depth", 2)
	v.SetDefault("gamification.lock_ttl_seconds", 10)
	v.SetDefault("gamification.leaderboard_size", 50)
	v.SetDefault("gamification.leaderboard_cache_minutes", 5)
}
