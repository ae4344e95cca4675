package config

// Config 配置主体
type Config struct {
	Server                    ServerConfig              `mapstructure:"server"`
	DB                        DBConfig                  `mapstructure:"database"`
	Redis                     RedisConfig               `mapstructure:"redis"`
	Logstash                  LogstashConfig            `mapstructure:"logstash"`
	JWT                       JWTConfig                 `mapstructure:"jwt"`
	Kafka                     KafkaConfig               `mapstructure:"kafka"`
	KafkaActivityConsumer     KafkaActivityConsumer     `mapstructure:"kafka_activity_consumer"`
	KafkaNotificationProducer KafkaNotificationProducer `mapstructure:"kafka_notification_producer"`
	Gamification              GamificationConfig        `mapstructure:"gamification"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// AllowedOrigins 为空时允许任意来源
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	// SlowThresholdMs 超过该耗时的命令记为慢命令
	SlowThresholdMs int `mapstructure:"slow_threshold_ms"`
}

// LogstashConfig 远程日志
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaActivityConsumer struct {
	Enable  bool   `mapstructure:"enable"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type KafkaNotificationProducer struct {
	Enable bool   `mapstructure:"enable"`
	Topic  string `mapstructure:"topic"`
}

// GamificationConfig 积分、连续天数与排行榜规则
type GamificationConfig struct {
	DefaultPoints             DefaultPointsConfig `mapstructure:"default_points"`
	StreakMilestones          []int               `mapstructure:"streak_milestones"`
	StreakBonusMultiplier     int                 `mapstructure:"streak_bonus_multiplier"`
	AchievementRecencySeconds int                 `mapstructure:"achievement_recency_seconds"`
	MaxChainDepth             *int                `mapstructure:"max_chain_depth"`
	DistributedLock           bool                `mapstructure:"distributed_lock"`
	LockTTLSeconds            int                 `mapstructure:"lock_ttl_seconds"`
	LeaderboardSize           int                 `mapstructure:"leaderboard_size"`
	LeaderboardCacheMinutes   int                 `mapstructure:"leaderboard_cache_minutes"`
}

// DefaultPointsConfig 调用方未指定积分时各行为的默认积分
type DefaultPointsConfig struct {
	ReadArticle     int64 `mapstructure:"read_article"`
	PostComment     int64 `mapstructure:"post_comment"`
	LikeArticle     int64 `mapstructure:"like_article"`
	BookmarkArticle int64 `mapstructure:"bookmark_article"`
}
