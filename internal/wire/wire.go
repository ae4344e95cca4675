package wire

import (
	"MarketPulse/internal/api"
	"MarketPulse/internal/api/config"
	"MarketPulse/internal/api/handler"
	"MarketPulse/internal/job"
	"MarketPulse/internal/pkg/consts"
	"MarketPulse/internal/pkg/cron"
	"MarketPulse/internal/pkg/kafka"
	"MarketPulse/internal/pkg/lock"
	"MarketPulse/internal/pkg/redis"
	"MarketPulse/internal/pkg/security"
	"MarketPulse/internal/repository"
	"MarketPulse/internal/service"
	log "log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	counterReconcileWindow = 24 * time.Hour
	lockRetryTimes         = 25
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router               *gin.Engine
	DB                   *gorm.DB
	CronMgr              *cron.Manager
	KafkaManager         *kafka.ConsumerManager
	NotificationProducer *kafka.NotificationProducer
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	security.Setup(cfg.JWT.Secret, cfg.JWT.Issuer)

	rules := service.RulesFromConfig(cfg.Gamification)
	now := service.Clock(time.Now)

	txManager := repository.NewTxManager(db)
	activityRepo := repository.NewActivityRepo(db)
	pointsRepo := repository.NewPointsRepo(db)
	achievementRepo := repository.NewAchievementRepo(db)
	challengeRepo := repository.NewChallengeRepo(db)

	locker := newUserLocker(cfg.Gamification)

	container := &ApplicationContainer{DB: db}

	var publisher service.NotificationPublisher
	if cfg.KafkaNotificationProducer.Enable {
		producer, err := kafka.NewNotificationProducer(cfg)
		if err != nil {
			return nil, err
		}
		container.NotificationProducer = producer
		publisher = producer
	}

	recorder := service.NewActivityRecorder(txManager, activityRepo, now)
	ledger := service.NewPointsLedger(txManager, pointsRepo, now)
	evaluator := service.NewAchievementEvaluator(achievementRepo, activityRepo, pointsRepo, now)
	tracker := service.NewChallengeTracker(txManager, challengeRepo, now)
	dispatcher := service.NewNotificationDispatcher(rules)

	gamificationService := service.NewGamificationService(
		txManager, locker, recorder, ledger, evaluator, tracker, dispatcher, publisher, rules,
	)
	statsService := service.NewStatsService(activityRepo, pointsRepo, achievementRepo, challengeRepo, rules, now)
	catalogService := service.NewCatalogService(txManager, locker, achievementRepo, challengeRepo, activityRepo, now)

	var leaderboardCache service.LeaderboardCache
	cacheTTL := time.Duration(cfg.Gamification.LeaderboardCacheMinutes) * time.Minute
	if redis.Enabled() && cacheTTL > 0 {
		leaderboardCache = service.NewRedisLeaderboardCache(cacheTTL)
	}
	leaderboardService := service.NewLeaderboardService(pointsRepo, leaderboardCache, cfg.Gamification.LeaderboardSize)

	handlers := &api.HandlersGroup{
		GamificationHandler: handler.NewGamificationHandler(gamificationService, statsService),
		LeaderboardHandler:  handler.NewLeaderboardHandler(leaderboardService),
		CatalogHandler:      handler.NewCatalogHandler(catalogService),
	}
	container.Router = api.SetupRouter(handlers, cfg.Server, cfg.Logstash)

	var refreshJob *job.LeaderboardRefreshJob
	if leaderboardCache != nil {
		refreshJob = job.NewLeaderboardRefreshJob(leaderboardService)
	}
	container.CronMgr = cron.NewCronManager(
		job.NewStreakExpireJob(ledger),
		refreshJob,
		job.NewCounterReconcileJob(catalogService, counterReconcileWindow, now),
		cacheTTL,
	)

	if cfg.KafkaActivityConsumer.Enable {
		kafkaMgr, err := kafka.NewConsumerManager(cfg, gamificationService)
		if err != nil {
			return nil, err
		}
		container.KafkaManager = kafkaMgr
	}

	return container, nil
}

// newUserLocker 进程内锁始终启用，多实例部署时叠加 Redis 锁
func newUserLocker(cfg config.GamificationConfig) lock.Locker {
	chain := lock.Chain{lock.NewKeyedMutex()}
	if cfg.DistributedLock {
		if !redis.Enabled() {
			log.Warn("distributed_lock is on but redis is not configured, falling back to in-process lock")
			return chain
		}
		ttl := time.Duration(cfg.LockTTLSeconds) * time.Second
		if ttl <= 0 {
			ttl = 10 * time.Second
		}
		chain = append(chain, lock.NewRedisLocker(consts.GamificationUserLock, ttl, lockRetryTimes))
	}
	return chain
}
