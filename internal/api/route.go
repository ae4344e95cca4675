package api

import (
	"MarketPulse/internal/api/config"
	"MarketPulse/internal/api/middleware"
	"MarketPulse/internal/pkg/consts"
	"MarketPulse/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, serverCfg config.ServerConfig, logCfg config.LogstashConfig) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware("/api/ping"))
	r.Use(middleware.CORSMiddleware(serverCfg.AllowedOrigins))
	logger.SetupGin(r, logCfg)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		gamificationGroup := apiGroup.Group("/gamification")
		gamificationGroup.Use(middleware.AuthMiddleware())
		{
			gamificationGroup.POST("/track", group.GamificationHandler.Track)
			gamificationGroup.GET("/stats", group.GamificationHandler.GetStats)
			gamificationGroup.GET("/achievements", group.GamificationHandler.GetAchievements)
			gamificationGroup.GET("/achievements/recent", group.GamificationHandler.GetRecentAchievements)
			gamificationGroup.GET("/challenges/today", group.GamificationHandler.GetTodayChallenges)
			gamificationGroup.GET("/activities", group.GamificationHandler.GetActivities)
		}

		leaderboardGroup := apiGroup.Group("/leaderboard")
		leaderboardGroup.Use(middleware.AuthOptionalMiddleware())
		{
			leaderboardGroup.GET("/:metric", group.LeaderboardHandler.GetLeaderboard)
		}

		// 需要登录 & 拥有 admin 角色
		adminGroup := apiGroup.Group("/admin")
		adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin))
		{
			adminGroup.POST("/achievements", group.CatalogHandler.CreateAchievement)
			adminGroup.PUT("/achievements/:id", group.CatalogHandler.UpdateAchievement)
			adminGroup.DELETE("/achievements/:id", group.CatalogHandler.DeactivateAchievement)

			adminGroup.GET("/challenges", group.CatalogHandler.ListChallenges)
			adminGroup.POST("/challenges", group.CatalogHandler.CreateChallenge)
			adminGroup.DELETE("/challenges/:id", group.CatalogHandler.DeactivateChallenge)

			adminGroup.POST("/users/:user_id/counters/rebuild", group.CatalogHandler.RebuildCounters)
		}
	}

	return r
}
