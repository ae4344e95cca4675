package api

import "MarketPulse/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	GamificationHandler *handler.GamificationHandler
	LeaderboardHandler  *handler.LeaderboardHandler
	CatalogHandler      *handler.CatalogHandler
}
