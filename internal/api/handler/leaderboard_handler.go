package handler

import (
	"MarketPulse/internal/pkg/response"
	"MarketPulse/internal/service"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboardSvc service.LeaderboardService
}

func NewLeaderboardHandler(leaderboardSvc service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardSvc: leaderboardSvc,
	}
}

// GetLeaderboard 未登录时不返回自己的排名
func (s *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	userID := c.GetUint64("user_id")
	board, err := s.leaderboardSvc.GetLeaderboard(c.Request.Context(), c.Param("metric"), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, board)
}
