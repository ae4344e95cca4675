package handler

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/model"
	"MarketPulse/internal/pkg/response"
	"MarketPulse/internal/service"
	"errors"
	log "log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GamificationHandler struct {
	gamificationSvc service.GamificationService
	statsSvc        service.StatsService
}

func NewGamificationHandler(gamificationSvc service.GamificationService, statsSvc service.StatsService) *GamificationHandler {
	return &GamificationHandler{
		gamificationSvc: gamificationSvc,
		statsSvc:        statsSvc,
	}
}

// Track 上报行为，存储失败时仍返回 200，由 success 字段表示结果
func (s *GamificationHandler) Track(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.TrackActivityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	activityType, ok := model.ParseActivityType(req.ActivityType)
	if !ok {
		response.Error(c, service.ErrActivityTypeInvalid)
		return
	}

	res, err := s.gamificationSvc.TrackActivity(c.Request.Context(), userID, activityType, req.TargetID, req.PointsEarned)
	if err != nil {
		if service.IsValidationError(err) {
			response.Error(c, err)
			return
		}
		// 存储细节只进日志
		msg := service.UnExpectedError.Error()
		if errors.Is(err, service.ErrGamificationBusy) {
			msg = err.Error()
		}
		log.WarnContext(c.Request.Context(), "track activity unsuccessful", "activity_type", activityType, "err", err)
		response.Success(c, &dto.TrackResultDTO{Success: false, Error: msg})
		return
	}
	response.Success(c, &dto.TrackResultDTO{Success: true, Notification: res.Notification})
}

func (s *GamificationHandler) GetStats(c *gin.Context) {
	userID := c.GetUint64("user_id")
	stats, err := s.statsSvc.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *GamificationHandler) GetAchievements(c *gin.Context) {
	userID := c.GetUint64("user_id")
	list, err := s.statsSvc.GetAchievementBoard(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *GamificationHandler) GetRecentAchievements(c *gin.Context) {
	userID := c.GetUint64("user_id")
	list, err := s.statsSvc.GetRecentAchievements(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *GamificationHandler) GetTodayChallenges(c *gin.Context) {
	userID := c.GetUint64("user_id")
	list, err := s.statsSvc.GetTodayChallenges(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *GamificationHandler) GetActivities(c *gin.Context) {
	userID := c.GetUint64("user_id")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, err := s.statsSvc.GetActivities(c.Request.Context(), userID, c.Query("cursor"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, page)
}
