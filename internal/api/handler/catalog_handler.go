package handler

import (
	"MarketPulse/internal/api/dto"
	"MarketPulse/internal/pkg/response"
	"MarketPulse/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalogSvc service.CatalogService
}

func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogSvc: catalogSvc,
	}
}

func (s *CatalogHandler) CreateAchievement(c *gin.Context) {
	var req dto.AchievementReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	achievement, err := s.catalogSvc.CreateAchievement(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, achievement)
}

func (s *CatalogHandler) UpdateAchievement(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var req dto.AchievementReq
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err = s.catalogSvc.UpdateAchievement(c.Request.Context(), id, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CatalogHandler) DeactivateAchievement(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.catalogSvc.DeactivateAchievement(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CatalogHandler) ListChallenges(c *gin.Context) {
	list, err := s.catalogSvc.ListChallenges(c.Request.Context(), c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (s *CatalogHandler) CreateChallenge(c *gin.Context) {
	var req dto.ChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	challenge, err := s.catalogSvc.CreateChallenge(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, challenge)
}

func (s *CatalogHandler) DeactivateChallenge(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.catalogSvc.DeactivateChallenge(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *CatalogHandler) RebuildCounters(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || userID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	res, err := s.catalogSvc.RebuildCounters(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
