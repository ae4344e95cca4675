package middleware

import (
	"MarketPulse/internal/pkg/consts"
	"MarketPulse/internal/pkg/logger"
	"MarketPulse/internal/pkg/redis"
	"MarketPulse/internal/pkg/response"
	"MarketPulse/internal/pkg/security"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	errTokenMissing = errors.New("Token 缺失或格式错误")
	errTokenInvalid = errors.New("Token 无效或已过期")
)

// AuthMiddleware 负责验证 JWT 并将用户身份信息注入 Context
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c)
		switch {
		case errors.Is(err, errTokenMissing), errors.Is(err, errTokenInvalid):
			response.Fail(c, response.Unauthorized, err.Error())
			c.Abort()
			return
		case err != nil:
			response.Fail(c, response.InternalServerError, "未知错误")
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// parseBearer 校验 Authorization 头中的 Bearer Token
func parseBearer(c *gin.Context) (*security.UserClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errTokenMissing
	}

	claims, err := security.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return nil, errTokenInvalid
	}

	// 登出的 Token 由用户服务写入黑名单，按 jti 查询
	if redis.Enabled() && claims.ID != "" {
		revoked, err := redis.Exists(c.Request.Context(), consts.TokenBlacklistKey+claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, errTokenInvalid
		}
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims *security.UserClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("claims", claims)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}
