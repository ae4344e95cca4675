package middleware

import (
	"MarketPulse/internal/pkg/response"
	"MarketPulse/internal/pkg/security"
	"slices"

	"github.com/gin-gonic/gin"
)

// CheckRoles 当前用户至少拥有一个指定角色，需放在 AuthMiddleware 之后
func CheckRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Get("claims")
		claims, _ := value.(*security.UserClaims)
		if claims == nil || !slices.ContainsFunc(requiredRoles, claims.HasRole) {
			response.Fail(c, response.Forbidden, "权限不足：无权访问该资源")
			c.Abort()
			return
		}
		c.Next()
	}
}
