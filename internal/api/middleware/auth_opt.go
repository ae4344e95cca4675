package middleware

import (
	log "log/slog"

	"github.com/gin-gonic/gin"
)

// AuthOptionalMiddleware 可选鉴权：排行榜等公开接口在登录时附带本人排名
func AuthOptionalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c)
		if err != nil {
			if err != errTokenMissing {
				log.DebugContext(c.Request.Context(), "optional auth ignored", "err", err)
			}
			c.Set("user_id", uint64(0))
			c.Next()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}
