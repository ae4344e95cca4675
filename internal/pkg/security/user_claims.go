package security

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const JWTExpirationTime = time.Hour * 24

var (
	jwtSecret = []byte("marketpulse-dev-secret")
	jwtIssuer = "MarketPulse"
)

// UserClaims Token 中携带的用户与角色
type UserClaims struct {
	UserID uint64   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// HasRole 判断是否拥有指定角色
func (c *UserClaims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Setup 使用配置中的密钥与签发者，空值保持默认
func Setup(secret, issuer string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if issuer != "" {
		jwtIssuer = issuer
	}
}
