package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/core/auth"
	resp "go-storefront/internal/transport/http/response"
)

// 上下文 key
const (
	KeyClaims = "claims"
	KeySID    = "sid"
	KeyRole   = "role"
)

// BearerToken 取 Authorization: Bearer xxx；没有返回 ""
func BearerToken(c *gin.Context) string {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
}

// AuthJWT 校验会话令牌，把 sid/role 放进上下文；角色限定交给各动作的 Roles
func AuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := BearerToken(c)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeySID, claims.SID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
