package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "go-storefront/internal/transport/http/response"
)

// Recovery 兜底 panic，返回统一信封而不是 gin 默认的 500 空响应
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("rid", c.GetString(KeyRequestID)),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, "internal error"))
			}
		}()
		c.Next()
	}
}
