package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-storefront/internal/core/logger"
)

// NewRouter 基础引擎：panic 恢复 + CORS；访问日志由 AccessLog 中间件负责
func NewRouter(l *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(ginzap.RecoveryWithZap(l, true))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	return r
}

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration, l *zap.Logger) *http.Server {
	srv := &http.Server{
		Addr:           addr,
		Handler:        handler,
		ReadTimeout:    rt,
		WriteTimeout:   wt,
		IdleTimeout:    it,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	if l != nil {
		srv.ErrorLog = logger.ToStdLogger(l, zapcore.WarnLevel)
	}
	return srv
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// HumanURL 启动日志里打印可点击地址
func HumanURL(host string, port int) string {
	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}
	return "http://" + host + ":" + fmt.Sprint(port)
}
