package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"go-storefront/internal/core/server"
	mdw "go-storefront/internal/transport/http/middleware"
)

// bucketIdle 限速桶空闲多久后回收
const bucketIdle = 10 * time.Minute

func rateOf(rps float64) rate.Limit { return rate.Limit(rps) }

func NewAPIEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.logger())
	r.Use(d.middlewares()...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	lim := d.limits()
	api := r.Group("/api/v1")

	// 会话分组：令牌里的 sid 决定操作哪一套 store
	sess := api.Group("")
	sess.Use(
		mdw.AuthJWT(d.JWT),
		// 单个会话最多占全局配额的四分之一
		mdw.RateLimitPerKey(rateOf(lim.RPS/4), lim.Burst/4, bucketIdle, mdw.BySessionOrIP),
	)

	reg := &Registry{}
	reg.Register(
		sessionModule{d},
		catalogModule{d},
		cartModule{d},
		authModule{d},
		checkoutModule{d},
	)
	reg.MountAPI(Groups{Public: api, Session: sess})
	return r
}
