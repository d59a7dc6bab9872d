package router

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-storefront/internal/backend"
	"go-storefront/internal/checkout"
	"go-storefront/internal/core/auth"
	"go-storefront/internal/core/config"
	"go-storefront/internal/session"
	"go-storefront/internal/store/lifecycle"
	httpez "go-storefront/internal/transport/http/ez"
	mdw "go-storefront/internal/transport/http/middleware"
	resp "go-storefront/internal/transport/http/response"
)

// CatalogCache 管理端用来强制目录回源；未启用 redis 时为 nil
type CatalogCache interface {
	Invalidate(ctx context.Context) error
}

type Deps struct {
	Logger   *zap.Logger
	Sessions *session.Manager
	Checkout *checkout.Service
	JWT      *auth.JWTer
	Cache    CatalogCache
	Limits   config.Limits
}

func (d Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// limits 未配置的项取默认值
func (d Deps) limits() config.Limits {
	lim := d.Limits
	if lim.RPS <= 0 {
		lim.RPS = 200
	}
	if lim.Burst <= 0 {
		lim.Burst = 400
	}
	if lim.MaxInFlight <= 0 {
		lim.MaxInFlight = 300
	}
	if lim.MaxBodyBytes <= 0 {
		lim.MaxBodyBytes = 1 << 20
	}
	if lim.RequestTimeoutS <= 0 {
		lim.RequestTimeoutS = 20
	}
	return lim
}

// middlewares 两个引擎共用的中间件链
func (d Deps) middlewares() []gin.HandlerFunc {
	lim := d.limits()
	l := d.logger()
	return []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.RateLimit(rateOf(lim.RPS), lim.Burst),
		mdw.ConcurrencyLimit(lim.MaxInFlight),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(time.Duration(lim.RequestTimeoutS) * time.Second),
		mdw.Recovery(l),
		mdw.Metrics(),
		mdw.AccessLog(l),
	}
}

// current 当前请求的会话；令牌有效但会话已被删除时按未登录处理
func (d Deps) current(c *gin.Context) (*session.Session, error) {
	sid := c.GetString(mdw.KeySID)
	if sid == "" {
		return nil, httpez.Unauthorized("unauthorized")
	}
	s, err := d.Sessions.Get(c.Request.Context(), sid)
	if errors.Is(err, session.ErrNotFound) {
		return nil, httpez.Unauthorized("session expired")
	}
	if err != nil {
		return nil, httpez.Internal("load session failed", err)
	}
	return s, nil
}

// persist 持久化失败只记日志（Manager 内已记录），内存中的状态仍然有效
func (d Deps) persist(c *gin.Context, s *session.Session) {
	_ = d.Sessions.Persist(c.Request.Context(), s)
}

// upstreamErr 后端 4xx 保留语义，其余当作网关错误
func upstreamErr(msg string, err error, data any) error {
	if errors.Is(err, lifecycle.ErrSuperseded) {
		return &httpez.AErr{Code: resp.CodeConflict, Msg: "superseded by a newer request", Err: err, Data: data}
	}
	var ae *backend.APIError
	if errors.As(err, &ae) {
		switch {
		case ae.Status == http.StatusUnauthorized:
			return &httpez.AErr{Code: resp.CodeUnauthorized, Msg: msg, Err: err, Data: data}
		case ae.Status == http.StatusConflict:
			return &httpez.AErr{Code: resp.CodeConflict, Msg: msg, Err: err, Data: data}
		case ae.Status >= 400 && ae.Status < 500:
			return &httpez.AErr{Code: resp.CodeBadRequest, Msg: msg, Err: err, Data: data}
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &httpez.AErr{Code: resp.CodeGatewayTimeout, Msg: msg, Err: err, Data: data}
	}
	return httpez.Upstream(msg, err, data)
}
