package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/core/auth"
	"go-storefront/internal/core/server"
	"go-storefront/internal/session"
	"go-storefront/internal/store/catalog"
	httpez "go-storefront/internal/transport/http/ez"
	mdw "go-storefront/internal/transport/http/middleware"
)

func NewAdminEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.logger())
	r.Use(d.middlewares()...)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 管理端 v1：分组只验令牌，角色由各动作的 Roles 限定
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(d.JWT))

	reg := &Registry{}
	reg.Register(adminModule{d})
	reg.MountAdmin(admin)
	return r
}

type adminModule struct{ d Deps }

var adminRoles = []string{auth.RoleAdmin}

type pageQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

type sidURI struct {
	ID string `uri:"id" binding:"required"`
}

func (m adminModule) MountAdmin(g *gin.RouterGroup) {
	d := m.d
	ez := httpez.New(g)

	// --- GET /admin/v1/sessions  内存中的会话 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/sessions",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  adminRoles,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			items := d.Sessions.List()
			return gin.H{"total": len(items), "items": items}, nil
		},
	})

	// --- GET /admin/v1/sessions/stored  仓储中的会话（分页）---
	httpez.RegisterAction(ez, httpez.Action[pageQ, gin.H]{
		Method: http.MethodGet,
		Path:   "/sessions/stored",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  adminRoles,
		Handler: func(c *gin.Context, in *pageQ) (gin.H, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			if in.Offset < 0 {
				in.Offset = 0
			}
			items, total, err := d.Sessions.ListStored(c.Request.Context(), in.Offset, in.Limit)
			if err != nil {
				return nil, httpez.Internal("list sessions failed", err)
			}
			return gin.H{"total": total, "items": items}, nil
		},
	})

	// --- DELETE /admin/v1/sessions/:id  踢掉会话（令牌随之失效）---
	httpez.RegisterAction(ez, httpez.Action[sidURI, gin.H]{
		Method: http.MethodDelete,
		Path:   "/sessions/:id",
		Binder: httpez.BindURI,
		Auth:   true,
		Roles:  adminRoles,
		Handler: func(c *gin.Context, in *sidURI) (gin.H, error) {
			err := d.Sessions.Delete(c.Request.Context(), in.ID)
			if errors.Is(err, session.ErrNotFound) {
				return nil, httpez.NotFound("session not found")
			}
			if err != nil {
				return nil, httpez.Internal("delete session failed", err)
			}
			return gin.H{"id": in.ID}, nil
		},
	})

	// --- POST /admin/v1/sessions/:id/catalog/reset  诊断：清空某会话的目录 ---
	httpez.RegisterAction(ez, httpez.Action[sidURI, catalog.State]{
		Method: http.MethodPost,
		Path:   "/sessions/:id/catalog/reset",
		Binder: httpez.BindURI,
		Auth:   true,
		Roles:  adminRoles,
		Handler: func(c *gin.Context, in *sidURI) (catalog.State, error) {
			s, err := d.Sessions.Get(c.Request.Context(), in.ID)
			if errors.Is(err, session.ErrNotFound) {
				return catalog.State{}, httpez.NotFound("session not found")
			}
			if err != nil {
				return catalog.State{}, httpez.Internal("load session failed", err)
			}
			s.Catalog.Reset()
			return s.Catalog.Snapshot(), nil
		},
	})

	// --- POST /admin/v1/catalog/invalidate  清 redis 目录缓存 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/catalog/invalidate",
		Binder: httpez.BindNone,
		Auth:   true,
		Roles:  adminRoles,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if d.Cache == nil {
				return nil, httpez.BadRequest("catalog cache disabled")
			}
			if err := d.Cache.Invalidate(c.Request.Context()); err != nil {
				return nil, httpez.Internal("invalidate cache failed", err)
			}
			return gin.H{"invalidated": true}, nil
		},
	})
}
