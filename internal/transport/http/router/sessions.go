package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/core/auth"
	"go-storefront/internal/session"
	httpez "go-storefront/internal/transport/http/ez"
	mdw "go-storefront/internal/transport/http/middleware"
)

type sessionModule struct{ d Deps }

func (sessionModule) Priority() int { return 10 }

type sessionOut struct {
	Token     string           `json:"token,omitempty"`
	SessionID string           `json:"sessionId,omitempty"`
	Screen    session.Screen   `json:"screen"`
	Session   *session.Summary `json:"session,omitempty"`
}

func (m sessionModule) MountAPI(g Groups) {
	d := m.d
	pub := httpez.New(g.Public)

	// POST /api/v1/sessions  新会话 + 令牌；尚未登录，所以落在登录页
	httpez.RegisterAction(pub, httpez.Action[struct{}, sessionOut]{
		Method: http.MethodPost,
		Path:   "/sessions",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (sessionOut, error) {
			s, err := d.Sessions.Create(c.Request.Context())
			if err != nil {
				return sessionOut{}, httpez.Internal("create session failed", err)
			}
			tok, err := d.JWT.Issue(s.ID, auth.RoleCustomer)
			if err != nil {
				return sessionOut{}, httpez.Internal("issue token failed", err)
			}
			return sessionOut{Token: tok, SessionID: s.ID, Screen: session.InitialScreen(false)}, nil
		},
	})

	// GET /api/v1/sessions/current  启动页：有已登录的会话令牌 -> home，否则 login
	httpez.RegisterAction(pub, httpez.Action[struct{}, sessionOut]{
		Method: http.MethodGet,
		Path:   "/sessions/current",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (sessionOut, error) {
			s := m.resolve(c)
			if s == nil {
				return sessionOut{Screen: session.InitialScreen(false)}, nil
			}
			sum := s.Summary()
			return sessionOut{
				SessionID: s.ID,
				Screen:    session.InitialScreen(sum.Authenticated),
				Session:   &sum,
			}, nil
		},
	})
}

// resolve 可选令牌：无效或找不到会话都当作没有令牌
func (m sessionModule) resolve(c *gin.Context) *session.Session {
	tok := mdw.BearerToken(c)
	if tok == "" {
		return nil
	}
	claims, err := m.d.JWT.Parse(tok)
	if err != nil {
		return nil
	}
	s, err := m.d.Sessions.Get(c.Request.Context(), claims.SID)
	if err != nil {
		return nil
	}
	return s
}
