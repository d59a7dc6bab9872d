package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/domain"
	"go-storefront/internal/store/auth"
	"go-storefront/internal/store/lifecycle"
	httpez "go-storefront/internal/transport/http/ez"
	resp "go-storefront/internal/transport/http/response"
)

type authModule struct{ d Deps }

func (authModule) Priority() int { return 40 }

func (m authModule) MountAPI(g Groups) {
	d := m.d
	ez := httpez.New(g.Session)

	httpez.RegisterAction(ez, httpez.Action[struct{}, auth.State]{
		Method: http.MethodGet,
		Path:   "/auth",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (auth.State, error) {
			s, err := d.current(c)
			if err != nil {
				return auth.State{}, err
			}
			return s.Auth.Snapshot(), nil
		},
	})

	// 登录被拒：401 + 拒绝后的快照（isAuthenticated 保持原值）；
	// 被同会话更新的登录取代：409 + 当前快照
	httpez.RegisterAction(ez, httpez.Action[domain.Credentials, auth.State]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *domain.Credentials) (auth.State, error) {
			s, err := d.current(c)
			if err != nil {
				return auth.State{}, err
			}
			if err := s.Auth.Login(c.Request.Context(), *in); err != nil {
				st := s.Auth.Snapshot()
				if errors.Is(err, lifecycle.ErrSuperseded) {
					return auth.State{}, upstreamErr("", err, st)
				}
				return auth.State{}, &httpez.AErr{
					Code: resp.CodeUnauthorized,
					Msg:  lifecycle.Message(err, auth.DefaultLoginError),
					Err:  err,
					Data: st,
				}
			}
			d.persist(c, s)
			return s.Auth.Snapshot(), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, auth.State]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (auth.State, error) {
			s, err := d.current(c)
			if err != nil {
				return auth.State{}, err
			}
			s.Auth.Logout()
			d.persist(c, s)
			return s.Auth.Snapshot(), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[domain.Profile, auth.State]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *domain.Profile) (auth.State, error) {
			s, err := d.current(c)
			if err != nil {
				return auth.State{}, err
			}
			if err := s.Auth.SignUp(c.Request.Context(), *in); err != nil {
				return auth.State{}, upstreamErr(lifecycle.Message(err, auth.DefaultRegisterError), err, s.Auth.Snapshot())
			}
			d.persist(c, s)
			return s.Auth.Snapshot(), nil
		},
	})
}
