// Package auth 登录态：是否已登录、当前用户、登录请求的生命周期
package auth

import (
	"go-storefront/internal/domain"
	"go-storefront/internal/store/lifecycle"
)

const (
	DefaultLoginError    = "Login failed"
	DefaultRegisterError = "Registration failed"
)

type State struct {
	IsAuthenticated bool             `json:"isAuthenticated"`
	User            *domain.User     `json:"user"`
	Error           *string          `json:"error"`
	Loading         bool             `json:"loading"`
	Status          lifecycle.Status `json:"status"`

	seq uint64 // 最近一次登录请求的序号
}

func Initial() State { return State{Status: lifecycle.Idle} }

func (s State) clone() State {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.Error != nil {
		e := *s.Error
		out.Error = &e
	}
	return out
}

type Kind string

const (
	KindLogin          Kind = "auth/login"
	KindLogout         Kind = "auth/logout"
	KindRegister       Kind = "auth/register"
	KindRegisterFailed Kind = "auth/registerFailed"
	KindRestore        Kind = "auth/restore"
)

type Action struct {
	Kind  Kind
	Phase lifecycle.Phase
	User  *domain.User
	Err   string
	Seq   uint64 // 结果所属的登录请求，0 表示不区分
}

func Reduce(s State, a Action) State {
	switch a.Kind {
	case KindLogin:
		if a.Phase != lifecycle.Pending && !lifecycle.Current(s.seq, a.Seq) {
			return s
		}
		next, err := s.Status.Next(a.Phase)
		if err != nil {
			return s
		}
		s.Status = next
		switch a.Phase {
		case lifecycle.Pending:
			s.seq++
			s.Loading = true
			s.Error = nil
		case lifecycle.Fulfilled:
			s.Loading = false
			s.IsAuthenticated = true
			s.User = a.User
		case lifecycle.Rejected:
			msg := a.Err
			if msg == "" {
				msg = DefaultLoginError
			}
			s.Loading = false
			s.Error = &msg
		}

	case KindLogout:
		s.IsAuthenticated = false
		s.User = nil
		s.Error = nil

	case KindRegister:
		s.IsAuthenticated = true
		s.Error = nil
		if a.User != nil {
			s.User = &domain.User{FirstName: a.User.FirstName, Phone: a.User.Phone}
		}

	case KindRegisterFailed:
		msg := a.Err
		if msg == "" {
			msg = DefaultRegisterError
		}
		s.Error = &msg

	case KindRestore:
		// 会话重建：只恢复用户与登录标记
		s.IsAuthenticated = a.User != nil
		s.User = a.User
	}
	return s
}
