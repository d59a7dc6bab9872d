package auth

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"go-storefront/internal/core/metrics"
	"go-storefront/internal/domain"
	"go-storefront/internal/store/lifecycle"
)

// Gateway 登录/注册接口
type Gateway interface {
	Login(ctx context.Context, c domain.Credentials) (*domain.User, error)
	Register(ctx context.Context, p domain.Profile) (*domain.User, error)
}

type Store struct {
	mu    sync.RWMutex
	state State
	gw    Gateway
	log   *zap.Logger
}

func New(gw Gateway, l *zap.Logger) *Store {
	if l == nil {
		l = zap.NewNop()
	}
	return &Store{state: Initial(), gw: gw, log: l.Named("auth")}
}

func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	s.mu.Unlock()
}

// begin 发出 pending，返回本次请求的序号
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, Action{Kind: KindLogin, Phase: lifecycle.Pending})
	return s.state.seq
}

// settle 只有 a.Seq 仍是最新请求时才落结果
func (s *Store) settle(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !lifecycle.Current(s.state.seq, a.Seq) {
		return false
	}
	s.state = Reduce(s.state, a)
	return true
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Login pending -> fulfilled | rejected；失败不会改变 IsAuthenticated。
// 重叠的登录以最后发起的为准：较早请求的结果被丢弃，并返回 lifecycle.ErrSuperseded。
func (s *Store) Login(ctx context.Context, c domain.Credentials) error {
	seq := s.begin()

	u, err := s.gw.Login(ctx, c)
	if err != nil {
		msg := lifecycle.Message(err, DefaultLoginError)
		if !s.settle(Action{Kind: KindLogin, Phase: lifecycle.Rejected, Err: msg, Seq: seq}) {
			s.log.Debug("stale login outcome dropped", zap.Uint64("seq", seq), zap.Error(err))
			metrics.AuthLogin.WithLabelValues(metrics.ResultSuperseded).Inc()
			return lifecycle.ErrSuperseded
		}
		s.log.Info("login rejected", zap.String("identifier", c.Identifier), zap.String("msg", msg))
		metrics.AuthLogin.WithLabelValues(metrics.ResultError).Inc()
		return err
	}
	if !s.settle(Action{Kind: KindLogin, Phase: lifecycle.Fulfilled, User: u, Seq: seq}) {
		s.log.Debug("stale login outcome dropped", zap.Uint64("seq", seq))
		metrics.AuthLogin.WithLabelValues(metrics.ResultSuperseded).Inc()
		return lifecycle.ErrSuperseded
	}
	metrics.AuthLogin.WithLabelValues(metrics.ResultOK).Inc()
	return nil
}

func (s *Store) Logout() {
	s.Dispatch(Action{Kind: KindLogout})
}

// Register 注册接口成功后的本地登录态
func (s *Store) Register(p domain.Profile) {
	s.Dispatch(Action{Kind: KindRegister, User: &domain.User{FirstName: p.FirstName, Phone: p.Phone}})
}

// SignUp 先调注册接口，成功后再走 Register
func (s *Store) SignUp(ctx context.Context, p domain.Profile) error {
	u, err := s.gw.Register(ctx, p)
	if err != nil {
		msg := lifecycle.Message(err, DefaultRegisterError)
		s.log.Info("registration rejected", zap.String("phone", p.Phone), zap.String("msg", msg))
		s.Dispatch(Action{Kind: KindRegisterFailed, Err: msg})
		return err
	}
	if u != nil {
		if u.FirstName != "" {
			p.FirstName = u.FirstName
		}
		if u.Phone != "" {
			p.Phone = u.Phone
		}
	}
	s.Register(p)
	return nil
}

// Restore 从持久化会话恢复用户
func (s *Store) Restore(u *domain.User) {
	s.Dispatch(Action{Kind: KindRestore, User: u})
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return ""
	}
	return s.state.User.ID
}
