package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-storefront/internal/core/metrics"
	"go-storefront/internal/store/auth"
	"go-storefront/internal/store/cart"
	"go-storefront/internal/store/catalog"
	"go-storefront/pkg/utils"
)

var ErrNotFound = errors.New("session not found")

type Deps struct {
	Catalog catalog.Source
	Auth    auth.Gateway
	Repo    Repository
	Logger  *zap.Logger
	// IdleTTL 内存会话空闲超过该时长被回收，0 表示不回收
	IdleTTL time.Duration
}

type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	deps     Deps
	log      *zap.Logger
	now      func() time.Time
}

func NewManager(d Deps) *Manager {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Repo == nil {
		d.Repo = NewMemoryRepo()
	}
	return &Manager{sessions: map[string]*Session{}, deps: d, log: d.Logger.Named("session"), now: time.Now}
}

func (m *Manager) build(id string, created time.Time) *Session {
	l := m.log.With(zap.String("sid", id))
	return &Session{
		ID:        id,
		CreatedAt: created,
		Catalog:   catalog.New(m.deps.Catalog, l),
		Cart:      cart.New(l),
		Auth:      auth.New(m.deps.Auth, l),
	}
}

func (m *Manager) Create(ctx context.Context) (*Session, error) {
	s := m.build(utils.NewID(), m.now())
	s.touch(m.now())
	if err := m.deps.Repo.Save(ctx, s.record()); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))
	m.log.Info("session created", zap.String("sid", s.ID))
	return s, nil
}

// Get 内存里没有时从仓储重建（进程重启后令牌仍然有效）
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.touch(m.now())
		return s, nil
	}

	rec, err := m.deps.Repo.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.touch(m.now())
		return s, nil
	}
	s = m.build(rec.ID, rec.CreatedAt)
	s.touch(m.now())
	s.Cart.Restore(rec.Lines)
	if rec.User != nil {
		s.Auth.Restore(rec.User)
	}
	m.sessions[id] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	m.log.Info("session restored", zap.String("sid", id), zap.Int("cart_lines", len(rec.Lines)))
	return s, nil
}

// Persist 在购物车/登录态变更后调用
func (m *Manager) Persist(ctx context.Context, s *Session) error {
	err := m.deps.Repo.Save(ctx, s.record())
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		m.log.Warn("persist skipped, session deleted", zap.String("sid", s.ID))
	default:
		m.log.Error("persist session failed", zap.String("sid", s.ID), zap.Error(err))
	}
	return fmt.Errorf("save session: %w", err)
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	_, inMem := m.sessions[id]
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.ActiveSessions.Set(float64(n))

	rec, err := m.deps.Repo.Load(ctx, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if rec == nil && !inMem {
		return ErrNotFound
	}
	if err := m.deps.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.log.Info("session deleted", zap.String("sid", id))
	return nil
}

// Evict 回收空闲超过 IdleTTL 的内存会话，返回回收数量。
// 只释放内存，仓储中的记录保留，下次 Get 时重建。
func (m *Manager) Evict() int {
	ttl := m.deps.IdleTTL
	if ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-ttl)

	m.mu.Lock()
	var evicted []string
	for id, s := range m.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if len(evicted) > 0 {
		metrics.ActiveSessions.Set(float64(n))
		m.log.Info("idle sessions evicted", zap.Int("evicted", len(evicted)), zap.Int("active", n))
	}
	return len(evicted)
}

// Janitor 按 every 周期调用 Evict，ctx 取消后退出
func (m *Manager) Janitor(ctx context.Context, every time.Duration) {
	if m.deps.IdleTTL <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Evict()
		}
	}
}

// List 内存中的会话，按创建时间倒序
func (m *Manager) List() []Summary {
	m.mu.RLock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	out := make([]Summary, 0, len(all))
	for _, s := range all {
		out = append(out, s.Summary())
	}
	return out
}

// ListStored 分页读取仓储中的会话（包含不在内存里的）
func (m *Manager) ListStored(ctx context.Context, offset, limit int) ([]StoredSummary, int64, error) {
	recs, total, err := m.deps.Repo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	out := make([]StoredSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Summary())
	}
	return out, total, nil
}
