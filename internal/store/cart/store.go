package cart

import (
	"sync"

	"go.uber.org/zap"

	"go-storefront/internal/core/metrics"
	"go-storefront/internal/domain"
)

type Store struct {
	mu    sync.RWMutex
	state State
	log   *zap.Logger
}

func New(l *zap.Logger) *Store {
	if l == nil {
		l = zap.NewNop()
	}
	return &Store{state: State{}, log: l.Named("cart")}
}

// Dispatch 校验失败只记日志，不改状态，也不向上抛
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	next, err := Reduce(s.state, a)
	if err == nil {
		s.state = next
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("cart action ignored",
			zap.String("action", string(a.Kind)),
			zap.String("product_id", string(a.ProductID)),
			zap.Error(err),
		)
		metrics.CartOps.WithLabelValues(string(a.Kind), "ignored").Inc()
		return false
	}
	metrics.CartOps.WithLabelValues(string(a.Kind), "applied").Inc()
	return true
}

func (s *Store) AddItem(p domain.Product, quantity int) bool {
	return s.Dispatch(Action{Kind: KindAdd, Product: p, ProductID: p.ID, Quantity: quantity})
}

func (s *Store) UpdateQuantity(id domain.ProductID, quantity int) bool {
	return s.Dispatch(Action{Kind: KindUpdate, ProductID: id, Quantity: quantity})
}

func (s *Store) RemoveItem(id domain.ProductID) bool {
	return s.Dispatch(Action{Kind: KindRemove, ProductID: id})
}

func (s *Store) Clear() {
	s.Dispatch(Action{Kind: KindClear})
}

// Restore 用持久化的行重建购物车
func (s *Store) Restore(lines []Line) {
	s.Dispatch(Action{Kind: KindRestore, Lines: lines})
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Lines()
}

func (s *Store) Line(id domain.ProductID) (Line, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.state[id]
	if ok {
		l.Product = l.Product.Clone()
	}
	return l, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state)
}
