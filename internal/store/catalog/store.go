package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-storefront/internal/core/metrics"
	"go-storefront/internal/domain"
	"go-storefront/internal/store/lifecycle"
)

// Source 商品、分类的远端来源（backend.Client 或带缓存的包装）
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type Store struct {
	mu    sync.RWMutex
	state State
	src   Source
	log   *zap.Logger
	sf    singleflight.Group
}

func New(src Source, l *zap.Logger) *Store {
	if l == nil {
		l = zap.NewNop()
	}
	return &Store{state: Initial(), src: src, log: l.Named("catalog")}
}

// Dispatch 串行应用 reducer
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	s.mu.Unlock()
}

func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, Action{Kind: KindFetch, Phase: lifecycle.Pending})
	return s.state.seq
}

// settle 结果过期（有更新的拉取或 reset）时不落状态，返回 false
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

// FetchProducts 拉取商品与分类。
// 同一个 store 上并发调用会合并成一次回源，所有调用方拿到同一结果。
// 分类接口失败不算失败：分类置空，整体仍是 succeeded。
// 拉取期间被 Reset 时结果丢弃，返回 lifecycle.ErrSuperseded。
func (s *Store) FetchProducts(ctx context.Context) error {
	_, err, shared := s.sf.Do("fetch", func() (any, error) {
		seq := s.begin()

		products, err := s.src.ListProducts(ctx)
		if err != nil {
			msg := lifecycle.Message(err, DefaultFetchError)
			if !s.settle(Action{Kind: KindFetch, Phase: lifecycle.Rejected, Err: msg, Seq: seq}) {
				return nil, s.superseded(seq)
			}
			s.log.Warn("fetch products failed", zap.Error(err), zap.String("msg", msg))
			metrics.CatalogFetch.WithLabelValues(metrics.ResultError).Inc()
			return nil, err
		}

		categories, cerr := s.src.ListCategories(ctx)
		result := metrics.ResultOK
		if cerr != nil {
			s.log.Warn("fetch categories failed, continuing without categories", zap.Error(cerr))
			categories = []domain.Category{}
			result = metrics.ResultDegraded
		}
		if !s.settle(Action{
			Kind:       KindFetch,
			Phase:      lifecycle.Fulfilled,
			Products:   products,
			Categories: categories,
			Seq:        seq,
		}) {
			return nil, s.superseded(seq)
		}
		metrics.CatalogFetch.WithLabelValues(result).Inc()
		s.log.Debug("catalog fetched", zap.Int("products", len(products)), zap.Int("categories", len(categories)))
		return nil, nil
	})
	if shared {
		metrics.CatalogFetch.WithLabelValues(metrics.ResultShared).Inc()
	}
	return err
}

func (s *Store) superseded(seq uint64) error {
	s.log.Debug("stale fetch outcome dropped", zap.Uint64("seq", seq))
	metrics.CatalogFetch.WithLabelValues(metrics.ResultSuperseded).Inc()
	return lifecycle.ErrSuperseded
}

// Reset 回到初始空状态（诊断用），不发网络请求。
// 在途的拉取作废；之后的 FetchProducts 不再合并到它上面。
func (s *Store) Reset() {
	s.Dispatch(Action{Kind: KindReset})
	s.sf.Forget("fetch")
}

// Product 按 id 查当前目录中的商品
func (s *Store) Product(id domain.ProductID) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.state.Products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return domain.Product{}, false
}

// Price 结算时按 id 读当前价格
func (s *Store) Price(id domain.ProductID) (float64, bool) {
	p, ok := s.Product(id)
	return p.Price, ok
}

// Filtered 派生视图：当前目录按条件过滤后的商品
func (s *Store) Filtered(f Filter) []domain.Product {
	return Apply(s.Snapshot().Products, f)
}
