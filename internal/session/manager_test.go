package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"go-storefront/internal/domain"
)

type stubCatalog struct{}

func (stubCatalog) ListProducts(context.Context) ([]domain.Product, error) {
	return []domain.Product{{ID: "1", Name: "Tea", Price: 2}}, nil
}
func (stubCatalog) ListCategories(context.Context) ([]domain.Category, error) { return nil, nil }

type stubAuth struct{}

func (stubAuth) Login(_ context.Context, c domain.Credentials) (*domain.User, error) {
	return &domain.User{ID: "u1", Email: c.Identifier}, nil
}
func (stubAuth) Register(context.Context, domain.Profile) (*domain.User, error) {
	return &domain.User{ID: "u2"}, nil
}

type failingRepo struct{ *MemoryRepo }

func (f *failingRepo) Save(context.Context, Record) error { return errors.New("db down") }

type ManagerSuite struct {
	suite.Suite
	repo *MemoryRepo
	m    *Manager
	ctx  context.Context
}

func (s *ManagerSuite) SetupTest() {
	s.repo = NewMemoryRepo()
	s.m = NewManager(Deps{Catalog: stubCatalog{}, Auth: stubAuth{}, Repo: s.repo})
	s.ctx = context.Background()
}

func (s *ManagerSuite) TestCreateAndGet() {
	sess, err := s.m.Create(s.ctx)
	s.Require().NoError(err)
	s.NotEmpty(sess.ID)

	got, err := s.m.Get(s.ctx, sess.ID)
	s.Require().NoError(err)
	s.Same(sess, got)

	rec, _ := s.repo.Load(s.ctx, sess.ID)
	s.NotNil(rec)
}

func (s *ManagerSuite) TestGetUnknown() {
	_, err := s.m.Get(s.ctx, "nope")
	s.ErrorIs(err, ErrNotFound)
}

func (s *ManagerSuite) TestRehydrateFromRepo() {
	sess, err := s.m.Create(s.ctx)
	s.Require().NoError(err)
	sess.Cart.AddItem(domain.Product{ID: "1", Name: "Tea"}, 3)
	s.Require().NoError(sess.Auth.Login(s.ctx, domain.Credentials{Identifier: "ann"}))
	s.Require().NoError(s.m.Persist(s.ctx, sess))

	// 模拟进程重启：新的 manager 共享同一个仓储
	fresh := NewManager(Deps{Catalog: stubCatalog{}, Auth: stubAuth{}, Repo: s.repo})
	got, err := fresh.Get(s.ctx, sess.ID)
	s.Require().NoError(err)
	s.NotSame(sess, got)

	l, ok := got.Cart.Line("1")
	s.True(ok)
	s.Equal(3, l.Quantity)
	st := got.Auth.Snapshot()
	s.True(st.IsAuthenticated)
	s.Equal("u1", st.User.ID)
	s.Empty(got.Catalog.Snapshot().Products)
}

func (s *ManagerSuite) TestPersistSkipsUnauthenticatedUser() {
	sess, _ := s.m.Create(s.ctx)
	sess.Auth.Logout()
	s.Require().NoError(s.m.Persist(s.ctx, sess))
	rec, _ := s.repo.Load(s.ctx, sess.ID)
	s.Nil(rec.User)
}

func (s *ManagerSuite) TestDelete() {
	sess, _ := s.m.Create(s.ctx)
	s.Require().NoError(s.m.Delete(s.ctx, sess.ID))

	_, err := s.m.Get(s.ctx, sess.ID)
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.m.Delete(s.ctx, sess.ID), ErrNotFound)
}

func (s *ManagerSuite) TestPersistAfterDeleteDoesNotResurrect() {
	sess, err := s.m.Create(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(s.m.Delete(s.ctx, sess.ID))

	// 删除前已取到会话的请求随后再写回
	sess.Cart.AddItem(domain.Product{ID: "1"}, 1)
	s.ErrorIs(s.m.Persist(s.ctx, sess), ErrNotFound)

	_, err = s.m.Get(s.ctx, sess.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ManagerSuite) TestList() {
	a, _ := s.m.Create(s.ctx)
	time.Sleep(time.Millisecond)
	b, _ := s.m.Create(s.ctx)
	b.Cart.AddItem(domain.Product{ID: "1"}, 1)

	list := s.m.List()
	s.Require().Len(list, 2)
	s.Equal(b.ID, list[0].ID)
	s.Equal(1, list[0].CartLines)
	s.Equal(a.ID, list[1].ID)
	s.Equal("idle", list[1].CatalogStatus)
}

func (s *ManagerSuite) TestSessionsAreIsolated() {
	a, _ := s.m.Create(s.ctx)
	b, _ := s.m.Create(s.ctx)
	a.Cart.AddItem(domain.Product{ID: "1"}, 1)
	s.Require().NoError(a.Catalog.FetchProducts(s.ctx))

	s.Equal(0, b.Cart.Len())
	s.Empty(b.Catalog.Snapshot().Products)
}

func (s *ManagerSuite) TestEvictIdleSessions() {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(Deps{Catalog: stubCatalog{}, Auth: stubAuth{}, Repo: s.repo, IdleTTL: 10 * time.Minute})
	m.now = func() time.Time { return clock }

	idle, err := m.Create(s.ctx)
	s.Require().NoError(err)
	idle.Cart.AddItem(domain.Product{ID: "1", Name: "Tea"}, 2)
	s.Require().NoError(m.Persist(s.ctx, idle))

	clock = clock.Add(8 * time.Minute)
	busy, err := m.Create(s.ctx)
	s.Require().NoError(err)

	clock = clock.Add(5 * time.Minute)
	s.Equal(1, m.Evict())
	s.Len(m.List(), 1)
	s.Equal(busy.ID, m.List()[0].ID)

	// 回收只释放内存，取用时从仓储重建
	back, err := m.Get(s.ctx, idle.ID)
	s.Require().NoError(err)
	s.NotSame(idle, back)
	s.Equal(2, back.Cart.Lines()[0].Quantity)
	s.True(clock.Equal(back.LastSeen()))
}

func (s *ManagerSuite) TestGetRefreshesLastSeen() {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(Deps{Catalog: stubCatalog{}, Auth: stubAuth{}, Repo: s.repo, IdleTTL: 10 * time.Minute})
	m.now = func() time.Time { return clock }

	sess, err := m.Create(s.ctx)
	s.Require().NoError(err)

	clock = clock.Add(9 * time.Minute)
	_, err = m.Get(s.ctx, sess.ID)
	s.Require().NoError(err)

	clock = clock.Add(9 * time.Minute)
	s.Equal(0, m.Evict())
	s.Len(m.List(), 1)
}

func (s *ManagerSuite) TestEvictDisabledWithoutTTL() {
	_, err := s.m.Create(s.ctx)
	s.Require().NoError(err)
	s.m.now = func() time.Time { return time.Now().Add(24 * time.Hour) }
	s.Equal(0, s.m.Evict())
	s.Len(s.m.List(), 1)
}

func (s *ManagerSuite) TestJanitorStopsOnCancel() {
	m := NewManager(Deps{Catalog: stubCatalog{}, Auth: stubAuth{}, Repo: s.repo, IdleTTL: time.Nanosecond})
	_, err := m.Create(s.ctx)
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() { m.Janitor(ctx, 5*time.Millisecond); close(done) }()

	s.Eventually(func() bool { return len(m.List()) == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("janitor did not stop")
	}
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func TestCreateFailsWhenRepoFails(t *testing.T) {
	m := NewManager(Deps{Catalog: stubCatalog{}, Auth: stubAuth{}, Repo: &failingRepo{MemoryRepo: NewMemoryRepo()}})
	_, err := m.Create(context.Background())
	assert.Error(t, err)
	assert.Empty(t, m.List())
}

func TestInitialScreen(t *testing.T) {
	assert.Equal(t, ScreenHome, InitialScreen(true))
	assert.Equal(t, ScreenLogin, InitialScreen(false))
}

func TestMemoryRepoList(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	now := time.Now()
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Save(ctx, Record{ID: id, UpdatedAt: now.Add(time.Duration(i) * time.Second)}))
	}

	page, total, err := r.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].ID)

	page, _, _ = r.List(ctx, 5, 10)
	assert.Empty(t, page)
}

func TestListStoredIncludesEvictedSessions(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, Record{
		ID:    "old",
		User:  &domain.User{ID: "u7"},
		Lines: nil,
	}))
	m := NewManager(Deps{Catalog: stubCatalog{}, Auth: stubAuth{}, Repo: repo})

	items, total, err := m.ListStored(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "u7", items[0].UserID)
	assert.Empty(t, m.List())
}
