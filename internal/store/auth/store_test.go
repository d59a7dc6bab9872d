package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-storefront/internal/domain"
	"go-storefront/internal/store/lifecycle"
)

type fakeGateway struct {
	login    func(domain.Credentials) (*domain.User, error)
	register func(domain.Profile) (*domain.User, error)
}

func (f *fakeGateway) Login(_ context.Context, c domain.Credentials) (*domain.User, error) {
	return f.login(c)
}

func (f *fakeGateway) Register(_ context.Context, p domain.Profile) (*domain.User, error) {
	return f.register(p)
}

type serverErr struct{ msg string }

func (e serverErr) Error() string         { return "backend: " + e.msg }
func (e serverErr) ServerMessage() string { return e.msg }

func TestLoginFulfilled(t *testing.T) {
	gw := &fakeGateway{login: func(c domain.Credentials) (*domain.User, error) {
		return &domain.User{ID: "u1", FirstName: "Ann", Email: c.Identifier}, nil
	}}
	s := New(gw, nil)

	require.NoError(t, s.Login(context.Background(), domain.Credentials{Identifier: "ann@example.com", Password: "pw"}))

	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	require.NotNil(t, st.User)
	assert.Equal(t, "Ann", st.User.FirstName)
	assert.False(t, st.Loading)
	assert.Nil(t, st.Error)
	assert.Equal(t, lifecycle.Succeeded, st.Status)
	assert.Equal(t, "u1", s.UserID())
}

func TestLoginRejectedWithServerMessage(t *testing.T) {
	gw := &fakeGateway{login: func(domain.Credentials) (*domain.User, error) {
		return nil, serverErr{"Invalid credentials"}
	}}
	s := New(gw, nil)

	assert.Error(t, s.Login(context.Background(), domain.Credentials{Identifier: "x", Password: "y"}))

	st := s.Snapshot()
	require.NotNil(t, st.Error)
	assert.Equal(t, "Invalid credentials", *st.Error)
	assert.False(t, st.IsAuthenticated)
	assert.False(t, st.Loading)
	assert.Equal(t, lifecycle.Failed, st.Status)
}

func TestLoginRejectedNeverAuthenticates(t *testing.T) {
	gw := &fakeGateway{login: func(domain.Credentials) (*domain.User, error) {
		return nil, errors.New("timeout")
	}}
	s := New(gw, nil)

	for i := 0; i < 3; i++ {
		_ = s.Login(context.Background(), domain.Credentials{})
		st := s.Snapshot()
		assert.False(t, st.IsAuthenticated)
		assert.False(t, st.Loading)
		require.NotNil(t, st.Error)
		assert.Equal(t, DefaultLoginError, *st.Error)
	}
}

func TestLoginRejectedKeepsPriorSession(t *testing.T) {
	ok := true
	gw := &fakeGateway{login: func(domain.Credentials) (*domain.User, error) {
		if ok {
			return &domain.User{ID: "u1"}, nil
		}
		return nil, serverErr{"nope"}
	}}
	s := New(gw, nil)
	require.NoError(t, s.Login(context.Background(), domain.Credentials{}))

	ok = false
	_ = s.Login(context.Background(), domain.Credentials{})
	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "nope", *st.Error)
}

func TestPendingClearsError(t *testing.T) {
	msg := "old"
	st := Initial()
	st.Status = lifecycle.Failed
	st.Error = &msg

	st = Reduce(st, Action{Kind: KindLogin, Phase: lifecycle.Pending})
	assert.True(t, st.Loading)
	assert.Nil(t, st.Error)
}

func TestLogout(t *testing.T) {
	gw := &fakeGateway{login: func(domain.Credentials) (*domain.User, error) { return &domain.User{ID: "u1"}, nil }}
	s := New(gw, nil)
	require.NoError(t, s.Login(context.Background(), domain.Credentials{}))

	s.Logout()

	st := s.Snapshot()
	assert.False(t, st.IsAuthenticated)
	assert.Nil(t, st.User)
	assert.Nil(t, st.Error)
}

func TestRegister(t *testing.T) {
	s := New(&fakeGateway{}, nil)
	s.Register(domain.Profile{FirstName: "Bo", Phone: "555", Email: "bo@example.com"})

	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, &domain.User{FirstName: "Bo", Phone: "555"}, st.User)
}

func TestSignUp(t *testing.T) {
	gw := &fakeGateway{register: func(p domain.Profile) (*domain.User, error) {
		return &domain.User{ID: "u9", FirstName: p.FirstName, Phone: "+1 555"}, nil
	}}
	s := New(gw, nil)

	require.NoError(t, s.SignUp(context.Background(), domain.Profile{FirstName: "Cy", Phone: "555"}))
	st := s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	assert.Equal(t, "+1 555", st.User.Phone)
}

func TestSignUpFailure(t *testing.T) {
	gw := &fakeGateway{register: func(domain.Profile) (*domain.User, error) {
		return nil, serverErr{"Phone already registered"}
	}}
	s := New(gw, nil)

	assert.Error(t, s.SignUp(context.Background(), domain.Profile{FirstName: "Cy", Phone: "555"}))
	st := s.Snapshot()
	assert.False(t, st.IsAuthenticated)
	assert.Equal(t, "Phone already registered", *st.Error)
}

func TestRestore(t *testing.T) {
	s := New(&fakeGateway{}, nil)
	s.Restore(&domain.User{ID: "u1"})
	assert.True(t, s.Snapshot().IsAuthenticated)
	s.Restore(nil)
	assert.False(t, s.Snapshot().IsAuthenticated)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New(&fakeGateway{}, nil)
	s.Register(domain.Profile{FirstName: "Bo"})
	st := s.Snapshot()
	st.User.FirstName = "mutated"
	assert.Equal(t, "Bo", s.Snapshot().User.FirstName)
}

func TestOverlappingLoginsLatestWins(t *testing.T) {
	entered := make(chan string, 2)
	release := map[string]chan struct{}{"a": make(chan struct{}), "b": make(chan struct{})}
	gw := &fakeGateway{login: func(c domain.Credentials) (*domain.User, error) {
		entered <- c.Identifier
		<-release[c.Identifier]
		if c.Identifier == "a" {
			return nil, serverErr{"Invalid credentials"}
		}
		return &domain.User{ID: "u-b"}, nil
	}}
	s := New(gw, nil)

	first := make(chan error, 1)
	go func() { first <- s.Login(context.Background(), domain.Credentials{Identifier: "a"}) }()
	require.Equal(t, "a", <-entered)

	second := make(chan error, 1)
	go func() { second <- s.Login(context.Background(), domain.Credentials{Identifier: "b"}) }()
	require.Equal(t, "b", <-entered)
	assert.True(t, s.Snapshot().Loading)

	// 先发起的请求先返回失败：已被第二次登录取代，不落状态
	close(release["a"])
	assert.ErrorIs(t, <-first, lifecycle.ErrSuperseded)
	st := s.Snapshot()
	assert.True(t, st.Loading)
	assert.Nil(t, st.Error)

	close(release["b"])
	require.NoError(t, <-second)
	st = s.Snapshot()
	assert.True(t, st.IsAuthenticated)
	assert.Nil(t, st.Error)
	assert.False(t, st.Loading)
	assert.Equal(t, lifecycle.Succeeded, st.Status)
	assert.Equal(t, "u-b", s.UserID())
}

func TestOverlappingLoginsLatestFailureLands(t *testing.T) {
	entered := make(chan string, 2)
	release := map[string]chan struct{}{"a": make(chan struct{}), "b": make(chan struct{})}
	gw := &fakeGateway{login: func(c domain.Credentials) (*domain.User, error) {
		entered <- c.Identifier
		<-release[c.Identifier]
		if c.Identifier == "a" {
			return &domain.User{ID: "u-a"}, nil
		}
		return nil, serverErr{"Locked"}
	}}
	s := New(gw, nil)

	first := make(chan error, 1)
	go func() { first <- s.Login(context.Background(), domain.Credentials{Identifier: "a"}) }()
	<-entered
	second := make(chan error, 1)
	go func() { second <- s.Login(context.Background(), domain.Credentials{Identifier: "b"}) }()
	<-entered

	close(release["b"])
	assert.Error(t, <-second)
	close(release["a"])
	assert.ErrorIs(t, <-first, lifecycle.ErrSuperseded)

	st := s.Snapshot()
	assert.False(t, st.IsAuthenticated)
	require.NotNil(t, st.Error)
	assert.Equal(t, "Locked", *st.Error)
	assert.Equal(t, lifecycle.Failed, st.Status)
}

func TestReduceDropsStaleOutcome(t *testing.T) {
	st := Reduce(Initial(), Action{Kind: KindLogin, Phase: lifecycle.Pending})
	st = Reduce(st, Action{Kind: KindLogin, Phase: lifecycle.Pending})

	stale := Reduce(st, Action{Kind: KindLogin, Phase: lifecycle.Fulfilled, User: &domain.User{ID: "u1"}, Seq: st.seq - 1})
	assert.False(t, stale.IsAuthenticated)
	assert.True(t, stale.Loading)

	latest := Reduce(st, Action{Kind: KindLogin, Phase: lifecycle.Fulfilled, User: &domain.User{ID: "u2"}, Seq: st.seq})
	assert.True(t, latest.IsAuthenticated)
	assert.Equal(t, "u2", latest.User.ID)
}
