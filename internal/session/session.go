// Package session 每个客户端会话持有一套独立的 catalog/cart/auth store
package session

import (
	"sync/atomic"
	"time"

	"go-storefront/internal/domain"
	"go-storefront/internal/store/auth"
	"go-storefront/internal/store/cart"
	"go-storefront/internal/store/catalog"
)

type Session struct {
	ID        string
	CreatedAt time.Time

	Catalog *catalog.Store
	Cart    *cart.Store
	Auth    *auth.Store

	lastSeen atomic.Int64 // unix nano，最近一次被取用
}

func (s *Session) touch(t time.Time) { s.lastSeen.Store(t.UnixNano()) }

// LastSeen 最近一次被 Manager 取出的时间
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Record 持久化的会话：只存用户与购物车，目录每次重新拉取
type Record struct {
	ID        string
	User      *domain.User
	Lines     []cart.Line
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Session) record() Record {
	st := s.Auth.Snapshot()
	r := Record{ID: s.ID, Lines: s.Cart.Lines(), CreatedAt: s.CreatedAt, UpdatedAt: time.Now()}
	if st.IsAuthenticated {
		r.User = st.User
	}
	return r
}

// Summary 管理端列表用
type Summary struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	Authenticated bool      `json:"authenticated"`
	UserID        string    `json:"userId,omitempty"`
	CartLines     int       `json:"cartLines"`
	CatalogStatus string    `json:"catalogStatus"`
	Products      int       `json:"products"`
}

func (s *Session) Summary() Summary {
	a := s.Auth.Snapshot()
	c := s.Catalog.Snapshot()
	return Summary{
		ID:            s.ID,
		CreatedAt:     s.CreatedAt,
		Authenticated: a.IsAuthenticated,
		UserID:        s.Auth.UserID(),
		CartLines:     s.Cart.Len(),
		CatalogStatus: string(c.Status),
		Products:      len(c.Products),
	}
}

type Screen string

const (
	ScreenHome  Screen = "home"
	ScreenLogin Screen = "login"
)

// InitialScreen 启动时只看“是否存在会话令牌”这一个布尔输入
func InitialScreen(tokenPresent bool) Screen {
	if tokenPresent {
		return ScreenHome
	}
	return ScreenLogin
}

type StoredSummary struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	CartLines int       `json:"cartLines"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r Record) Summary() StoredSummary {
	s := StoredSummary{ID: r.ID, CartLines: len(r.Lines), CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	if r.User != nil {
		s.UserID = r.User.ID
	}
	return s
}
