package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/domain"
	"go-storefront/internal/session"
	"go-storefront/internal/store/cart"
	httpez "go-storefront/internal/transport/http/ez"
)

type cartModule struct{ d Deps }

func (cartModule) Priority() int { return 30 }

// cartView 合计在读取时按当前目录价格现算
type cartView struct {
	Lines []cart.Line `json:"lines"`
	Count int         `json:"count"`
	Total float64     `json:"total"`
	// Applied=false 表示该操作按规则被忽略（例如商品不在购物车中）
	Applied bool `json:"applied"`
}

func viewOf(s *session.Session, applied bool) cartView {
	lines := s.Cart.Lines()
	return cartView{
		Lines:   lines,
		Count:   cart.Count(lines),
		Total:   cart.Total(lines, s.Catalog.Price),
		Applied: applied,
	}
}

type addItemIn struct {
	ProductID domain.ProductID `json:"productId"`
	Quantity  int              `json:"quantity"`
}

type lineURI struct {
	ID string `uri:"id" binding:"required"`
}

type updateIn struct {
	ID       string `uri:"id" json:"-" binding:"required"`
	Quantity int    `json:"quantity"`
}

func (m cartModule) MountAPI(g Groups) {
	d := m.d
	ez := httpez.New(g.Session)

	httpez.RegisterAction(ez, httpez.Action[struct{}, cartView]{
		Method: http.MethodGet,
		Path:   "/cart",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (cartView, error) {
			s, err := d.current(c)
			if err != nil {
				return cartView{}, err
			}
			return viewOf(s, true), nil
		},
	})

	// 缺少 productId 时交给 store 按规则忽略；id 不在目录中则 404
	httpez.RegisterAction(ez, httpez.Action[addItemIn, cartView]{
		Method: http.MethodPost,
		Path:   "/cart/items",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *addItemIn) (cartView, error) {
			s, err := d.current(c)
			if err != nil {
				return cartView{}, err
			}
			var p domain.Product
			if in.ProductID != "" {
				var ok bool
				if p, ok = s.Catalog.Product(in.ProductID); !ok {
					return cartView{}, httpez.NotFound("product not in catalog")
				}
			}
			applied := s.Cart.AddItem(p, in.Quantity)
			if applied {
				d.persist(c, s)
			}
			return viewOf(s, applied), nil
		},
	})

	// 行数量不能低于 1：0 等同删除该行，负数直接拒绝
	httpez.RegisterAction(ez, httpez.Action[updateIn, cartView]{
		Method: http.MethodPut,
		Path:   "/cart/items/:id",
		Binder: httpez.BindURIJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateIn) (cartView, error) {
			s, err := d.current(c)
			if err != nil {
				return cartView{}, err
			}
			var applied bool
			switch {
			case in.Quantity < 0:
				return cartView{}, httpez.BadRequest("quantity must not be negative")
			case in.Quantity == 0:
				applied = s.Cart.RemoveItem(domain.ProductID(in.ID))
			default:
				applied = s.Cart.UpdateQuantity(domain.ProductID(in.ID), in.Quantity)
			}
			if applied {
				d.persist(c, s)
			}
			return viewOf(s, applied), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[lineURI, cartView]{
		Method: http.MethodDelete,
		Path:   "/cart/items/:id",
		Binder: httpez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, in *lineURI) (cartView, error) {
			s, err := d.current(c)
			if err != nil {
				return cartView{}, err
			}
			applied := s.Cart.RemoveItem(domain.ProductID(in.ID))
			if applied {
				d.persist(c, s)
			}
			return viewOf(s, applied), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, cartView]{
		Method: http.MethodDelete,
		Path:   "/cart",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (cartView, error) {
			s, err := d.current(c)
			if err != nil {
				return cartView{}, err
			}
			s.Cart.Clear()
			d.persist(c, s)
			return viewOf(s, true), nil
		},
	})
}
