package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/domain"
	"go-storefront/internal/store/catalog"
	"go-storefront/internal/store/lifecycle"
	httpez "go-storefront/internal/transport/http/ez"
)

type catalogModule struct{ d Deps }

func (catalogModule) Priority() int { return 20 }

type productsOut struct {
	Items []domain.Product `json:"items"`
	Total int              `json:"total"`
}

type productIn struct {
	ID string `uri:"id" binding:"required"`
}

func (m catalogModule) MountAPI(g Groups) {
	d := m.d
	ez := httpez.New(g.Session)

	httpez.RegisterAction(ez, httpez.Action[struct{}, catalog.State]{
		Method: http.MethodGet,
		Path:   "/catalog",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (catalog.State, error) {
			s, err := d.current(c)
			if err != nil {
				return catalog.State{}, err
			}
			return s.Catalog.Snapshot(), nil
		},
	})

	// 分类接口失败仍算成功（分类为空）；商品接口失败带上失败后的快照
	httpez.RegisterAction(ez, httpez.Action[struct{}, catalog.State]{
		Method: http.MethodPost,
		Path:   "/catalog/fetch",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (catalog.State, error) {
			s, err := d.current(c)
			if err != nil {
				return catalog.State{}, err
			}
			if err := s.Catalog.FetchProducts(c.Request.Context()); err != nil {
				st := s.Catalog.Snapshot()
				return catalog.State{}, upstreamErr(lifecycle.Message(err, catalog.DefaultFetchError), err, st)
			}
			return s.Catalog.Snapshot(), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[struct{}, catalog.State]{
		Method: http.MethodPost,
		Path:   "/catalog/reset",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (catalog.State, error) {
			s, err := d.current(c)
			if err != nil {
				return catalog.State{}, err
			}
			s.Catalog.Reset()
			return s.Catalog.Snapshot(), nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[catalog.Filter, productsOut]{
		Method: http.MethodGet,
		Path:   "/catalog/products",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *catalog.Filter) (productsOut, error) {
			s, err := d.current(c)
			if err != nil {
				return productsOut{}, err
			}
			items := s.Catalog.Filtered(*in)
			return productsOut{Items: items, Total: len(items)}, nil
		},
	})

	httpez.RegisterAction(ez, httpez.Action[productIn, domain.Product]{
		Method: http.MethodGet,
		Path:   "/catalog/products/:id",
		Binder: httpez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, in *productIn) (domain.Product, error) {
			s, err := d.current(c)
			if err != nil {
				return domain.Product{}, err
			}
			p, ok := s.Catalog.Product(domain.ProductID(in.ID))
			if !ok {
				return domain.Product{}, httpez.NotFound("product not found")
			}
			return p, nil
		},
	})
}
