package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/checkout"
	"go-storefront/internal/domain"
	"go-storefront/internal/store/lifecycle"
	httpez "go-storefront/internal/transport/http/ez"
)

type checkoutModule struct{ d Deps }

func (checkoutModule) Priority() int { return 50 }

type checkoutOut struct {
	Order *domain.OrderReceipt `json:"order"`
	Cart  cartView             `json:"cart"`
}

const defaultOrderError = "Order failed"

func (m checkoutModule) MountAPI(g Groups) {
	d := m.d
	ez := httpez.New(g.Session)

	httpez.RegisterAction(ez, httpez.Action[domain.Location, checkoutOut]{
		Method: http.MethodPost,
		Path:   "/checkout",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *domain.Location) (checkoutOut, error) {
			s, err := d.current(c)
			if err != nil {
				return checkoutOut{}, err
			}
			rc, err := d.Checkout.Submit(c.Request.Context(), s, *in)
			var unknown *checkout.UnknownProductsError
			switch {
			case err == nil:
			case errors.Is(err, checkout.ErrNotAuthenticated):
				return checkoutOut{}, httpez.Unauthorized(err.Error())
			case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrInvalidQuantity):
				return checkoutOut{}, httpez.BadRequest(err.Error())
			case errors.As(err, &unknown):
				return checkoutOut{}, httpez.Conflict(err.Error())
			default:
				return checkoutOut{}, upstreamErr(lifecycle.Message(err, defaultOrderError), err, viewOf(s, false))
			}
			d.persist(c, s)
			return checkoutOut{Order: rc, Cart: viewOf(s, true)}, nil
		},
	})
}
