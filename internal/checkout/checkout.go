// Package checkout 下单：用购物车与当前目录价格组装订单，提交成功后才清空购物车
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-storefront/internal/core/metrics"
	"go-storefront/internal/domain"
	"go-storefront/internal/session"
	"go-storefront/internal/store/cart"
	"go-storefront/internal/store/lifecycle"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotAuthenticated = errors.New("login required")
	ErrInvalidQuantity  = errors.New("cart line quantity must be at least 1")
)

// UnknownProductsError 购物车里有当前目录中已不存在的商品
type UnknownProductsError struct{ IDs []domain.ProductID }

func (e *UnknownProductsError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = string(id)
	}
	return "products no longer available: " + strings.Join(ids, ",")
}

type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, o domain.Order) (*domain.OrderReceipt, error)
}

type Service struct {
	orders OrderSubmitter
	log    *zap.Logger
}

func New(orders OrderSubmitter, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{orders: orders, log: l.Named("checkout")}
}

// Submit 非原子：提交成功后再清空购物车，两步之间没有事务
func (s *Service) Submit(ctx context.Context, sess *session.Session, loc domain.Location) (*domain.OrderReceipt, error) {
	st := sess.Auth.Snapshot()
	if !st.IsAuthenticated || st.User == nil {
		return nil, ErrNotAuthenticated
	}
	lines := sess.Cart.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// 会话重建后目录为空，先拉一次
	if sess.Catalog.Snapshot().Status == lifecycle.Idle {
		if err := sess.Catalog.FetchProducts(ctx); err != nil {
			return nil, fmt.Errorf("refresh catalog: %w", err)
		}
	}

	order, err := BuildOrder(st.User.ID, loc, lines, sess.Catalog.Price)
	if err != nil {
		return nil, err
	}

	rc, err := s.orders.SubmitOrder(ctx, order)
	if err != nil {
		metrics.OrdersSubmitted.WithLabelValues(metrics.ResultError).Inc()
		s.log.Warn("submit order failed", zap.String("sid", sess.ID), zap.Error(err))
		return nil, err
	}
	sess.Cart.Clear()
	metrics.OrdersSubmitted.WithLabelValues(metrics.ResultOK).Inc()
	s.log.Info("order submitted",
		zap.String("sid", sess.ID),
		zap.String("order_id", rc.ID),
		zap.Int("lines", len(order.LineItems)),
	)
	return rc, nil
}

// BuildOrder 单价一律取当前目录价格；数量小于 1 的行整单拒绝
func BuildOrder(userID string, loc domain.Location, lines []cart.Line, price cart.PriceLookup) (domain.Order, error) {
	o := domain.Order{UserID: userID, Location: loc, LineItems: make([]domain.OrderLine, 0, len(lines))}
	var missing []domain.ProductID
	for _, l := range lines {
		if l.Quantity < 1 {
			return domain.Order{}, fmt.Errorf("%w: product %s has %d", ErrInvalidQuantity, l.ProductID, l.Quantity)
		}
		p, ok := price(l.ProductID)
		if !ok {
			missing = append(missing, l.ProductID)
			continue
		}
		o.LineItems = append(o.LineItems, domain.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			Price:     p,
		})
	}
	if len(missing) > 0 {
		return domain.Order{}, &UnknownProductsError{IDs: missing}
	}
	return o, nil
}
