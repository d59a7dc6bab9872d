package backend

import (
	"context"
	"fmt"
	"net/http"

	"go-storefront/internal/domain"
)

func (c *Client) SubmitOrder(ctx context.Context, o domain.Order) (*domain.OrderReceipt, error) {
	res, err := c.do(ctx, http.MethodPost, c.paths.Orders, o)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}
	if r := res.Get("order"); r.IsObject() {
		res = r
	}
	rc := &domain.OrderReceipt{
		ID:     first(res, "id", "_id").String(),
		Status: res.Get("status").String(),
		Total:  res.Get("total").Float(),
	}
	if t := first(res, "createdAt", "created_at"); t.Exists() {
		rc.CreatedAt = t.Time()
	}
	return rc, nil
}
