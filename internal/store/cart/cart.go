// Package cart 购物车：productId -> 行（数量 + 加购时的商品快照）
package cart

import (
	"errors"
	"sort"

	"go-storefront/internal/domain"
)

var (
	ErrMissingID = errors.New("cart: product id is missing")
	ErrNotInCart = errors.New("cart: product not in cart")
)

type Line struct {
	ProductID domain.ProductID `json:"productId"`
	Quantity  int              `json:"quantity"`
	Product   domain.Product   `json:"product"` // 加购时快照，仅用于展示
}

// State 不保存任何合计
type State map[domain.ProductID]Line

func (s State) clone() State {
	out := make(State, len(s))
	for k, v := range s {
		v.Product = v.Product.Clone()
		out[k] = v
	}
	return out
}

// Lines 按 productId 排序，方便输出稳定
func (s State) Lines() []Line {
	out := make([]Line, 0, len(s))
	for _, l := range s {
		l.Product = l.Product.Clone()
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

type Kind string

const (
	KindAdd     Kind = "cart/addItem"
	KindUpdate  Kind = "cart/updateQuantity"
	KindRemove  Kind = "cart/removeItem"
	KindClear   Kind = "cart/clear"
	KindRestore Kind = "cart/restore"
)

type Action struct {
	Kind      Kind
	Product   domain.Product   // add
	ProductID domain.ProductID // update / remove
	Quantity  int
	Lines     []Line // restore
}

// Reduce 返回新 State；校验失败时返回原 State 与错误，由调用方记日志
func Reduce(s State, a Action) (State, error) {
	switch a.Kind {
	case KindAdd:
		id := a.Product.ID
		if id == "" {
			return s, ErrMissingID
		}
		qty := a.Quantity
		if qty < 1 {
			qty = 1
		}
		out := s.clone()
		if l, ok := out[id]; ok {
			l.Quantity += qty
			out[id] = l
		} else {
			out[id] = Line{ProductID: id, Quantity: qty, Product: a.Product.Clone()}
		}
		return out, nil

	case KindUpdate:
		if a.ProductID == "" {
			return s, ErrMissingID
		}
		l, ok := s[a.ProductID]
		if !ok {
			return s, ErrNotInCart
		}
		out := s.clone()
		l.Quantity = a.Quantity // 原样覆盖，不做下限修正
		out[a.ProductID] = l
		return out, nil

	case KindRemove:
		if _, ok := s[a.ProductID]; !ok {
			return s, ErrNotInCart
		}
		out := s.clone()
		delete(out, a.ProductID)
		return out, nil

	case KindClear:
		return State{}, nil

	case KindRestore:
		out := make(State, len(a.Lines))
		for _, l := range a.Lines {
			if l.ProductID == "" || l.Quantity < 1 {
				continue
			}
			l.Product = l.Product.Clone()
			out[l.ProductID] = l
		}
		return out, nil
	}
	return s, nil
}
