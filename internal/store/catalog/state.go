// Package catalog 商品目录：拉取商品/分类、按名称去重、加载状态与错误
package catalog

import (
	"go-storefront/internal/domain"
	"go-storefront/internal/store/lifecycle"
)

// DefaultFetchError 后端没给出消息时使用
const DefaultFetchError = "Failed to fetch products"

type State struct {
	Products   []domain.Product  `json:"products"`
	Categories []domain.Category `json:"categories"`
	Loading    bool              `json:"loading"`
	Error      *string           `json:"error"`
	Status     lifecycle.Status  `json:"status"`

	seq uint64 // 最近一次拉取的序号，reset 也会推进
}

func Initial() State {
	return State{
		Products:   []domain.Product{},
		Categories: []domain.Category{},
		Status:     lifecycle.Idle,
	}
}

// clone 深拷贝，供快照返回
func (s State) clone() State {
	out := s
	out.Products = make([]domain.Product, len(s.Products))
	for i, p := range s.Products {
		out.Products[i] = p.Clone()
	}
	out.Categories = make([]domain.Category, len(s.Categories))
	for i, c := range s.Categories {
		cc := c
		if c.Subcategories != nil {
			cc.Subcategories = append([]domain.Subcategory(nil), c.Subcategories...)
		}
		out.Categories[i] = cc
	}
	if s.Error != nil {
		e := *s.Error
		out.Error = &e
	}
	return out
}
