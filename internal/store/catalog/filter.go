package catalog

import (
	"strings"

	"go-storefront/internal/domain"
)

// Filter 商品列表页的筛选条件；零值表示不过滤
type Filter struct {
	Category    string   `form:"category"`
	Subcategory string   `form:"subcategory"`
	Query       string   `form:"q"` // 名称模糊匹配，或条码精确匹配
	MinPrice    *float64 `form:"min_price"`
	MaxPrice    *float64 `form:"max_price"`
}

func Apply(products []domain.Product, f Filter) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Subcategory != "" && p.Subcategory != f.Subcategory {
			continue
		}
		if f.MinPrice != nil && p.Price < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price > *f.MaxPrice {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(p domain.Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	for _, b := range p.Barcodes {
		if strings.ToLower(b) == q {
			return true
		}
	}
	return false
}
