package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"go-storefront/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	res, err := c.do(ctx, http.MethodGet, c.paths.Products, nil)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if r := res.Get("products"); res.IsObject() && r.IsArray() {
		res = r
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("list products: %w", ErrNotList)
	}
	items := res.Array()
	out := make([]domain.Product, 0, len(items))
	for _, it := range items {
		out = append(out, parseProduct(it))
	}
	return out, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	res, err := c.do(ctx, http.MethodGet, c.paths.Categories, nil)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if r := res.Get("categories"); res.IsObject() && r.IsArray() {
		res = r
	}
	if !res.IsArray() {
		return nil, fmt.Errorf("list categories: %w", ErrNotList)
	}
	items := res.Array()
	out := make([]domain.Category, 0, len(items))
	for _, it := range items {
		cat := domain.Category{
			ID:   first(it, "id", "_id").String(),
			Name: it.Get("name").String(),
		}
		for _, sc := range it.Get("subcategories").Array() {
			cat.Subcategories = append(cat.Subcategories, domain.Subcategory{
				ID:   first(sc, "id", "_id").String(),
				Name: sc.Get("name").String(),
			})
		}
		out = append(out, cat)
	}
	return out, nil
}

// parseProduct 兼容 image/images、barcode/barcodes、category 为 id 或对象等写法
func parseProduct(r gjson.Result) domain.Product {
	p := domain.Product{
		ID:          domain.ProductID(first(r, "id", "_id").String()),
		Name:        r.Get("name").String(),
		Price:       r.Get("price").Float(),
		Category:    ref(r.Get("category")),
		Subcategory: ref(r.Get("subcategory")),
		Images:      stringList(first(r, "images", "image")),
		Barcodes:    stringList(first(r, "barcodes", "barcode")),
	}
	if p.Price < 0 {
		p.Price = 0
	}
	return p
}
