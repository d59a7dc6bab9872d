package backend

import (
	"context"
	"time"

	"go-storefront/internal/core/cache"
	"go-storefront/internal/domain"
)

const (
	keyProducts   = "catalog:products"
	keyCategories = "catalog:categories"
)

// CatalogLister 商品/分类的原始来源
type CatalogLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// CachedCatalog 在 redis 中缓存商品、分类列表；失败结果不缓存
type CachedCatalog struct {
	src   CatalogLister
	cache *cache.Cache
	ttl   time.Duration
}

func NewCachedCatalog(src CatalogLister, c *cache.Cache, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedCatalog{src: src, cache: c, ttl: ttl}
}

func (cc *CachedCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if cc.cache == nil {
		return cc.src.ListProducts(ctx)
	}
	return cache.GetOrLoadJSON(cc.cache, ctx, keyProducts, cc.ttl, cc.src.ListProducts)
}

func (cc *CachedCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if cc.cache == nil {
		return cc.src.ListCategories(ctx)
	}
	return cache.GetOrLoadJSON(cc.cache, ctx, keyCategories, cc.ttl, cc.src.ListCategories)
}

// Invalidate 清掉缓存，下次拉取强制回源
func (cc *CachedCatalog) Invalidate(ctx context.Context) error {
	if cc.cache == nil {
		return nil
	}
	return cc.cache.Invalidate(ctx, keyProducts, keyCategories)
}
