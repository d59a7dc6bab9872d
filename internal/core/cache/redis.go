package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Options struct {
	Addr       string
	Password   string
	DB         int
	Prefix     string // key 前缀，多个环境共用一个 redis 时区分
	MaxRetries int
}

type Cache struct {
	RDB    *redis.Client
	prefix string
	sf     singleflight.Group
}

func New(o Options) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{
			Addr:       o.Addr,
			Password:   o.Password,
			DB:         o.DB,
			MaxRetries: o.MaxRetries,
		}),
		prefix: o.Prefix,
	}
}

func (c *Cache) key(k string) string { return c.prefix + k }

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// GetOrLoad 先读缓存；未命中时 single flight 合并回源并回写。
// redis 不可用时直接回源，不影响主流程。
// 回源不跟随发起者的取消：某个调用方超时只让它自己返回，其余等待者照常拿结果。
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	k := c.key(key)
	if b, err := c.RDB.Get(ctx, k).Bytes(); err == nil {
		return b, nil
	}
	ch := c.sf.DoChan(k, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		b, e := load(lctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(lctx, k, b, ttl).Err()
		return b, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]byte), nil
	}
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.RDB.Del(ctx, full...).Err()
}
