package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "go-storefront/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeTooMany, "too many requests"))
	}
}

// RateLimitPerKey 按 key 分桶限速（会话路由按 sid，公开路由按 IP）。
// idle 内没有请求的桶会被清掉；idle 应不短于桶回满的时间，否则清掉再建会多给令牌。
func RateLimitPerKey(rps rate.Limit, burst int, idle time.Duration, key func(*gin.Context) string) gin.HandlerFunc {
	kl := newKeyedLimiter(rps, burst, idle)
	return func(c *gin.Context) {
		if kl.allow(key(c)) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeTooMany, "too many requests"))
	}
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

type keyedLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	idle      time.Duration
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

func newKeyedLimiter(rps rate.Limit, burst int, idle time.Duration) *keyedLimiter {
	return &keyedLimiter{
		rps:       rps,
		burst:     burst,
		idle:      idle,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (k *keyedLimiter) allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := k.now()
	// 顺带清理，每个 idle 周期最多一次
	if k.idle > 0 && now.Sub(k.lastSweep) >= k.idle {
		k.sweep(now)
	}
	b, ok := k.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(k.rps, k.burst)}
		k.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

func (k *keyedLimiter) sweep(now time.Time) {
	cutoff := now.Add(-k.idle)
	for key, b := range k.buckets {
		if b.seen.Before(cutoff) {
			delete(k.buckets, key)
		}
	}
	k.lastSweep = now
}

func (k *keyedLimiter) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.buckets)
}

// BySessionOrIP 已鉴权时取 sid，否则取客户端 IP
func BySessionOrIP(c *gin.Context) string {
	if sid := c.GetString(KeySID); sid != "" {
		return "sid:" + sid
	}
	return "ip:" + c.ClientIP()
}
