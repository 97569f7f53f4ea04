// Package respcache caches fully computed, filter-keyed response payloads.
package respcache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	commonerrors "github.com/wesleydiniz/car-market-app/internal/common/errors"
	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/models"
)

// Key derives the cache key from the full normalized filter set. Every
// component is rendered even when absent, in a fixed field order, so key
// generation is reproducible and stable across calls.
func Key(f models.SearchFilters) string {
	return fmt.Sprintf("cars:user(%d):query(%s):price_min(%s):price_max(%s):page(%d):",
		f.UserID, f.Query, formatBound(f.PriceMin), formatBound(f.PriceMax), f.Page)
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Cache stores serialized response payloads in Redis with a short TTL.
type Cache struct {
	rdb    *redis.Client
	logger logger.Logger
}

func New(rdb *redis.Client, log logger.Logger) *Cache {
	return &Cache{
		rdb:    rdb,
		logger: log.WithFields(map[string]interface{}{"component": "response-cache"}),
	}
}

// Get returns the stored payload verbatim. A backend error is logged and
// reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(commonerrors.NewCacheBackendError("get", key, err)).Warn("response cache read failed", nil)
		return nil, false
	}
	return val, true
}

// Set stores payload best-effort; a backend error is logged and swallowed.
func (c *Cache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.logger.WithError(commonerrors.NewCacheBackendError("set", key, err)).Warn("response cache write failed", nil)
	}
}

// Cached returns the stored payload on hit without invoking compute. On
// miss it runs compute, stores the result with ttl (best-effort) and
// returns it. A compute error propagates unchanged and nothing is stored,
// so failed or empty computations never populate the cache.
func (c *Cache) Cached(ctx context.Context, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	if payload, ok := c.Get(ctx, key); ok {
		return payload, true, nil
	}

	payload, err := compute()
	if err != nil {
		return nil, false, err
	}

	c.Set(ctx, key, payload, ttl)
	return payload, false, nil
}
