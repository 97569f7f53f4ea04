package ranking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	commonerrors "github.com/wesleydiniz/car-market-app/internal/common/errors"
	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/common/metrics"
	"github.com/wesleydiniz/car-market-app/internal/models"
)

// FetchFunc fetches fresh ranking entries for a user from the origin.
type FetchFunc func(ctx context.Context, userID int64) ([]models.RankingEntry, error)

// TieredCache is a read-through cache with degradation: a short-TTL fresh
// tier backed by a long-TTL stale-fallback tier. GetRanking never fails to
// the caller; it returns best-effort data, possibly empty.
type TieredCache struct {
	rdb      *redis.Client
	fetch    FetchFunc
	shortTTL time.Duration
	longTTL  time.Duration
	logger   logger.Logger
}

func NewTieredCache(rdb *redis.Client, fetch FetchFunc, shortTTL, longTTL time.Duration, log logger.Logger) *TieredCache {
	return &TieredCache{
		rdb:      rdb,
		fetch:    fetch,
		shortTTL: shortTTL,
		longTTL:  longTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "ranking-cache"}),
	}
}

func shortKey(userID int64) string {
	return fmt.Sprintf("rank:%d:short", userID)
}

func longKey(userID int64) string {
	return fmt.Sprintf("rank:%d:long", userID)
}

// GetRanking returns ranking entries for the user. Fresh-tier hit wins;
// otherwise the origin is fetched and both tiers are written. When the
// origin fails, the stale fallback tier is served if present, else an empty
// sequence. Cache backend errors are logged and treated as misses / no-op
// writes, never propagated.
func (c *TieredCache) GetRanking(ctx context.Context, userID int64) []models.RankingEntry {
	if entries, ok := c.readTier(ctx, shortKey(userID)); ok {
		metrics.RankingCacheHits.WithLabelValues("short").Inc()
		return entries
	}
	metrics.RankingCacheMisses.Inc()

	entries, err := c.fetch(ctx, userID)
	if err == nil {
		c.writeTier(ctx, shortKey(userID), entries, c.shortTTL)
		c.writeTier(ctx, longKey(userID), entries, c.longTTL)
		return entries
	}

	metrics.RankingOriginFailures.Inc()
	c.logger.WithError(commonerrors.NewOriginUnavailableError(err)).Warn("origin fetch failed, trying fallback tier", map[string]interface{}{
		"userId": userID,
	})

	if entries, ok := c.readTier(ctx, longKey(userID)); ok {
		metrics.RankingCacheHits.WithLabelValues("fallback").Inc()
		return entries
	}

	return []models.RankingEntry{}
}

func (c *TieredCache) readTier(ctx context.Context, key string) ([]models.RankingEntry, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(commonerrors.NewCacheBackendError("get", key, err)).Warn("ranking cache read failed", nil)
		return nil, false
	}

	var entries []models.RankingEntry
	if err := json.Unmarshal([]byte(val), &entries); err != nil {
		c.logger.WithError(err).Warn("ranking cache entry unparseable, treating as miss", map[string]interface{}{
			"key": key,
		})
		return nil, false
	}

	return entries, true
}

func (c *TieredCache) writeTier(ctx context.Context, key string, entries []models.RankingEntry, ttl time.Duration) {
	data, err := json.Marshal(entries)
	if err != nil {
		c.logger.WithError(err).Warn("ranking cache marshal failed", map[string]interface{}{"key": key})
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WithError(commonerrors.NewCacheBackendError("set", key, err)).Warn("ranking cache write failed", nil)
	}
}
