// Package recommend sequences the recommendation pipeline: response-cache
// lookup, user lookup, ranking fetch-and-merge, catalog query, response-cache
// write.
package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wesleydiniz/car-market-app/internal/catalog"
	commonerrors "github.com/wesleydiniz/car-market-app/internal/common/errors"
	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/common/metrics"
	"github.com/wesleydiniz/car-market-app/internal/models"
	"github.com/wesleydiniz/car-market-app/internal/ranking"
	"github.com/wesleydiniz/car-market-app/internal/respcache"
	"github.com/wesleydiniz/car-market-app/internal/users"
)

var (
	// ErrUserNotFound maps to a 404-equivalent outcome.
	ErrUserNotFound = errors.New("USER_NOT_FOUND")
	// ErrCarsNotFound maps to a 404-equivalent outcome.
	ErrCarsNotFound = errors.New("RESULTS_NOT_FOUND")
	// ErrInternal carries a generic message; the original failure is
	// logged, never exposed.
	ErrInternal = errors.New("INTERNAL_ERROR")
)

// RankingProvider supplies best-effort ranking entries for a user.
type RankingProvider interface {
	GetRanking(ctx context.Context, userID int64) []models.RankingEntry
}

// UserFinder looks up a user with their preferences.
type UserFinder interface {
	Find(ctx context.Context, userID int64) (*models.User, error)
}

// CatalogSearcher returns filtered catalog rows.
type CatalogSearcher interface {
	Search(ctx context.Context, filters models.SearchFilters) ([]catalog.Row, error)
}

// Result is one served response payload.
type Result struct {
	Payload []byte
	Cached  bool
}

type Service struct {
	users   UserFinder
	catalog CatalogSearcher
	ranking RankingProvider
	merge   *ranking.Stage
	cache   *respcache.Cache
	ttl     time.Duration
	logger  logger.Logger
}

func NewService(userStore UserFinder, catalogStore CatalogSearcher, rankingCache RankingProvider, merge *ranking.Stage, cache *respcache.Cache, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		users:   userStore,
		catalog: catalogStore,
		ranking: rankingCache,
		merge:   merge,
		cache:   cache,
		ttl:     ttl,
		logger:  log.WithFields(map[string]interface{}{"component": "recommend"}),
	}
}

// Recommend serves one request: cached payload when the response cache has
// the key, otherwise the full pipeline. Failed and empty computations never
// populate the response cache.
func (s *Service) Recommend(ctx context.Context, filters models.SearchFilters) (Result, error) {
	start := time.Now()
	filters = filters.Normalized()
	key := respcache.Key(filters)

	payload, cached, err := s.cache.Cached(ctx, key, s.ttl, func() ([]byte, error) {
		return s.compute(ctx, filters)
	})
	if err != nil {
		s.observe(start, outcomeFor(err))
		return Result{}, err
	}

	if cached {
		metrics.ResponseCacheHits.Inc()
		s.observe(start, "served_cached")
	} else {
		metrics.ResponseCacheMisses.Inc()
		s.observe(start, "served_computed")
	}

	return Result{Payload: payload, Cached: cached}, nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, ErrCarsNotFound):
		return "cars_not_found"
	default:
		return "internal_error"
	}
}

func (s *Service) compute(ctx context.Context, filters models.SearchFilters) ([]byte, error) {
	user, err := s.users.Find(ctx, filters.UserID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.WithError(commonerrors.NewUserLookupFailedError(err)).Error("user lookup failed", map[string]interface{}{
			"userId": filters.UserID,
		})
		return nil, ErrInternal
	}

	entries := s.ranking.GetRanking(ctx, filters.UserID)

	var results []models.RankedCar
	err = s.merge.WithRanking(ctx, filters.UserID, entries, func(visible map[int64]float64) error {
		rows, err := s.catalog.Search(ctx, filters)
		if err != nil {
			return err
		}
		results = catalog.BuildResult(user, filters, visible, rows)
		return nil
	})
	if err != nil {
		s.logger.WithError(commonerrors.NewCatalogUnavailableError(err)).Error("catalog query failed", map[string]interface{}{
			"userId": filters.UserID,
		})
		return nil, ErrInternal
	}

	if len(results) == 0 {
		return nil, ErrCarsNotFound
	}

	payload, err := json.Marshal(results)
	if err != nil {
		s.logger.WithError(commonerrors.NewInternalError(err)).Error("result marshal failed", nil)
		return nil, ErrInternal
	}

	s.logger.Info("recommendation computed", map[string]interface{}{
		"userId":      filters.UserID,
		"resultCount": len(results),
	})

	return payload, nil
}

func (s *Service) observe(start time.Time, outcome string) {
	metrics.RecommendRequests.WithLabelValues(outcome).Inc()
	metrics.RecommendDuration.Observe(time.Since(start).Seconds())
}
