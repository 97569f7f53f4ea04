package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleydiniz/car-market-app/internal/catalog"
	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/models"
	"github.com/wesleydiniz/car-market-app/internal/ranking"
	"github.com/wesleydiniz/car-market-app/internal/respcache"
	"github.com/wesleydiniz/car-market-app/internal/users"
)

type stubUsers struct {
	user *models.User
	err  error
}

func (s *stubUsers) Find(ctx context.Context, userID int64) (*models.User, error) {
	return s.user, s.err
}

type stubCatalog struct {
	rows  []catalog.Row
	err   error
	calls int
}

func (s *stubCatalog) Search(ctx context.Context, filters models.SearchFilters) ([]catalog.Row, error) {
	s.calls++
	return s.rows, s.err
}

type stubRanking struct {
	entries []models.RankingEntry
}

func (s *stubRanking) GetRanking(ctx context.Context, userID int64) []models.RankingEntry {
	return s.entries
}

type fixture struct {
	service *Service
	mr      *miniredis.Miniredis
	users   *stubUsers
	catalog *stubCatalog
	ranking *stubRanking
}

func makePtr(v float64) *float64 { return &v }

func testUser() *models.User {
	return &models.User{
		ID:                42,
		Email:             "buyer@example.com",
		PreferredPriceMin: makePtr(35000),
		PreferredPriceMax: makePtr(40000),
		PreferredBrandIDs: map[int64]struct{}{10: {}, 11: {}},
	}
}

func setupService(t *testing.T) *fixture {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logger.NewTestLogger(t)

	f := &fixture{
		mr:      mr,
		users:   &stubUsers{user: testUser()},
		catalog: &stubCatalog{},
		ranking: &stubRanking{},
	}
	f.service = NewService(
		f.users,
		f.catalog,
		f.ranking,
		ranking.NewStage(log),
		respcache.New(client, log),
		30*time.Second,
		log,
	)
	return f
}

func TestService_Recommend_ComputedResult(t *testing.T) {
	f := setupService(t)
	f.catalog.rows = []catalog.Row{
		{ID: 1, BrandID: 10, BrandName: "Toyota", Model: "Corolla", Price: 36000},
		{ID: 2, BrandID: 10, BrandName: "Toyota", Model: "Yaris", Price: 20000},
		{ID: 3, BrandID: 12, BrandName: "Ford", Model: "Focus", Price: 25000},
	}
	f.ranking.entries = []models.RankingEntry{
		{CarID: 1, RankScore: 0.9},
		{CarID: 3, RankScore: 0.95},
	}

	filters := models.SearchFilters{UserID: 42, Page: 1}
	result, err := f.service.Recommend(context.Background(), filters)
	require.NoError(t, err)
	assert.False(t, result.Cached)

	var cars []models.RankedCar
	require.NoError(t, json.Unmarshal(result.Payload, &cars))
	require.Len(t, cars, 3)
	assert.Equal(t, int64(1), cars[0].ID)
	assert.Equal(t, int64(2), cars[1].ID)
	assert.Equal(t, int64(3), cars[2].ID)

	// the computed payload ends up in the response cache
	stored, err := f.mr.Get(respcache.Key(filters.Normalized()))
	require.NoError(t, err)
	assert.JSONEq(t, string(result.Payload), stored)
}

func TestService_Recommend_CachedHitSkipsPipeline(t *testing.T) {
	f := setupService(t)
	filters := models.SearchFilters{UserID: 42, Page: 1}
	f.mr.Set(respcache.Key(filters), `[{"id":1,"brand":{"id":10,"name":"Toyota"},"model":"Corolla","price":36000,"rank_score":0.9,"label":"perfect_match"}]`)

	f.users.err = errors.New("user store must not be called on a hit")

	result, err := f.service.Recommend(context.Background(), filters)
	require.NoError(t, err)
	assert.True(t, result.Cached)
	assert.Zero(t, f.catalog.calls)
	assert.Contains(t, string(result.Payload), "Corolla")
}

func TestService_Recommend_UserNotFound(t *testing.T) {
	f := setupService(t)
	f.users.user = nil
	f.users.err = users.ErrUserNotFound

	filters := models.SearchFilters{UserID: 99, Page: 1}
	_, err := f.service.Recommend(context.Background(), filters)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// failed computations never populate the cache
	assert.False(t, f.mr.Exists(respcache.Key(filters)))
}

func TestService_Recommend_UserLookupFailure(t *testing.T) {
	f := setupService(t)
	f.users.user = nil
	f.users.err = users.ErrUserLookupFailed

	_, err := f.service.Recommend(context.Background(), models.SearchFilters{UserID: 42, Page: 1})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_Recommend_EmptyResults(t *testing.T) {
	f := setupService(t)
	f.catalog.rows = nil

	filters := models.SearchFilters{UserID: 42, Page: 1}
	_, err := f.service.Recommend(context.Background(), filters)
	assert.ErrorIs(t, err, ErrCarsNotFound)
	assert.False(t, f.mr.Exists(respcache.Key(filters)))
}

func TestService_Recommend_CatalogFailure(t *testing.T) {
	f := setupService(t)
	f.catalog.err = catalog.ErrCatalogUnavailable

	filters := models.SearchFilters{UserID: 42, Page: 1}
	_, err := f.service.Recommend(context.Background(), filters)
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, f.mr.Exists(respcache.Key(filters)))
}

func TestService_Recommend_PageBelowOneNormalizes(t *testing.T) {
	f := setupService(t)
	f.catalog.rows = []catalog.Row{
		{ID: 1, BrandID: 10, BrandName: "Toyota", Model: "Corolla", Price: 36000},
	}

	result, err := f.service.Recommend(context.Background(), models.SearchFilters{UserID: 42, Page: 0})
	require.NoError(t, err)

	// the normalized page is what keys the cache
	assert.False(t, result.Cached)
	assert.True(t, f.mr.Exists(respcache.Key(models.SearchFilters{UserID: 42, Page: 1})))
}

func TestService_Recommend_SecondCallServedFromCache(t *testing.T) {
	f := setupService(t)
	f.catalog.rows = []catalog.Row{
		{ID: 1, BrandID: 10, BrandName: "Toyota", Model: "Corolla", Price: 36000},
	}

	filters := models.SearchFilters{UserID: 42, Page: 1}
	first, err := f.service.Recommend(context.Background(), filters)
	require.NoError(t, err)
	require.False(t, first.Cached)

	second, err := f.service.Recommend(context.Background(), filters)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Payload, second.Payload)
	assert.Equal(t, 1, f.catalog.calls)
}
