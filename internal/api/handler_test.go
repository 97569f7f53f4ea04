package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/models"
	"github.com/wesleydiniz/car-market-app/internal/recommend"
)

type stubRecommender struct {
	filters models.SearchFilters
	result  recommend.Result
	err     error
}

func (s *stubRecommender) Recommend(ctx context.Context, filters models.SearchFilters) (recommend.Result, error) {
	s.filters = filters
	return s.result, s.err
}

func setupTestRouter(stub *stubRecommender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(stub, logger.NewNoOpLogger())
	router.GET("/api/v1/cars/recommended", handler.RecommendedCars)
	router.GET("/health", handler.HealthCheck)
	return router
}

func doGet(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestRecommendedCars_Success(t *testing.T) {
	stub := &stubRecommender{result: recommend.Result{Payload: []byte(`[{"id":1}]`)}}
	router := setupTestRouter(stub)

	w := doGet(router, "/api/v1/cars/recommended?user_id=42&query=toyota&price_min=20000&price_max=40000&page=2")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `[{"id":1}]`, w.Body.String())

	assert.Equal(t, int64(42), stub.filters.UserID)
	assert.Equal(t, "toyota", stub.filters.Query)
	require.NotNil(t, stub.filters.PriceMin)
	assert.Equal(t, 20000.0, *stub.filters.PriceMin)
	require.NotNil(t, stub.filters.PriceMax)
	assert.Equal(t, 40000.0, *stub.filters.PriceMax)
	assert.Equal(t, 2, stub.filters.Page)
}

func TestRecommendedCars_MissingUserID(t *testing.T) {
	router := setupTestRouter(&stubRecommender{})

	w := doGet(router, "/api/v1/cars/recommended")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid query parameters"}`, w.Body.String())
}

func TestRecommendedCars_NegativePriceBound(t *testing.T) {
	router := setupTestRouter(&stubRecommender{})

	w := doGet(router, "/api/v1/cars/recommended?user_id=42&price_min=-5")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendedCars_OptionalFiltersOmitted(t *testing.T) {
	stub := &stubRecommender{result: recommend.Result{Payload: []byte(`[]`)}}
	router := setupTestRouter(stub)

	w := doGet(router, "/api/v1/cars/recommended?user_id=42")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, stub.filters.PriceMin)
	assert.Nil(t, stub.filters.PriceMax)
	assert.Empty(t, stub.filters.Query)
	assert.Zero(t, stub.filters.Page)
}

func TestRecommendedCars_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "user not found",
			err:        recommend.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"User not found"}`,
		},
		{
			name:       "cars not found",
			err:        recommend.ErrCarsNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Cars not found"}`,
		},
		{
			name:       "internal error",
			err:        recommend.ErrInternal,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Could not fetch recommended cars"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter(&stubRecommender{err: tt.err})

			w := doGet(router, "/api/v1/cars/recommended?user_id=42")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestHealthCheck(t *testing.T) {
	router := setupTestRouter(&stubRecommender{})

	w := doGet(router, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"car-market-app"}`, w.Body.String())
}
