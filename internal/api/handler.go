package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/models"
	"github.com/wesleydiniz/car-market-app/internal/recommend"
)

// Recommender serves one recommendation request.
type Recommender interface {
	Recommend(ctx context.Context, filters models.SearchFilters) (recommend.Result, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service Recommender
	logger  logger.Logger
}

func NewHandler(service Recommender, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// recommendedCarsQuery binds and validates the inbound filter set. Page is
// accepted as-is; non-positive values behave as page 1 downstream.
type recommendedCarsQuery struct {
	UserID   int64    `form:"user_id" binding:"required"`
	Query    string   `form:"query"`
	PriceMin *float64 `form:"price_min" binding:"omitempty,gte=0"`
	PriceMax *float64 `form:"price_max" binding:"omitempty,gte=0"`
	Page     int      `form:"page"`
}

// RecommendedCars handles GET /api/v1/cars/recommended
func (h *Handler) RecommendedCars(c *gin.Context) {
	var q recommendedCarsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}

	filters := models.SearchFilters{
		UserID:   q.UserID,
		Query:    q.Query,
		PriceMin: q.PriceMin,
		PriceMax: q.PriceMax,
		Page:     q.Page,
	}

	result, err := h.service.Recommend(c.Request.Context(), filters)
	switch {
	case errors.Is(err, recommend.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, recommend.ErrCarsNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Cars not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch recommended cars"})
	default:
		c.Data(http.StatusOK, "application/json", result.Payload)
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "car-market-app",
	})
}
