package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wesleydiniz/car-market-app/internal/common/logger"
)

// RecoveryMiddleware converts panics into a generic 500 response.
func RecoveryMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", map[string]interface{}{
					"panic": r,
					"path":  c.Request.URL.Path,
				})
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Could not fetch recommended cars",
				})
			}
		}()
		c.Next()
	}
}

// RequestLogMiddleware logs one line per request.
func RequestLogMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request completed", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"durationMs": time.Since(start).Milliseconds(),
		})
	}
}
