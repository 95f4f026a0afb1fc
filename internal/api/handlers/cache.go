package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/services"
)

// CacheHandler handles cache management requests
type CacheHandler struct {
	cacheService services.CacheServiceInterface
	logger       *logrus.Logger
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(cacheService services.CacheServiceInterface, logger *logrus.Logger) *CacheHandler {
	return &CacheHandler{
		cacheService: cacheService,
		logger:       logger,
	}
}

// GetStats handles cache statistics request
// @Summary Get cache statistics
// @Description Get outcome cache statistics
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /cache/stats [get]
func (h *CacheHandler) GetStats(c *gin.Context) {
	h.logger.WithField("request_id", c.GetString("request_id")).Debug("Getting cache statistics")

	c.JSON(http.StatusOK, gin.H{
		"stats":     h.cacheService.GetStats(c.Request.Context()),
		"health":    h.cacheService.Health(),
		"timestamp": time.Now(),
	})
}

// Clear handles cache clear request
// @Summary Clear the outcome cache
// @Description Drop every cached lookup outcome
// @Tags Cache
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} models.ErrorResponse
// @Router /cache [delete]
func (h *CacheHandler) Clear(c *gin.Context) {
	requestID := c.GetString("request_id")

	removed, err := h.cacheService.Clear(c.Request.Context())
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to clear cache")

		respondError(c, http.StatusInternalServerError, "Internal server error", "Failed to clear cache", "CACHE_CLEAR_ERROR")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"removed":    removed,
	}).Info("Cache cleared successfully")

	c.JSON(http.StatusOK, gin.H{
		"message":   "Cache cleared successfully",
		"removed":   removed,
		"timestamp": time.Now(),
		"success":   true,
	})
}
