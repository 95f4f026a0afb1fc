package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/models"
	"github.com/nexconsult/courtcase-api/internal/services"
)

// Version is reported by the health endpoints
var Version = "1.0.0"

// HealthHandler handles health check requests
type HealthHandler struct {
	services    services.HealthReporter
	caseService services.CaseServiceInterface
	logger      *logrus.Logger
	startTime   time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(reporter services.HealthReporter, caseService services.CaseServiceInterface, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		services:    reporter,
		caseService: caseService,
		logger:      logger,
		startTime:   time.Now(),
	}
}

// GetHealth handles general health check
// @Summary Health check
// @Description Get the health status of the API and its dependencies
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *gin.Context) {
	servicesHealth := h.services.Health()

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Services:  make(map[string]models.ServiceInfo),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	for name, health := range servicesHealth {
		healthMap, ok := health.(map[string]interface{})
		if !ok {
			continue
		}
		info := models.ServiceInfo{
			Status:    overallStatus(healthMap),
			LastCheck: time.Now(),
		}
		if errorMsg, ok := healthMap["error"].(string); ok {
			info.Error = errorMsg
		}
		response.Services[name] = info

		switch {
		case info.Status == "unhealthy":
			response.Status = "unhealthy"
		case info.Status == "degraded" && response.Status == "healthy":
			response.Status = "degraded"
		}
	}

	httpStatus := http.StatusOK
	if response.Status == "unhealthy" {
		h.logger.WithField("services", servicesHealth).Warn("Health check failed")
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, response)
}

// GetReadiness handles the readiness check. The API is ready once the case
// catalog has been loaded.
// @Summary Readiness check
// @Description Check if the API is ready to serve lookups
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/ready [get]
func (h *HealthHandler) GetReadiness(c *gin.Context) {
	catalog := h.caseService.Catalog()

	response := gin.H{
		"ready":          catalog.Loaded,
		"catalog_loaded": catalog.Loaded,
		"timestamp":      time.Now(),
	}

	httpStatus := http.StatusOK
	if !catalog.Loaded {
		response["issues"] = []string{"case catalog not loaded"}
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, response)
}

// GetLiveness handles the liveness check
// @Summary Liveness check
// @Description Check if the API is alive and responding
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/live [get]
func (h *HealthHandler) GetLiveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alive":     true,
		"timestamp": time.Now(),
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"version":   Version,
	})
}

// overallStatus reads "status" from a service health map. Maps without one
// (the cache reports redis and memory separately) are degraded when any
// nested part is unhealthy.
func overallStatus(health map[string]interface{}) string {
	if status, ok := health["status"].(string); ok {
		return status
	}

	status := "healthy"
	for _, v := range health {
		nested, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		if nested["status"] == "unhealthy" || nested["status"] == "degraded" {
			status = "degraded"
		}
	}
	return status
}
