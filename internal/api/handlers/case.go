package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/models"
	"github.com/nexconsult/courtcase-api/internal/services"
)

// CaseHandler handles case lookup requests
type CaseHandler struct {
	caseService services.CaseServiceInterface
	logger      *logrus.Logger
}

// NewCaseHandler creates a new case handler
func NewCaseHandler(caseService services.CaseServiceInterface, logger *logrus.Logger) *CaseHandler {
	return &CaseHandler{
		caseService: caseService,
		logger:      logger,
	}
}

// Lookup handles a single case status lookup
// @Summary Look up a case
// @Description Fetch the current status, parties, listing and order documents of a case from the court portal
// @Tags Cases
// @Accept json
// @Produce json
// @Param request body models.LookupRequest true "Case to look up"
// @Success 200 {object} models.LookupResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.LookupResponse
// @Failure 429 {object} models.ErrorResponse
// @Failure 502 {object} models.LookupResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /cases/lookup [post]
func (h *CaseHandler) Lookup(c *gin.Context) {
	requestID := c.GetString("request_id")

	var request models.LookupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid lookup request format")

		respondError(c, http.StatusBadRequest, "Invalid request format", err.Error(), "INVALID_REQUEST")
		return
	}

	query := request.CaseQuery
	log := h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"case":       query.Key(),
	})
	log.Info("Processing case lookup")

	result, err := h.caseService.Lookup(c.Request.Context(), query)
	if err != nil {
		log.WithError(err).Warn("Case lookup rejected")
		h.respondServiceError(c, err)
		return
	}

	log.WithFields(logrus.Fields{
		"status":      result.Status,
		"reason":      result.Reason,
		"cache":       result.Cache,
		"duration_ms": result.DurationMs,
	}).Info("Case lookup completed")

	if result.Cache {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}

	c.JSON(statusForOutcome(result.Status), result)
}

// Batch handles several case lookups at once
// @Summary Look up several cases
// @Description Fetch up to MAX_BATCH_SIZE cases concurrently; results keep the request order
// @Tags Cases
// @Accept json
// @Produce json
// @Param request body models.BatchLookupRequest true "Cases to look up"
// @Success 200 {object} models.BatchLookupResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /cases/batch [post]
func (h *CaseHandler) Batch(c *gin.Context) {
	requestID := c.GetString("request_id")

	var request models.BatchLookupRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid batch request format")

		respondError(c, http.StatusBadRequest, "Invalid request format", err.Error(), "INVALID_REQUEST")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"queries":    len(request.Queries),
	}).Info("Processing batch case lookup")

	result, err := h.caseService.Batch(c.Request.Context(), request.Queries)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Batch lookup rejected")
		h.respondServiceError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"found":       result.Found,
		"not_found":   result.NotFound,
		"failed":      result.Failed,
		"duration_ms": result.DurationMs,
	}).Info("Batch case lookup completed")

	c.JSON(http.StatusOK, result)
}

func (h *CaseHandler) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidQuery):
		respondError(c, http.StatusBadRequest, "Invalid case query", err.Error(), "INVALID_QUERY")
	case errors.Is(err, services.ErrNotInCatalog):
		respondError(c, http.StatusBadRequest, "Invalid case query", err.Error(), "NOT_IN_CATALOG")
	case errors.Is(err, services.ErrBatchTooLarge):
		respondError(c, http.StatusBadRequest, "Batch too large", err.Error(), "BATCH_TOO_LARGE")
	case errors.Is(err, services.ErrNoSlot):
		respondError(c, http.StatusServiceUnavailable, "Service busy", "All browser slots are in use. Please try again later", "NO_BROWSER_SLOT")
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred while processing your request", "INTERNAL_ERROR")
	}
}

func statusForOutcome(status models.OutcomeStatus) int {
	switch status {
	case models.OutcomeFound:
		return http.StatusOK
	case models.OutcomeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// respondError writes a models.ErrorResponse
func respondError(c *gin.Context, status int, title, message, code string) {
	c.JSON(status, models.ErrorResponse{
		Error:     title,
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
		Path:      c.Request.URL.Path,
	})
}
