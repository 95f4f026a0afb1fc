package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/models"
	"github.com/nexconsult/courtcase-api/internal/services"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// HistoryHandler serves past successful lookups
type HistoryHandler struct {
	history services.HistoryServiceInterface
	logger  *logrus.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(history services.HistoryServiceInterface, logger *logrus.Logger) *HistoryHandler {
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// List handles the history listing request
// @Summary List past lookups
// @Description List successful lookups, newest first
// @Tags History
// @Produce json
// @Param limit query int false "Maximum entries (default 50, max 500)"
// @Success 200 {object} models.QueryListResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /queries [get]
func (h *HistoryHandler) List(c *gin.Context) {
	requestID := c.GetString("request_id")

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, "Invalid limit", "limit must be a positive integer", "INVALID_LIMIT")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	queries, err := h.history.List(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to list lookup history")

		respondError(c, http.StatusInternalServerError, "Internal server error", "Failed to read lookup history", "HISTORY_ERROR")
		return
	}

	c.JSON(http.StatusOK, models.QueryListResponse{
		Queries: queries,
		Total:   len(queries),
	})
}

// Get handles a single history entry request
// @Summary Get a past lookup
// @Description Get one stored lookup by id
// @Tags History
// @Produce json
// @Param id path int true "Lookup id"
// @Success 200 {object} models.QueryRecord
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /queries/{id} [get]
func (h *HistoryHandler) Get(c *gin.Context) {
	requestID := c.GetString("request_id")

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(c, http.StatusBadRequest, "Invalid id", "id must be a positive integer", "INVALID_ID")
		return
	}

	record, err := h.history.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrQueryNotFound) {
			respondError(c, http.StatusNotFound, "Not found", "No lookup with this id", "QUERY_NOT_FOUND")
			return
		}

		h.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		}).Error("Failed to read lookup history entry")

		respondError(c, http.StatusInternalServerError, "Internal server error", "Failed to read lookup history", "HISTORY_ERROR")
		return
	}

	c.JSON(http.StatusOK, record)
}
