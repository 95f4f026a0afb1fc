package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/services"
)

// BrowserHandler reports browser launcher and lookup slot usage
type BrowserHandler struct {
	browserStats services.BrowserStats
	caseService  services.CaseServiceInterface
	logger       *logrus.Logger
}

// NewBrowserHandler creates a new browser handler
func NewBrowserHandler(browserStats services.BrowserStats, caseService services.CaseServiceInterface, logger *logrus.Logger) *BrowserHandler {
	return &BrowserHandler{
		browserStats: browserStats,
		caseService:  caseService,
		logger:       logger,
	}
}

// GetStats handles browser statistics request
// @Summary Get browser statistics
// @Description Get browser launch counters and lookup slot usage
// @Tags Browser
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /browser/stats [get]
func (h *BrowserHandler) GetStats(c *gin.Context) {
	h.logger.WithField("request_id", c.GetString("request_id")).Debug("Getting browser statistics")

	c.JSON(http.StatusOK, gin.H{
		"browser":   h.browserStats.Stats(),
		"lookups":   h.caseService.Stats(),
		"timestamp": time.Now(),
	})
}
