package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/services"
)

// CatalogHandler serves the case types and years offered by the portal
type CatalogHandler struct {
	caseService services.CaseServiceInterface
	logger      *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(caseService services.CaseServiceInterface, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		caseService: caseService,
		logger:      logger,
	}
}

// GetCatalog handles the catalog request
// @Summary Get case catalog
// @Description List the case types and years the portal search form offers
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.CatalogResponse
// @Router /catalog [get]
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	h.logger.WithField("request_id", c.GetString("request_id")).Debug("Getting case catalog")

	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, h.caseService.Catalog())
}
