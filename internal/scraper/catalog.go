package scraper

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/browser"
	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/logger"
	"github.com/nexconsult/courtcase-api/internal/models"
)

// CatalogFetcher reads the case types and years offered by the search form
type CatalogFetcher struct {
	launcher browser.Launcher
	portal   config.PortalConfig
	logger   *logrus.Logger
}

// NewCatalogFetcher creates a catalog fetcher
func NewCatalogFetcher(launcher browser.Launcher, portal config.PortalConfig, logger *logrus.Logger) *CatalogFetcher {
	return &CatalogFetcher{
		launcher: launcher,
		portal:   portal,
		logger:   logger,
	}
}

// FetchCatalog opens its own session, reads both dropdowns and closes it
func (f *CatalogFetcher) FetchCatalog(ctx context.Context) (models.CaseCatalog, error) {
	session, err := f.launcher.Open(ctx)
	if err != nil {
		return models.CaseCatalog{}, err
	}
	defer session.Close()

	if err := session.Navigate(ctx, f.portal.SearchURL()); err != nil {
		return models.CaseCatalog{}, fmt.Errorf("%w: %w", ErrNavigationFailed, err)
	}
	if err := session.WaitPresent(ctx, f.portal.CaseTypeSelector); err != nil {
		return models.CaseCatalog{}, fmt.Errorf("search form not ready: %w", err)
	}

	types, err := session.OptionLabels(ctx, f.portal.CaseTypeSelector)
	if err != nil {
		return models.CaseCatalog{}, fmt.Errorf("read case types: %w", err)
	}
	years, err := session.OptionLabels(ctx, f.portal.CaseYearSelector)
	if err != nil {
		return models.CaseCatalog{}, fmt.Errorf("read case years: %w", err)
	}

	catalog := models.NewCaseCatalog(types, years)
	logger.Component(f.logger, "catalog").WithFields(logrus.Fields{
		"case_types": len(catalog.CaseTypes),
		"case_years": len(catalog.CaseYears),
	}).Info("Case catalog loaded")

	return catalog, nil
}
