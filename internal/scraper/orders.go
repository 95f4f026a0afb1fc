package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/browser"
	"github.com/nexconsult/courtcase-api/internal/logger"
)

var errEmptyOrderURL = errors.New("order page url is empty")

// OrderCollector follows a case's order page and gathers its PDF links
type OrderCollector struct {
	parser *Parser
	settle time.Duration
	logger *logrus.Logger
}

// NewOrderCollector creates a collector
func NewOrderCollector(parser *Parser, orderSettle time.Duration, logger *logrus.Logger) *OrderCollector {
	return &OrderCollector{
		parser: parser,
		settle: orderSettle,
		logger: logger,
	}
}

// Collect returns the document links of the order page. Problems reaching or
// reading the page are logged and yield an empty list; only an empty
// orderPageURL is an error.
func (c *OrderCollector) Collect(ctx context.Context, session browser.Session, orderPageURL string) ([]string, error) {
	if orderPageURL == "" {
		return nil, errEmptyOrderURL
	}

	target := c.parser.Absolute(orderPageURL)
	log := logger.Component(c.logger, "orders").WithField("order_page", target)

	if err := session.Navigate(ctx, target); err != nil {
		log.WithError(err).Warn("Failed to open order page")
		return []string{}, nil
	}
	if err := settle(ctx, c.settle); err != nil {
		log.WithError(err).Warn("Order page did not settle")
		return []string{}, nil
	}

	markup, err := session.HTML(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read order page")
		return []string{}, nil
	}

	links, err := c.parser.ParseOrderLinks(markup)
	if err != nil {
		log.WithError(err).Warn("Order page has no results table")
		return []string{}, nil
	}

	log.WithField("documents", len(links)).Debug("Order page collected")
	return links, nil
}
