// Package scraper runs case-status lookups against the court portal: it
// transcribes the CAPTCHA, submits the search form, parses the result table
// and follows the order page to collect document links.
package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nexconsult/courtcase-api/internal/browser"
	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/logger"
	"github.com/nexconsult/courtcase-api/internal/models"
)

// Lookup orchestrates one case lookup per browser session
type Lookup struct {
	launcher browser.Launcher
	portal   config.PortalConfig
	timeout  time.Duration
	logger   *logrus.Logger

	captcha *CaptchaReader
	form    *FormSubmitter
	parser  *Parser
	orders  *OrderCollector
}

// NewLookup wires the lookup pipeline
func NewLookup(launcher browser.Launcher, portal config.PortalConfig, settings config.LookupConfig, logger *logrus.Logger) (*Lookup, error) {
	parser, err := NewParser(portal)
	if err != nil {
		return nil, err
	}

	return &Lookup{
		launcher: launcher,
		portal:   portal,
		timeout:  settings.Timeout,
		logger:   logger,
		captcha:  NewCaptchaReader(portal.CaptchaSelector),
		form:     NewFormSubmitter(portal, settings),
		parser:   parser,
		orders:   NewOrderCollector(parser, settings.OrderSettle, logger),
	}, nil
}

// FetchCase looks query up on the portal. It never returns an error: every
// problem is folded into the outcome. Cancelling ctx does not interrupt a
// lookup in flight; the lookup timeout bounds it instead.
func (l *Lookup) FetchCase(ctx context.Context, query models.CaseQuery) (outcome models.LookupOutcome) {
	start := time.Now()
	log := logger.Component(l.logger, "lookup").WithFields(logrus.Fields{
		"case_type":   query.CaseType,
		"case_number": query.CaseNumber,
		"case_year":   query.CaseYear,
	})

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Lookup panicked")
			outcome = models.Failure(models.ReasonInternal)
		}
		log.WithFields(logrus.Fields{
			"status":   outcome.Status,
			"reason":   outcome.Reason,
			"duration": time.Since(start).String(),
		}).Info("Lookup finished")
	}()

	ctx = context.WithoutCancel(ctx)
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	session, err := l.launcher.Open(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to open browser session")
		return models.Failure(models.ReasonSessionUnavailable)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("Failed to close browser session")
		}
	}()

	record, err := l.searchCase(ctx, session, query)
	if err != nil {
		if IsNotFound(err) {
			log.WithError(err).Info("Case not found")
			return models.NotFound()
		}
		reason := FailureReasonFor(err)
		log.WithError(err).WithField("reason", reason).Warn("Lookup failed")
		return models.Failure(reason)
	}

	if record.OrderPageURL != "" {
		links, err := l.orders.Collect(ctx, session, record.OrderPageURL)
		if err != nil {
			log.WithError(err).Warn("Failed to collect documents")
		}
		record = record.WithDocumentLinks(links)
	}

	// A row holding only a link that leads to no documents carries no answer
	if !record.HasContent() && len(record.DocumentLinks) == 0 {
		log.Info("Case row has no status and no documents")
		return models.NotFound()
	}

	return models.Found(record)
}

// searchCase drives the search form and parses the first result row
func (l *Lookup) searchCase(ctx context.Context, session browser.Session, query models.CaseQuery) (models.CaseStatusRecord, error) {
	searchURL := l.portal.SearchURL()
	if err := session.Navigate(ctx, searchURL); err != nil {
		return models.CaseStatusRecord{}, fmt.Errorf("%w: %w", ErrNavigationFailed, err)
	}
	if err := session.WaitPresent(ctx, l.portal.CaseTypeSelector); err != nil {
		return models.CaseStatusRecord{}, fmt.Errorf("search form not ready: %w", err)
	}

	answer, err := l.captcha.ReadChallenge(ctx, session)
	if err != nil {
		return models.CaseStatusRecord{}, err
	}

	if err := l.form.Submit(ctx, session, query, answer); err != nil {
		return models.CaseStatusRecord{}, err
	}

	markup, err := session.HTML(ctx)
	if err != nil {
		return models.CaseStatusRecord{}, fmt.Errorf("read result page: %w", err)
	}

	return l.parser.ParseResult(markup)
}
