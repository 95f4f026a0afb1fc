package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/nexconsult/courtcase-api/internal/browser"
	"github.com/nexconsult/courtcase-api/internal/config"
	"github.com/nexconsult/courtcase-api/internal/models"
)

// FormSubmitter fills in and submits the case-status search form
type FormSubmitter struct {
	portal       config.PortalConfig
	scrollSettle time.Duration
	resultSettle time.Duration
}

// NewFormSubmitter creates a submitter for the portal form layout
func NewFormSubmitter(portal config.PortalConfig, lookup config.LookupConfig) *FormSubmitter {
	return &FormSubmitter{
		portal:       portal,
		scrollSettle: lookup.ScrollSettle,
		resultSettle: lookup.ResultSettle,
	}
}

// Submit enters query and the CAPTCHA answer, clicks search and waits for the
// result to render. Values are sent verbatim.
func (f *FormSubmitter) Submit(ctx context.Context, session browser.Session, query models.CaseQuery, answer string) error {
	if err := session.SelectByText(ctx, f.portal.CaseTypeSelector, query.CaseType); err != nil {
		return fmt.Errorf("select case type: %w", err)
	}
	if err := session.SetValue(ctx, f.portal.CaseNumberSelector, query.CaseNumber); err != nil {
		return fmt.Errorf("enter case number: %w", err)
	}
	if err := session.SelectByText(ctx, f.portal.CaseYearSelector, query.CaseYear); err != nil {
		return fmt.Errorf("select case year: %w", err)
	}
	if err := session.SetValue(ctx, f.portal.CaptchaInput, answer); err != nil {
		return fmt.Errorf("enter captcha: %w", err)
	}

	if err := session.ScrollIntoView(ctx, f.portal.SubmitSelector); err != nil {
		return fmt.Errorf("scroll to submit: %w", err)
	}
	if err := settle(ctx, f.scrollSettle); err != nil {
		return err
	}
	if err := session.ClickWhenReady(ctx, f.portal.SubmitSelector); err != nil {
		return fmt.Errorf("click submit: %w", err)
	}

	return settle(ctx, f.resultSettle)
}

// settle waits d for asynchronous rendering, or until ctx ends
func settle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
