package scraper

import (
	"context"
	"errors"

	"github.com/nexconsult/courtcase-api/internal/browser"
	"github.com/nexconsult/courtcase-api/internal/models"
)

var (
	// ErrChallengeNotFound means the CAPTCHA text could not be read from the form
	ErrChallengeNotFound = errors.New("captcha challenge not found")
	// ErrNoResultsTable means the result page has no result table
	ErrNoResultsTable = errors.New("results table not found")
	// ErrNoRows means the result table holds no case row
	ErrNoRows = errors.New("results table has no rows")
	// ErrNavigationFailed means a page could not be loaded
	ErrNavigationFailed = errors.New("navigation failed")
)

// IsNotFound reports errors that mean the portal has nothing for the query.
// A wrong CAPTCHA answer produces the same page as a missing case.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoResultsTable) || errors.Is(err, ErrNoRows)
}

// FailureReasonFor maps a pipeline error onto the reason reported to callers
func FailureReasonFor(err error) models.FailureReason {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return models.ReasonTimeout
	case errors.Is(err, browser.ErrSessionUnavailable):
		return models.ReasonSessionUnavailable
	case errors.Is(err, ErrChallengeNotFound):
		return models.ReasonCaptchaUnavailable
	case errors.Is(err, browser.ErrOptionNotFound):
		return models.ReasonInvalidOption
	case errors.Is(err, browser.ErrElementNotInteractable):
		return models.ReasonElementNotInteractable
	case errors.Is(err, browser.ErrElementNotFound):
		return models.ReasonElementNotFound
	case errors.Is(err, ErrNavigationFailed):
		return models.ReasonNavigationFailed
	default:
		return models.ReasonInternal
	}
}
