// Package browser drives a headless Chrome instance for the portal scraper.
//
// A Session owns exactly one browser process. It is opened for a single
// lookup, never shared, and must be closed on every exit path; Close is
// idempotent so callers can simply defer it.
package browser

import (
	"context"
	"errors"
)

var (
	// ErrSessionUnavailable means the browser process could not be started
	ErrSessionUnavailable = errors.New("browser session unavailable")
	// ErrElementNotFound means no element matched the selector in time
	ErrElementNotFound = errors.New("element not found")
	// ErrOptionNotFound means a dropdown does not offer the requested label
	ErrOptionNotFound = errors.New("option not found")
	// ErrElementNotInteractable means the element never became visible and enabled
	ErrElementNotInteractable = errors.New("element not interactable")
)

// Session is a live browser tab
type Session interface {
	// Navigate loads url and waits for the load event
	Navigate(ctx context.Context, url string) error
	// WaitPresent waits, bounded by the element timeout, until selector matches
	WaitPresent(ctx context.Context, selector string) error
	// Locate fails with ErrElementNotFound if selector matches nothing right now
	Locate(ctx context.Context, selector string) error
	// Text returns the rendered text of the first match
	Text(ctx context.Context, selector string) (string, error)
	// SelectByText picks the option whose visible text equals label
	SelectByText(ctx context.Context, selector, label string) error
	// SetValue clears the field and types value verbatim
	SetValue(ctx context.Context, selector, value string) error
	// ScrollIntoView scrolls the first match into the viewport
	ScrollIntoView(ctx context.Context, selector string) error
	// ClickWhenReady waits until the element is visible and enabled, then clicks it
	ClickWhenReady(ctx context.Context, selector string) error
	// HTML returns the current page markup
	HTML(ctx context.Context) (string, error)
	// OptionLabels returns the visible text of every option of a dropdown
	OptionLabels(ctx context.Context, selector string) ([]string, error)
	// Close terminates the browser process. Safe to call more than once.
	Close() error
}

// Launcher opens new browser sessions
type Launcher interface {
	Open(ctx context.Context) (Session, error)
}
