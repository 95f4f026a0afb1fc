package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nexconsult/courtcase-api/internal/browser"
)

// CaptchaReader transcribes the text-echo CAPTCHA shown next to the form.
// The challenge is plain text in the DOM, so no recognition is involved.
type CaptchaReader struct {
	selector string
}

// NewCaptchaReader creates a reader for the challenge element at selector
func NewCaptchaReader(selector string) *CaptchaReader {
	return &CaptchaReader{selector: selector}
}

// ReadChallenge returns the trimmed challenge text
func (r *CaptchaReader) ReadChallenge(ctx context.Context, session browser.Session) (string, error) {
	text, err := session.Text(ctx, r.selector)
	if err != nil {
		if errors.Is(err, browser.ErrElementNotFound) {
			return "", fmt.Errorf("%w: %v", ErrChallengeNotFound, err)
		}
		return "", fmt.Errorf("read captcha: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrChallengeNotFound, r.selector)
	}
	return text, nil
}
