package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// CleanText collapses runs of whitespace (including non-breaking spaces) to a
// single space and trims the result
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// Origin returns scheme://host of an absolute URL
func Origin(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("url %q is not absolute", rawURL)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

// AbsoluteURL resolves href against base. Absolute hrefs are returned
// unchanged; hrefs that cannot be parsed are returned trimmed as-is.
func AbsoluteURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return href
	}
	if base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
