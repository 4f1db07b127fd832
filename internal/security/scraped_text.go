package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ScrapedTextSanitizer strips markup from text lifted out of the portal
// pages before it is stored. The job column in particular is free-form text
// under the portal operator's control and later lands in an HTML dashboard.
type ScrapedTextSanitizer interface {
	// Sanitize removes all HTML from raw and trims surrounding whitespace.
	// Idempotent; empty input yields empty output.
	Sanitize(raw string) string
}

type scrapedTextSanitizer struct {
	policy *bluemonday.Policy
}

// NewScrapedTextSanitizer returns a sanitizer with the strict
// strip-everything policy.
func NewScrapedTextSanitizer() *scrapedTextSanitizer {
	return &scrapedTextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize implements ScrapedTextSanitizer.
func (s *scrapedTextSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
