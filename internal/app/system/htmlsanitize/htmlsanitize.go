// Package htmlsanitize strips markup from user-supplied free text.
//
// Recipe descriptions are plain text. Clients occasionally paste HTML into
// them, so every description passes through PlainText before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute; the content of script and
// style elements is dropped entirely.
var strict = bluemonday.StrictPolicy()

// PlainText removes all HTML tags from s and returns the remaining text.
// Entities escaped by the policy are decoded again so that ordinary
// punctuation ("Mom's pie & chips") round-trips unchanged.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return s
	}
	return html.UnescapeString(strict.Sanitize(s))
}

// IsPlainText reports whether s contains no tag openers.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<")
}
