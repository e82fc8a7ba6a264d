// Package normalize provides canonical forms for user-supplied identifiers.
package normalize

import "strings"

// Email trims surrounding whitespace and lowercases the domain part.
// The local part keeps its casing since mailbox names may be case
// sensitive. Input without an "@" is returned trimmed.
func Email(s string) string {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return s
	}
	return s[:at] + "@" + strings.ToLower(s[at+1:])
}

// Name trims surrounding whitespace and preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}
