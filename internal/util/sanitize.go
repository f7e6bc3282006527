package util

import (
	"html"
	"strings"
)

// SanitizeInput trims whitespace and escapes HTML/script-like characters.
func SanitizeInput(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// IsLikelyEmail applies the minimal structural check used by the auth flows:
// the address must contain both "@" and ".". Full RFC validation is left to
// the mail provider bouncing the message.
func IsLikelyEmail(s string) bool {
	return strings.Contains(s, "@") && strings.Contains(s, ".")
}
