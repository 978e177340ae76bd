package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization.
// Uniqueness checks compare normalized forms; the original casing is
// preserved for display.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
