package models

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// ValidEmail reports whether email looks like an address. The pattern test
// is case-insensitive; the value itself is never rewritten, and lookups
// compare it byte for byte.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.ToLower(email))
}
