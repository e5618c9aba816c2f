package http

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation constants
const (
	MaxSlugLength    = 64
	MaxSessionLength = 128
	MaxMessageLength = 4000
	MaxConfigLength  = 50000 // persona / knowledge-base text
)

var slugPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidSlug checks an identifier (tenant IDs, usernames).
func ValidSlug(s string) bool {
	return s != "" && len(s) <= MaxSlugLength && slugPattern.MatchString(s)
}

// ValidSessionID checks a widget-generated session identifier.
func ValidSessionID(s string) bool {
	return s != "" && len(s) <= MaxSessionLength && slugPattern.MatchString(s)
}

// SanitizeString removes null bytes and invalid UTF-8.
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// TruncateString safely truncates a string to max length.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
