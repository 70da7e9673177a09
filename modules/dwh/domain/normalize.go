package domain

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanString collapses internal whitespace runs to a single space and trims.
// All natural keys and dedup-key components pass through here so that rows
// differing only in formatting compare equal.
func CleanString(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

func NormalizeUpper(s string) string {
	return strings.ToUpper(CleanString(s))
}

var dateKeyRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)

// DateKey converts an ISO-ish date or datetime string to an int key of the
// form YYYYMMDD. Returns 0 when the value does not start with a date.
func DateKey(s string) int {
	m := dateKeyRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}
	key := 0
	for _, part := range []string{m[1], m[2], m[3]} {
		for _, c := range part {
			key = key*10 + int(c-'0')
		}
	}
	return key
}

// ParseBool interprets the boolean spellings seen in source documents.
// Unrecognized values map to nil rather than false.
func ParseBool(s string) *bool {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "true", "1", "y", "yes":
		b := true
		return &b
	case "false", "0", "n", "no":
		b := false
		return &b
	}
	return nil
}
