// Package validation holds the pure input sanitizers and payload validators
// applied to every untrusted request body before it reaches a service.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	emailDangerous = regexp.MustCompile(`[<>()\[\]{}|\\]`)
)

// SanitizeString stringifies, trims, strips NUL bytes and truncates the
// value to maxLength characters. Truncation counts runes, never splitting a
// multi-byte character. A nil input yields the empty string.
func SanitizeString(value any, maxLength int) string {
	if value == nil {
		return ""
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case float64:
		// JSON numbers decode as float64; render integers without a fraction.
		if v == float64(int64(v)) {
			s = strconv.FormatInt(int64(v), 10)
		} else {
			s = strconv.FormatFloat(v, 'f', -1, 64)
		}
	case bool:
		s = strconv.FormatBool(v)
	default:
		s = fmt.Sprintf("%v", v)
	}

	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\x00", "")

	if utf8.RuneCountInString(s) > maxLength {
		s = string([]rune(s)[:maxLength])
	}
	return s
}

// SanitizeEmail lowercases and strips characters usable for header or markup
// injection. It does not validate the format; see IsValidEmail.
func SanitizeEmail(value any) string {
	s := SanitizeString(value, 255)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	return emailDangerous.ReplaceAllString(s, "")
}

// IsValidEmail reports whether the address matches a simplified RFC 5322
// pattern. Checked at registration only, never at login.
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	return emailPattern.MatchString(email)
}

// SanitizeInteger coerces the value to an integer within [min, max]. The
// bool is false for nil, non-numeric and out-of-range inputs alike; callers
// that need to distinguish "absent" re-check the raw field.
func SanitizeInteger(value any, min, max *int) (int, bool) {
	if value == nil {
		return 0, false
	}

	var num int
	switch v := value.(type) {
	case int:
		num = v
	case int64:
		num = int(v)
	case uint:
		num = int(v)
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		num = int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		num = n
	default:
		return 0, false
	}

	if min != nil && num < *min {
		return 0, false
	}
	if max != nil && num > *max {
		return 0, false
	}
	return num, true
}

// IntPtr is a convenience for building SanitizeInteger bounds.
func IntPtr(v int) *int { return &v }
