// Package phone normalizes phone numbers to E.164 for SMS delivery.
package phone

import (
	"fmt"
	"strings"
	"unicode"
)

const defaultCountryCode = "+1"

// Normalize converts a raw phone number to E.164. Formatting characters are
// stripped; bare 10-digit numbers get the default country code, 11-digit
// numbers with a leading 1 are treated as US, and numbers already carrying a
// leading + are kept as-is after validation.
func Normalize(raw string) (string, error) {
	return NormalizeWithCountry(raw, defaultCountryCode)
}

// NormalizeWithCountry is Normalize with an explicit country-code prefix,
// e.g. "+44".
func NormalizeWithCountry(raw, countryCode string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty phone number")
	}

	hasPlus := strings.HasPrefix(trimmed, "+")
	digits := stripNonDigits(trimmed)
	if digits == "" {
		return "", fmt.Errorf("phone number %q contains no digits", raw)
	}

	var candidate string
	switch {
	case hasPlus:
		candidate = "+" + digits
	case len(digits) == 10 && countryCode == defaultCountryCode:
		candidate = defaultCountryCode + digits
	case len(digits) == 11 && digits[0] == '1' && countryCode == defaultCountryCode:
		candidate = "+" + digits
	default:
		candidate = countryCode + digits
	}

	if !Valid(candidate) {
		return "", fmt.Errorf("phone number %q is not a valid E.164 number", raw)
	}
	return candidate, nil
}

// Valid reports whether s is a well-formed E.164 number: a leading +, a
// non-zero first digit, and 8 to 15 digits total.
func Valid(s string) bool {
	if !strings.HasPrefix(s, "+") {
		return false
	}
	digits := s[1:]
	if len(digits) < 8 || len(digits) > 15 {
		return false
	}
	if digits[0] == '0' {
		return false
	}
	for _, r := range digits {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
