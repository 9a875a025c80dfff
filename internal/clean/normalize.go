// Package clean provides the field normalizers used by the transform stage.
// All functions are total: invalid input yields a sentinel value, never an
// error.
package clean

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r) // Mn: nonspacing marks
}

// StripDiacritics folds accented characters to their base form.
func StripDiacritics(value string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, value)
	return result
}

// NormalizePhone standardizes a raw phone value to +CC-NNNNNNNNNN using the
// given country calling code. An empty result means the value is missing, not
// that an error occurred.
func NormalizePhone(raw, countryCode string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case len(d) == 10:
		return "+" + countryCode + "-" + d
	case len(d) == 10+len(countryCode) && strings.HasPrefix(d, countryCode):
		return "+" + countryCode + "-" + d[len(d)-10:]
	case len(d) > 10:
		return "+" + countryCode + "-" + d[len(d)-10:]
	}
	return ""
}

// TitleCase trims, folds accents, and capitalizes the first letter of each
// word. Empty input stays empty.
func TitleCase(raw string) string {
	s := strings.TrimSpace(StripDiacritics(raw))
	if s == "" {
		return ""
	}
	// A Caser carries state, so it is not shared between calls.
	return cases.Title(language.Und).String(strings.ToLower(s))
}

// dateFormats are tried in priority order. The order is a compatibility
// contract: values like "12-30-2025" with day <= 12 are ambiguous between the
// day-first and month-first patterns, and the first matching pattern wins.
var dateFormats = []string{
	"2006-01-02",
	"02-01-2006",
	"02/01/2006",
	"01-02-2006",
	"01/02/2006",
}

// fallbackFormats catch common shapes outside the priority list, with
// month-before-day variants ahead of anything ambiguous.
var fallbackFormats = []string{
	"2006/01/02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseISODate converts a raw date value to an ISO-8601 date string.
// Unparseable input yields the empty string.
func ParseISODate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, f := range dateFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	for _, f := range fallbackFormats {
		if t, err := time.Parse(f, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

// ToFixedDecimal parses a raw value as a number and formats it with exactly
// two decimal places. ok is false when the value does not parse.
func ToFixedDecimal(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%.2f", v), true
}

// ToInt parses a raw value as a number truncated to an integer, returning def
// on blank or unparseable input.
func ToInt(raw string, def int) int {
	if n, ok := AsInt(raw); ok {
		return n
	}
	return def
}

// AsInt reports whether a raw value parses as a number, and its truncated
// integer value. Numbers with a fractional part are truncated, matching the
// lenient integer handling of the raw extracts ("3.0" is a valid quantity).
func AsInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}
