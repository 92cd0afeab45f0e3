// Package textnorm canonicalizes text fragments scraped out of HTML and
// provides the absent-safe numeric scan helpers the extraction rules share.
package textnorm

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	intPattern     = regexp.MustCompile(`\d+`)
	floatPattern   = regexp.MustCompile(`\d+\.\d+`)
	horseIDPattern = regexp.MustCompile(`/horse/(\d{10})`)
)

// Normalize canonicalizes HTML-derived text:
//   - Unicode NFKC compatibility normalization (full-width alnum to ASCII)
//   - NBSP and ideographic space to a plain space
//   - whitespace runs collapsed to a single space
//   - leading/trailing whitespace trimmed
//
// It is pure and total; empty input yields "".
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "　", " ")
	return strings.Join(strings.Fields(text), " ")
}

// FirstInt scans text for the first run of digits. Returns 0, false when
// there is none.
func FirstInt(text string) (int, bool) {
	m := intPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	ival, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return ival, true
}

// FirstFloat scans text for the first decimal number. Returns 0, false when
// there is none.
func FirstFloat(text string) (float64, bool) {
	m := floatPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	fval, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return fval, true
}

// HorseID extracts the 10-digit horse identifier from a horse-link href,
// e.g. "https://db.netkeiba.com/horse/2023106850" -> "2023106850".
// Returns "" when the href carries no identifier.
func HorseID(href string) string {
	m := horseIDPattern.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[1]
}
