// Package textutils provides the text normalization helpers shared by every
// detection heuristic in the import pipeline.
package textutils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks and recomposes,
// so "Xuño" and "xuno" compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	dateSeparatedRe = regexp.MustCompile(`\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`)
	dateISORe       = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// Normalize lowercases a cell or sheet name, strips diacritics and trims
// surrounding whitespace. All keyword matching in the pipeline operates on
// normalized text.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	lowered := strings.ToLower(s)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// Fall back to the lowered input; matching degrades but never fails.
		stripped = lowered
	}
	return strings.TrimSpace(stripped)
}

// IsTotalMarker reports whether a cell is a totals line ("TOTAL", "Totais",
// "total ingresos"...). Total rows are layout artifacts, never data.
func IsTotalMarker(s string) bool {
	return strings.HasPrefix(Normalize(s), "total")
}

// LooksLikeDate reports whether a string resembles a separated or ISO date.
func LooksLikeDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return dateSeparatedRe.MatchString(s) || dateISORe.MatchString(s)
}

// IsNumeric reports whether a string parses as a plain float.
func IsNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// NonEmpty returns the trimmed non-empty cells of a row.
func NonEmpty(cells []string) []string {
	var out []string
	for _, c := range cells {
		if t := strings.TrimSpace(c); t != "" {
			out = append(out, t)
		}
	}
	return out
}
