// Package dateutils provides the date parsing and season arithmetic used by
// the import pipeline.
package dateutils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layouts tried by the generic fallback, in order.
const (
	LayoutISO      = "2006-01-02"
	LayoutEuropean = "02/01/2006"
	LayoutFull     = "2006-01-02 15:04:05"
)

var fallbackLayouts = []string{
	LayoutISO,
	LayoutFull,
	LayoutEuropean,
	"02-01-2006",
	"02.01.2006",
	"2.1.2006",
	"2 January 2006",
	"Jan 2, 2006",
}

var (
	isoRe       = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	separatedRe = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2,4})`)
)

// Excel serial day 0 is 1899-12-30 under the 1900 date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// FirstOfMonth returns midnight UTC on the first day of a month.
func FirstOfMonth(month, year int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// ParseCellDate parses a date cell the way the spreadsheets actually write
// them: ISO first, then day/month/year with "/", "-" or "." separators
// (two-digit years are 2000+), then a raw Excel serial number, then a short
// list of generic layouts. Anything unparseable falls back to the first day
// of the block's month.
func ParseCellDate(value string, fallbackMonth, fallbackYear int) time.Time {
	s := strings.TrimSpace(value)
	if s == "" {
		return FirstOfMonth(fallbackMonth, fallbackYear)
	}

	if m := isoRe.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if t, ok := safeDate(year, month, day); ok {
			return t
		}
	}

	if m := separatedRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if t, ok := safeDate(year, month, day); ok {
			return t
		}
	}

	if t, ok := fromExcelSerial(s); ok {
		return t
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return FirstOfMonth(fallbackMonth, fallbackYear)
}

// safeDate builds a date only when the components are a real calendar date.
func safeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1900 || year > 2200 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(t.Month()) != month || t.Day() != day {
		// Normalized away, e.g. 31/02
		return time.Time{}, false
	}
	return t, true
}

// fromExcelSerial converts a raw numeric cell that is plausibly an Excel
// date serial (the raw form xlsx stores dates in). The accepted range covers
// 1954 through 2117, wide enough for any club season and narrow enough not
// to swallow amounts.
func fromExcelSerial(s string) (time.Time, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	if v < 20000 || v > 80000 {
		return time.Time{}, false
	}
	return excelEpoch.AddDate(0, 0, int(v)), true
}

// SeasonStartYear returns the start year of the season containing the given
// month and year: a season runs July through June.
func SeasonStartYear(month, year int) int {
	if month >= 7 {
		return year
	}
	return year - 1
}

// FiscalIndex orders calendar months by season position: July is 0, June 11.
func FiscalIndex(month int) int {
	return (month + 5) % 12
}
