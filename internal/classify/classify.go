// Package classify labels workbook sheets and infers the season they cover.
// Everything here is an ordered rule list: first match wins, so new aliases
// or locales are added by appending a rule, never by nesting conditions.
package classify

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"tesouro/season-xlsx/internal/dateutils"
	"tesouro/season-xlsx/internal/logging"
	"tesouro/season-xlsx/internal/models"
	"tesouro/season-xlsx/internal/textutils"
)

// monthAliases pairs normalized month vocabulary with calendar months.
// Galician and Spanish full names come first, short forms after, so "marzo"
// is matched as a whole word before "mar" gets a chance. Order is the
// tie-breaker; keep it deterministic.
var monthAliases = []struct {
	alias string
	month int
}{
	// Galician
	{"xaneiro", 1}, {"febreiro", 2}, {"marzo", 3}, {"abril", 4},
	{"maio", 5}, {"xuno", 6}, {"xullo", 7}, {"agosto", 8},
	{"setembro", 9}, {"outubro", 10}, {"novembro", 11}, {"decembro", 12},
	// Spanish
	{"enero", 1}, {"febrero", 2}, {"mayo", 5}, {"junio", 6},
	{"julio", 7}, {"septiembre", 9}, {"octubre", 10}, {"noviembre", 11},
	{"diciembre", 12},
	// Short forms
	{"xan", 1}, {"feb", 2}, {"mar", 3}, {"abr", 4}, {"mai", 5},
	{"xun", 6}, {"xul", 7}, {"ago", 8}, {"set", 9}, {"sep", 9},
	{"out", 10}, {"oct", 10}, {"nov", 11}, {"dec", 12}, {"dic", 12},
	{"ene", 1}, {"jun", 6}, {"jul", 7},
}

var (
	incomeAliases = []string{"ingresos", "income", "cobros"}
	skipAliases   = []string{"extraescolares", "extra", "resumen", "total",
		"totales", "summary", "grafico", "chart", "hoja"}
)

var (
	numericMonthRe = regexp.MustCompile(`^(\d{1,2})[/\-](\d{2,4})$`)
	bareNumberRe   = regexp.MustCompile(`^(\d{1,2})$`)
	year4Re        = regexp.MustCompile(`(\d{4})`)
	year2Re        = regexp.MustCompile(`\d{1,2}[/\-](\d{2})$`)
)

// DetectMonth resolves a sheet name or title cell to a calendar month.
// Three strategies, in order: named months (accent- and case-insensitive),
// numeric "MM-YY"/"MM/YYYY" forms, and a bare 1-12.
func DetectMonth(name string) (int, bool) {
	norm := textutils.Normalize(name)
	if norm == "" {
		return 0, false
	}

	for _, ma := range monthAliases {
		if strings.Contains(norm, ma.alias) {
			return ma.month, true
		}
	}

	if m := numericMonthRe.FindStringSubmatch(norm); m != nil {
		if month, _ := strconv.Atoi(m[1]); month >= 1 && month <= 12 {
			return month, true
		}
	}

	if m := bareNumberRe.FindStringSubmatch(norm); m != nil {
		if month, _ := strconv.Atoi(m[1]); month >= 1 && month <= 12 {
			return month, true
		}
	}

	return 0, false
}

// Sheet classifies a sheet by name. Income and skip aliases are checked
// before month detection so a tab literally named "Resumen" is never taken
// for a month sheet.
func Sheet(name string) models.SheetAnalysis {
	norm := textutils.Normalize(name)

	for _, alias := range incomeAliases {
		if strings.Contains(norm, alias) {
			return models.SheetAnalysis{Name: name, Role: models.RoleIncome}
		}
	}

	for _, alias := range skipAliases {
		if strings.Contains(norm, alias) {
			return models.SheetAnalysis{Name: name, Role: models.RoleSkip}
		}
	}

	if _, ok := DetectMonth(name); ok {
		return models.SheetAnalysis{Name: name, Role: models.RoleExpenseMonth, MonthName: name}
	}

	return models.SheetAnalysis{Name: name, Role: models.RoleUnknown}
}

// YearHint extracts a year embedded in a sheet name: a 4-digit year anywhere
// wins over a trailing 2-digit year after a separator ("04-23" means 2023).
func YearHint(name string) (int, bool) {
	if m := year4Re.FindStringSubmatch(name); m != nil {
		year, _ := strconv.Atoi(m[1])
		return year, true
	}
	if m := year2Re.FindStringSubmatch(name); m != nil {
		year, _ := strconv.Atoi(m[1])
		return 2000 + year, true
	}
	return 0, false
}

// ResolveSeason infers the season from the expense-month sheets: the first
// sheet carrying both a detectable month and a year hint decides. Later
// sheets that disagree are logged, not reconciled. Without any usable hint
// the season containing now is used, under the same July-boundary rule.
func ResolveSeason(analyses []models.SheetAnalysis, now time.Time, logger logging.Logger) models.SeasonConfig {
	var season *models.SeasonConfig

	for _, a := range analyses {
		if a.Role != models.RoleExpenseMonth {
			continue
		}
		month, ok := DetectMonth(a.Name)
		if !ok {
			continue
		}
		year, ok := YearHint(a.Name)
		if !ok {
			continue
		}
		start := dateutils.SeasonStartYear(month, year)
		if season == nil {
			season = &models.SeasonConfig{StartYear: start, EndYear: start + 1}
			logger.Debug("Season inferred from sheet name",
				logging.Field{Key: logging.FieldSheet, Value: a.Name},
				logging.Field{Key: logging.FieldSeason, Value: season.Label()})
			continue
		}
		if start != season.StartYear {
			logger.Warn("Sheet name disagrees with inferred season; keeping first match",
				logging.Field{Key: logging.FieldSheet, Value: a.Name},
				logging.Field{Key: logging.FieldSeason, Value: season.Label()})
		}
	}

	if season != nil {
		return *season
	}

	start := dateutils.SeasonStartYear(int(now.Month()), now.Year())
	fallback := models.SeasonConfig{StartYear: start, EndYear: start + 1}
	logger.Debug("No year hint on any month sheet; defaulting to current season",
		logging.Field{Key: logging.FieldSeason, Value: fallback.Label()})
	return fallback
}
