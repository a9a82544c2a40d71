// Package income parses the single sectioned income sheet: month titles,
// header rows, data rows and total rows stacked vertically in one tab, in an
// unpredictable repeating sequence. The walk is an explicit finite-state
// machine so the repeating-section behavior stays auditable.
package income

import (
	"fmt"

	"tesouro/season-xlsx/internal/classify"
	"tesouro/season-xlsx/internal/columns"
	"tesouro/season-xlsx/internal/extract"
	"tesouro/season-xlsx/internal/logging"
	"tesouro/season-xlsx/internal/models"
	"tesouro/season-xlsx/internal/textutils"
)

type state int

const (
	seekingMonth state = iota
	seekingHeader
	readingData
)

// Parser walks an income sheet and emits one ParsedMonth per detected
// month section.
type Parser struct {
	season models.SeasonConfig
	logger logging.Logger
}

// New returns a Parser for the given season.
func New(season models.SeasonConfig, logger logging.Logger) *Parser {
	return &Parser{season: season, logger: logger}
}

// section is the block being accumulated between a month title and its
// total row (or the next month title, or end of input).
type section struct {
	month     int
	year      int
	monthName string
	mapping   models.ColumnMapping
	rows      []*models.ParsedRow
}

// Parse walks the sheet rows. Transitions, evaluated per physical row:
//
//  1. a near-empty row whose text is a total marker flushes the current
//     section and returns to month-seeking;
//  2. a near-empty row naming a month flushes any previous section and
//     starts a new one;
//  3. a wider row that looks like a header (while a month is active)
//     becomes the current section's column mapping;
//  4. anything else is data, if a month and header are both active.
//
// A section that never presents a header emits nothing: its rows cannot be
// interpreted, which is a structural failure, not a fatal one.
func (p *Parser) Parse(sheetName string, rows [][]string) []*models.ParsedMonth {
	var (
		st     = seekingMonth
		cur    section
		months []*models.ParsedMonth
	)

	flush := func() {
		if cur.month == 0 {
			return
		}
		if st == seekingHeader {
			p.logger.Warn("Income section has no header row; section skipped",
				logging.Field{Key: logging.FieldSheet, Value: sheetName},
				logging.Field{Key: logging.FieldMonth, Value: cur.monthName})
			return
		}
		if len(cur.rows) == 0 {
			return
		}
		months = append(months, &models.ParsedMonth{
			MonthName:     fmt.Sprintf("%s (Ingresos)", cur.monthName),
			CalendarMonth: cur.month,
			CalendarYear:  cur.year,
			Type:          models.TypeIncome,
			SourceSheet:   sheetName,
			Rows:          cur.rows,
			Enabled:       true,
		})
	}

	for i, rawCells := range rows {
		nonEmpty := textutils.NonEmpty(rawCells)
		if len(nonEmpty) == 0 {
			continue
		}

		// Month titles and total markers occupy a lone cell; before a header
		// has been seen, a stray second cell is tolerated.
		titleCandidate := len(nonEmpty) == 1 ||
			(len(nonEmpty) <= 2 && st != readingData)

		if titleCandidate {
			title := nonEmpty[0]

			if textutils.IsTotalMarker(title) {
				flush()
				cur = section{}
				st = seekingMonth
				continue
			}

			if month, ok := classify.DetectMonth(title); ok {
				flush()
				cur = section{
					month:     month,
					year:      p.season.YearFor(month),
					monthName: title,
				}
				st = seekingHeader
				continue
			}
		}

		if len(nonEmpty) >= 3 && st != seekingMonth && columns.LooksLikeHeader(rawCells) {
			// Overwrites any prior mapping, for this section only.
			cur.mapping = columns.MapHeaders(rawCells)
			st = readingData
			continue
		}

		if st == readingData {
			if row, ok := extract.Row(rawCells, i+1, cur.mapping, models.TypeIncome); ok {
				cur.rows = append(cur.rows, row)
			}
		}
	}

	// A section still open at end of input is flushed like a total row.
	flush()

	p.logger.Info("Parsed income sheet",
		logging.Field{Key: logging.FieldSheet, Value: sheetName},
		logging.Field{Key: logging.FieldCount, Value: len(months)})
	return months
}
