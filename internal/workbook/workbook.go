// Package workbook decodes an xlsx file into the in-memory structure the
// rest of the pipeline operates on. The whole file is read once, up front;
// everything downstream is pure computation over this snapshot.
package workbook

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tesouro/season-xlsx/internal/logging"
	"tesouro/season-xlsx/internal/textutils"
)

// Sheet is one named tab, rows in original order, cells as raw strings.
// Raw cell values are used so numbers keep their stored form instead of the
// display format ("1234.56", not "1.234,56 €").
type Sheet struct {
	Name string
	Rows [][]string
}

// DataRowCount counts rows with at least one non-empty cell.
func (s *Sheet) DataRowCount() int {
	n := 0
	for _, row := range s.Rows {
		if len(textutils.NonEmpty(row)) > 0 {
			n++
		}
	}
	return n
}

// Workbook is the decoded input file. Sheet order matches the file; the
// pipeline's first-match heuristics depend on it.
type Workbook struct {
	Sheets []Sheet
}

// Sheet returns the named sheet, if present.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}

// Open decodes the workbook at path.
func Open(path string, logger logging.Logger) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook %s: %w", path, err)
	}
	return decode(f, logger)
}

// Read decodes a workbook from a reader.
func Read(r io.Reader, logger logging.Logger) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error reading workbook: %w", err)
	}
	return decode(f, logger)
}

func decode(f *excelize.File, logger logging.Logger) (*Workbook, error) {
	defer func() {
		if err := f.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close workbook")
		}
	}()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			logger.WithError(err).Warn("Skipping unreadable sheet",
				logging.Field{Key: logging.FieldSheet, Value: name})
			continue
		}
		wb.Sheets = append(wb.Sheets, Sheet{Name: name, Rows: rows})
	}

	logger.Info("Decoded workbook",
		logging.Field{Key: logging.FieldCount, Value: len(wb.Sheets)})
	return wb, nil
}
