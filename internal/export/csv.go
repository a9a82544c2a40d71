// Package export writes transaction drafts to CSV, the hand-off format of
// the external persistence layer.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"tesouro/season-xlsx/internal/logging"
	"tesouro/season-xlsx/internal/models"
)

// Delimiter is the CSV output delimiter, configurable via config or the
// CSV_DELIMITER environment variable.
var Delimiter rune = ','

func init() {
	if val := os.Getenv("CSV_DELIMITER"); val != "" {
		SetDelimiter([]rune(val)[0])
	}
}

// SetDelimiter sets the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// WriteDraftsToCSV writes transaction drafts to a CSV file, creating the
// parent directory when needed. Amounts are fixed to 2 decimal places.
func WriteDraftsToCSV(drafts []models.TransactionDraft, csvFile string, logger logging.Logger) error {
	if drafts == nil {
		return fmt.Errorf("cannot write nil drafts to CSV")
	}

	logger.Info("Writing transaction drafts to CSV file",
		logging.Field{Key: logging.FieldOutput, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(drafts)})

	if dir := filepath.Dir(csvFile); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	file, err := os.Create(csvFile) // #nosec G304 -- CLI tool writes user-chosen paths
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close file")
		}
	}()

	for i := range drafts {
		drafts[i].Amount = models.ParseAmount(drafts[i].Amount.StringFixed(2))
		if drafts[i].BaseAmount != nil {
			v := models.ParseAmount(drafts[i].BaseAmount.StringFixed(2))
			drafts[i].BaseAmount = &v
		}
		if drafts[i].TaxAmount != nil {
			v := models.ParseAmount(drafts[i].TaxAmount.StringFixed(2))
			drafts[i].TaxAmount = &v
		}
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(&drafts, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Info("Successfully wrote transaction drafts",
		logging.Field{Key: logging.FieldOutput, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(drafts)})
	return nil
}
