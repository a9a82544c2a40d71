// Package extract turns one raw sheet row into a normalized ParsedRow.
// It is the shared primitive of the expense sheets and the sectioned income
// parser.
package extract

import (
	"strings"

	"github.com/shopspring/decimal"

	"tesouro/season-xlsx/internal/models"
	"tesouro/season-xlsx/internal/textutils"
)

// Row extracts a transaction candidate from a row of raw cell values using
// the given column mapping. It returns false for rows that are not
// transactions: empty concept, a "total" line, a zero amount, or a mapping
// missing its concept/amount columns. The amount is always stored as its
// absolute value; sheet sign conventions are never trusted.
func Row(cells []string, rowNumber int, mapping models.ColumnMapping, txType models.TransactionType) (*models.ParsedRow, bool) {
	if !mapping.IsUsable() {
		return nil, false
	}

	concept := strings.TrimSpace(cellAt(cells, mapping.Concept))
	if concept == "" {
		return nil, false
	}
	if textutils.IsTotalMarker(concept) {
		return nil, false
	}

	amount := models.ParseAmount(cellAt(cells, mapping.Amount))
	if amount.IsZero() {
		return nil, false
	}

	return &models.ParsedRow{
		RowNumber:     rowNumber,
		Date:          strings.TrimSpace(cellAt(cells, mapping.Date)),
		Concept:       concept,
		Amount:        amount.Abs(),
		Base:          optionalAmount(cells, mapping.Base),
		TaxRate:       optionalAmount(cells, mapping.TaxRate),
		TaxAmount:     optionalAmount(cells, mapping.TaxAmount),
		PaymentMethod: strings.TrimSpace(cellAt(cells, mapping.PaymentMethod)),
		PaidDate:      strings.TrimSpace(cellAt(cells, mapping.PaidDate)),
		DueDate:       strings.TrimSpace(cellAt(cells, mapping.DueDate)),
		Reference:     strings.TrimSpace(cellAt(cells, mapping.Reference)),
		InvoiceNumber: strings.TrimSpace(cellAt(cells, mapping.InvoiceNumber)),
		Notes:         strings.TrimSpace(cellAt(cells, mapping.Notes)),
		Type:          txType,
	}, true
}

// cellAt returns the cell at idx, tolerating short rows and unmapped fields.
func cellAt(cells []string, idx int) string {
	if idx == models.NoColumn || idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// optionalAmount parses a secondary numeric field. Zero and unparseable
// both mean "absent" for these columns.
func optionalAmount(cells []string, idx int) *decimal.Decimal {
	v := cellAt(cells, idx)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	d := models.ParseAmount(v)
	if d.IsZero() {
		return nil
	}
	return &d
}
