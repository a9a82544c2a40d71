// Package columns locates header rows on messy sheets and maps header cells
// to the semantic fields of a transaction row. Field matching is an ordered
// rule list evaluated per header cell: the first rule that matches an
// unassigned field claims the cell, and each field is assigned at most once.
package columns

import (
	"strings"

	"tesouro/season-xlsx/internal/models"
	"tesouro/season-xlsx/internal/textutils"
)

// MaxHeaderScanRows bounds how deep the header search looks. Treasurer
// sheets put titles and blank padding above the header, but never this much.
const MaxHeaderScanRows = 15

// headerKeywords is the vocabulary the keyword fallback and the income
// sheet's header guard look for.
var headerKeywords = []string{
	"concepto", "importe", "base", "data", "fecha", "total", "cobrado",
}

// fieldRule pairs a target field selector with its header predicate.
type fieldRule struct {
	target func(*models.ColumnMapping) *int
	match  func(h string) bool
}

// mappingRules, in priority order. Tax amount deliberately rejects headers
// that also mention the rate ("tipo", "%") so a percentage column never
// claims the currency slot.
var mappingRules = []fieldRule{
	{
		target: func(m *models.ColumnMapping) *int { return &m.Date },
		match: func(h string) bool {
			return strings.Contains(h, "data") || h == "fecha" || h == "date"
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.Concept },
		match: func(h string) bool {
			return strings.Contains(h, "concepto") ||
				strings.Contains(h, "descripcion") ||
				strings.Contains(h, "detalle")
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.Base },
		match: func(h string) bool {
			return h == "base" ||
				strings.Contains(h, "base imponible") ||
				strings.Contains(h, "base imp")
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.TaxRate },
		match: func(h string) bool {
			return strings.Contains(h, "tipo iva") ||
				strings.Contains(h, "tipo ive") ||
				strings.Contains(h, "% iva") ||
				strings.Contains(h, "% ive")
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.TaxAmount },
		match: func(h string) bool {
			if strings.Contains(h, "tipo") || strings.Contains(h, "%") {
				return false
			}
			return strings.Contains(h, "ive") || strings.Contains(h, "iva")
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.Amount },
		match: func(h string) bool {
			return strings.Contains(h, "importe") || h == "total" ||
				strings.Contains(h, "import")
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.PaidDate },
		match: func(h string) bool {
			return strings.Contains(h, "pagado") ||
				strings.Contains(h, "cobrado") ||
				strings.Contains(h, "fecha pago") ||
				strings.Contains(h, "fecha cobro")
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.PaymentMethod },
		match: func(h string) bool {
			return strings.Contains(h, "forma") ||
				strings.Contains(h, "f.") ||
				strings.Contains(h, "metodo")
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.DueDate },
		match: func(h string) bool {
			return strings.Contains(h, "vencimiento") || strings.Contains(h, "vto")
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.Reference },
		match: func(h string) bool {
			return strings.Contains(h, "referencia") || strings.Contains(h, "ref")
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.InvoiceNumber },
		match: func(h string) bool {
			return strings.Contains(h, "factura") ||
				strings.Contains(h, "nº") ||
				strings.Contains(h, "numero")
		},
	},
	{
		target: func(m *models.ColumnMapping) *int { return &m.Notes },
		match: func(h string) bool {
			return strings.Contains(h, "nota") ||
				strings.Contains(h, "observ") ||
				strings.Contains(h, "comentario")
		},
	},
}

// MapHeaders maps a header row's cells to semantic fields.
func MapHeaders(cells []string) models.ColumnMapping {
	mapping := models.NewColumnMapping()
	for i, cell := range cells {
		h := textutils.Normalize(cell)
		if h == "" {
			continue
		}
		for _, rule := range mappingRules {
			target := rule.target(&mapping)
			if *target != models.NoColumn || !rule.match(h) {
				continue
			}
			*target = i
			break
		}
	}
	return mapping
}

// LooksLikeHeader reports whether a row's cells contain any header keyword.
// The sectioned income parser uses this to tell a section header from data.
func LooksLikeHeader(cells []string) bool {
	for _, cell := range cells {
		h := textutils.Normalize(cell)
		for _, kw := range headerKeywords {
			if strings.Contains(h, kw) {
				return true
			}
		}
	}
	return false
}

// DetectHeaderRow finds the header row within the first MaxHeaderScanRows
// rows of a sheet. Two strategies, in order:
//
//  1. Density: the first row with at least 3 non-empty cells of which at
//     least 2 are neither numeric nor date-like.
//  2. Keyword: the first row whose joined text contains a header keyword.
//
// Returns the row index, or false when the sheet has no recognizable header.
func DetectHeaderRow(rows [][]string) (int, bool) {
	limit := len(rows)
	if limit > MaxHeaderScanRows {
		limit = MaxHeaderScanRows
	}

	for i := 0; i < limit; i++ {
		nonEmpty := textutils.NonEmpty(rows[i])
		if len(nonEmpty) < 3 {
			continue
		}
		textCells := 0
		for _, c := range nonEmpty {
			if !textutils.IsNumeric(c) && !textutils.LooksLikeDate(c) {
				textCells++
			}
		}
		if textCells >= 2 {
			return i, true
		}
	}

	for i := 0; i < limit; i++ {
		joined := textutils.Normalize(strings.Join(rows[i], " "))
		for _, kw := range headerKeywords {
			if strings.Contains(joined, kw) {
				return i, true
			}
		}
	}

	return 0, false
}
