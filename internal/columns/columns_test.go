package columns_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tesouro/season-xlsx/internal/columns"
	"tesouro/season-xlsx/internal/models"
)

func TestMapHeaders_ExpenseSheet(t *testing.T) {
	m := columns.MapHeaders([]string{"Data", "Concepto", "Base", "% IVE", "IVE", "Importe", "Pagado"})

	assert.Equal(t, 0, m.Date)
	assert.Equal(t, 1, m.Concept)
	assert.Equal(t, 2, m.Base)
	assert.Equal(t, 3, m.TaxRate)
	assert.Equal(t, 4, m.TaxAmount)
	assert.Equal(t, 5, m.Amount)
	assert.Equal(t, 6, m.PaidDate)
	assert.Equal(t, models.NoColumn, m.PaymentMethod)
	assert.True(t, m.IsUsable())
}

func TestMapHeaders_AccentAndCaseInsensitive(t *testing.T) {
	m := columns.MapHeaders([]string{"FECHA", "Descripción", "TOTAL"})

	assert.Equal(t, 0, m.Date)
	assert.Equal(t, 1, m.Concept)
	assert.Equal(t, 2, m.Amount)
}

func TestMapHeaders_FirstClaimWins(t *testing.T) {
	// Two amount-like headers: only the first claims the amount slot.
	m := columns.MapHeaders([]string{"Concepto", "Importe", "Importe total"})

	assert.Equal(t, 1, m.Amount)
}

func TestMapHeaders_TaxRateNeverClaimsTaxAmount(t *testing.T) {
	m := columns.MapHeaders([]string{"Tipo IVA", "IVA"})

	assert.Equal(t, 0, m.TaxRate)
	assert.Equal(t, 1, m.TaxAmount)
}

func TestLooksLikeHeader(t *testing.T) {
	assert.True(t, columns.LooksLikeHeader([]string{"Fecha", "Concepto", "Total"}))
	assert.True(t, columns.LooksLikeHeader([]string{"", "Data", ""}))
	assert.False(t, columns.LooksLikeHeader([]string{"01/09/2024", "Cuotas", "100"}))
}

func TestDetectHeaderRow_Density(t *testing.T) {
	rows := [][]string{
		{"GASTOS SETEMBRO"},
		{},
		{"Data", "Concepto", "Importe"},
		{"01/09/2024", "Arbitraxe", "120,00"},
	}

	idx, ok := columns.DetectHeaderRow(rows)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestDetectHeaderRow_KeywordFallback(t *testing.T) {
	// Dense rows of numbers never pass the density check; the keyword pass
	// still finds the sparse header.
	rows := [][]string{
		{"", "Concepto", ""},
		{"1", "2", "3"},
	}

	idx, ok := columns.DetectHeaderRow(rows)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestDetectHeaderRow_NotFound(t *testing.T) {
	rows := [][]string{
		{"1", "2", "3"},
		{"4", "5", "6"},
	}

	_, ok := columns.DetectHeaderRow(rows)
	assert.False(t, ok)
}
