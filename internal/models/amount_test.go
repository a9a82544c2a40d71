package models_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tesouro/season-xlsx/internal/models"
)

func TestParseAmount_SeparatorConventions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"european thousands and decimal", "1.234,56", "1234.56"},
		{"american thousands and decimal", "1,234.56", "1234.56"},
		{"comma decimal one digit", "1500,5", "1500.5"},
		{"dot decimal", "1500.5", "1500.5"},
		{"comma thousands only", "1,500", "1500"},
		{"comma thousands then comma decimal", "1,234,5", "1234.5"},
		{"plain integer", "200", "200"},
		{"currency symbol and spaces", "€ 1.200,00", "1200"},
		{"negative european", "-45,00", "-45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.ParseAmount(tt.input)
			want := decimal.RequireFromString(tt.want)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestParseAmount_Unparseable(t *testing.T) {
	assert.True(t, models.ParseAmount("").IsZero())
	assert.True(t, models.ParseAmount("   ").IsZero())
	assert.True(t, models.ParseAmount("pendiente").IsZero())
}
