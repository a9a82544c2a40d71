package classify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tesouro/season-xlsx/internal/classify"
	"tesouro/season-xlsx/internal/logging"
	"tesouro/season-xlsx/internal/models"
)

func TestDetectMonth(t *testing.T) {
	tests := []struct {
		input string
		month int
		ok    bool
	}{
		{"Xullo", 7, true},
		{"XULLO", 7, true},
		{"xullo", 7, true},
		{"Xuño", 6, true},
		{"Xaneiro", 1, true},
		{"Septiembre", 9, true},
		{"Gastos Setembro 23", 9, true},
		{"09/24", 9, true},
		{"07-2024", 7, true},
		{"7", 7, true},
		{"Varios", 0, false},
		{"", 0, false},
		{"13/24", 0, false},
	}

	for _, tt := range tests {
		month, ok := classify.DetectMonth(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.Equal(t, tt.month, month, "input %q", tt.input)
		}
	}
}

func TestSheet_RoleOrder(t *testing.T) {
	// Income and skip aliases must win over month detection.
	assert.Equal(t, models.RoleIncome, classify.Sheet("Ingresos").Role)
	assert.Equal(t, models.RoleIncome, classify.Sheet("INGRESOS 2024").Role)
	assert.Equal(t, models.RoleSkip, classify.Sheet("Resumen").Role)
	assert.Equal(t, models.RoleSkip, classify.Sheet("Extraescolares").Role)
	assert.Equal(t, models.RoleExpenseMonth, classify.Sheet("Xullo 2024").Role)
	assert.Equal(t, models.RoleExpenseMonth, classify.Sheet("Febreiro").Role)
	assert.Equal(t, models.RoleUnknown, classify.Sheet("Varios").Role)
}

func TestYearHint(t *testing.T) {
	year, ok := classify.YearHint("Xullo 2024")
	assert.True(t, ok)
	assert.Equal(t, 2024, year)

	year, ok = classify.YearHint("04-23")
	assert.True(t, ok)
	assert.Equal(t, 2023, year)

	// 4-digit year wins over a trailing 2-digit candidate.
	year, ok = classify.YearHint("Setembro 2023-24")
	assert.True(t, ok)
	assert.Equal(t, 2023, year)

	_, ok = classify.YearHint("Xaneiro")
	assert.False(t, ok)
}

func TestResolveSeason_FromSheetNames(t *testing.T) {
	analyses := []models.SheetAnalysis{
		{Name: "Ingresos", Role: models.RoleIncome},
		{Name: "Xullo 2024", Role: models.RoleExpenseMonth},
		{Name: "Xaneiro 2025", Role: models.RoleExpenseMonth},
	}

	season := classify.ResolveSeason(analyses, time.Now(), &logging.MockLogger{})
	assert.Equal(t, 2024, season.StartYear)
	assert.Equal(t, 2025, season.EndYear)
	assert.Equal(t, "2024/25", season.Label())
}

func TestResolveSeason_FallsBackToNow(t *testing.T) {
	analyses := []models.SheetAnalysis{
		{Name: "Xullo", Role: models.RoleExpenseMonth},
	}

	// March 2025 belongs to season 2024/25.
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	season := classify.ResolveSeason(analyses, now, &logging.MockLogger{})
	assert.Equal(t, 2024, season.StartYear)

	// August 2024 also belongs to season 2024/25.
	now = time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)
	season = classify.ResolveSeason(analyses, now, &logging.MockLogger{})
	assert.Equal(t, 2024, season.StartYear)
}
