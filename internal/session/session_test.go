package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tesouro/season-xlsx/internal/logging"
	"tesouro/season-xlsx/internal/models"
	"tesouro/season-xlsx/internal/session"
	"tesouro/season-xlsx/internal/workbook"
)

// seasonWorkbook builds the shape of a real treasurer workbook: a title row
// above the header on the expense sheet, a sectioned income sheet, and a
// summary tab that must be skipped.
func seasonWorkbook() *workbook.Workbook {
	return &workbook.Workbook{Sheets: []workbook.Sheet{
		{Name: "Xullo 2024", Rows: [][]string{
			{"GASTOS XULLO"},
			{"Data", "Concepto", "Importe"},
			{"02/07/2024", "Arbitraxe", "120,00"},
			{"10/07/2024", "Material", "80,50"},
			{"", "Arbitraxe", "60"},
			{"TOTAL", "", "260,50"},
		}},
		{Name: "Ingresos", Rows: [][]string{
			{"Setembro"},
			{"Data", "Concepto", "Importe"},
			{"01/09/2024", "Cuotas", "100,00"},
			{"", "Patrocinio", "250"},
			{"TOTAL"},
		}},
		{Name: "Resumen", Rows: [][]string{
			{"Total tempada", "1234"},
		}},
	}}
}

func newSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New(seasonWorkbook(), &logging.MockLogger{})
	sess.Analyze()
	sess.ProcessSheets()
	return sess
}

func TestAnalyze(t *testing.T) {
	sess := session.New(seasonWorkbook(), &logging.MockLogger{})
	analyses := sess.Analyze()

	require.Len(t, analyses, 3)
	assert.Equal(t, models.RoleExpenseMonth, analyses[0].Role)
	assert.Equal(t, models.RoleIncome, analyses[1].Role)
	assert.Equal(t, models.RoleSkip, analyses[2].Role)

	assert.Equal(t, "2024/25", sess.Season().Label())
	assert.Equal(t, []string{"Data", "Concepto", "Importe"}, sess.ExpenseHeaders())
}

func TestProcessSheets_BlocksAndOrder(t *testing.T) {
	sess := newSession(t)
	months := sess.Months()

	require.Len(t, months, 2)

	// July sorts before September under season order.
	assert.Equal(t, "Xullo 2024", months[0].MonthName)
	assert.Equal(t, 7, months[0].CalendarMonth)
	assert.Equal(t, 2024, months[0].CalendarYear)
	assert.Equal(t, models.TypeExpense, months[0].Type)
	assert.Len(t, months[0].Rows, 3)

	assert.Equal(t, "Setembro (Ingresos)", months[1].MonthName)
	assert.Equal(t, models.TypeIncome, months[1].Type)
	assert.Len(t, months[1].Rows, 2)

	assert.Equal(t, 5, sess.TotalRows())
}

func TestProcessSheets_GroupsSortedByTotal(t *testing.T) {
	sess := newSession(t)
	groups := sess.Groups()

	require.Len(t, groups, 4)
	assert.Equal(t, "Patrocinio", groups[0].Concept)
	assert.Equal(t, "Arbitraxe", groups[1].Concept)
	assert.Equal(t, 2, groups[1].Count)
	assert.Equal(t, "180", groups[1].TotalAmount.String())
	assert.Equal(t, "90", groups[1].AvgAmount.String())
	assert.Equal(t, "Cuotas", groups[2].Concept)
	assert.Equal(t, "Material", groups[3].Concept)
}

func TestToggleMonth_RebuildsGroupsAndKeepsAssignments(t *testing.T) {
	sess := newSession(t)
	sess.AssignGroup(1, "cat-arb", "team-a", "")

	sess.ToggleMonth(1, false)
	assert.Equal(t, 3, sess.TotalRows())
	require.Len(t, sess.Groups(), 2)

	sess.ToggleMonth(1, true)
	groups := sess.Groups()
	require.Len(t, groups, 4)
	for _, g := range groups {
		if g.Concept == "Arbitraxe" {
			assert.Equal(t, "cat-arb", g.CategoryID)
			assert.Equal(t, "team-a", g.TeamID)
		}
	}
}

func TestApplyMappings_OverwritesCompletely(t *testing.T) {
	sess := newSession(t)

	var arbitraxe int
	for i, g := range sess.Groups() {
		if g.Concept == "Arbitraxe" {
			arbitraxe = i
		}
	}

	sess.AssignGroup(arbitraxe, "cat-1", "team-1", "proj-1")
	sess.ApplyMappings()

	sess.AssignGroup(arbitraxe, "cat-2", "", "")
	sess.ApplyMappings()

	for _, pm := range sess.Months() {
		for _, row := range pm.Rows {
			if row.Concept != "Arbitraxe" {
				assert.Empty(t, row.CategoryID)
				continue
			}
			assert.Equal(t, "cat-2", row.CategoryID)
			assert.Empty(t, row.TeamID)
			assert.Empty(t, row.ProjectID)
		}
	}
}

func TestValidate_ReportsUnmappedConcepts(t *testing.T) {
	sess := newSession(t)
	sess.AssignGroup(1, "cat-arb", "", "") // Arbitraxe
	sess.ApplyMappings()

	v := sess.Validate()
	assert.Equal(t, 5, v.TotalRows)
	assert.Equal(t, 5, v.ValidRows)
	assert.ElementsMatch(t, []string{"Material", "Cuotas", "Patrocinio"}, v.UnmappedConcepts)
	assert.Len(t, v.Errors, 3)
	assert.Equal(t, "categoryId", v.Errors[0].Field)
}

func TestMaterialize(t *testing.T) {
	sess := newSession(t)
	sess.AssignGroup(1, "cat-arb", "team-a", "") // Arbitraxe
	sess.ApplyMappings()

	drafts := sess.Materialize()
	require.Len(t, drafts, 5)

	byDesc := map[string]models.TransactionDraft{}
	for _, d := range drafts {
		byDesc[d.Description] = d
	}

	arb := byDesc["Arbitraxe"]
	assert.Equal(t, "cat-arb", arb.CategoryID)
	assert.Equal(t, "team-a", arb.TeamID)
	assert.Empty(t, arb.CategoryName)
	assert.Equal(t, "2024/25", arb.Season)
	assert.Equal(t, models.PaymentBankTransfer, arb.PaymentMethod)
	assert.Equal(t, sess.ID, arb.ImportID)

	// Unmapped expense falls back to the expense sentinel.
	mat := byDesc["Material"]
	assert.Equal(t, models.UncategorizedExpenseID, mat.CategoryID)
	assert.Equal(t, models.UncategorizedLabel, mat.CategoryName)
	assert.Equal(t, time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC), mat.Date)

	// Unmapped income falls back to the income sentinel.
	cuotas := byDesc["Cuotas"]
	assert.Equal(t, models.UncategorizedIncomeID, cuotas.CategoryID)
	assert.Equal(t, time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), cuotas.Date)

	// Dateless row gets the first of its block's month.
	pat := byDesc["Patrocinio"]
	assert.Equal(t, time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), pat.Date)
}

func TestMaterialize_CustomSentinels(t *testing.T) {
	sess := session.New(seasonWorkbook(), &logging.MockLogger{})
	sess.SetUncategorizedIDs("exp-fallback", "inc-fallback")
	sess.Analyze()
	sess.ProcessSheets()

	drafts := sess.Materialize()
	require.NotEmpty(t, drafts)
	for _, d := range drafts {
		if d.Type == models.TypeExpense {
			assert.Equal(t, "exp-fallback", d.CategoryID)
		} else {
			assert.Equal(t, "inc-fallback", d.CategoryID)
		}
	}
}

func TestSetSeason_OverrideSurvivesReanalysis(t *testing.T) {
	sess := session.New(seasonWorkbook(), &logging.MockLogger{})
	sess.SetSeason(models.SeasonConfig{StartYear: 2023, EndYear: 2024})
	sess.Analyze()

	assert.Equal(t, "2023/24", sess.Season().Label())
}

func TestSetSheetRole_SkippedSheetContributesNothing(t *testing.T) {
	sess := session.New(seasonWorkbook(), &logging.MockLogger{})
	sess.Analyze()
	sess.SetSheetRole(0, models.RoleSkip)
	months := sess.ProcessSheets()

	require.Len(t, months, 1)
	assert.Equal(t, models.TypeIncome, months[0].Type)
}

func TestSheetPreview(t *testing.T) {
	sess := session.New(seasonWorkbook(), &logging.MockLogger{})
	sess.Analyze()

	preview, ok := sess.SheetPreview("Xullo 2024")
	require.True(t, ok)
	assert.Equal(t, []string{"Data", "Concepto", "Importe"}, preview.Headers)
	require.NotEmpty(t, preview.SampleRows)
	assert.Equal(t, []string{"02/07/2024", "Arbitraxe", "120,00"}, preview.SampleRows[0])

	_, ok = sess.SheetPreview("No existe")
	assert.False(t, ok)
}
