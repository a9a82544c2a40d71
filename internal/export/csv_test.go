package export_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tesouro/season-xlsx/internal/export"
	"tesouro/season-xlsx/internal/logging"
	"tesouro/season-xlsx/internal/models"
)

func sampleDrafts() []models.TransactionDraft {
	return []models.TransactionDraft{
		{
			Type:          models.TypeExpense,
			Amount:        models.ParseAmount("120,50"),
			Description:   "Arbitraxe",
			CategoryID:    "cat-arb",
			Season:        "2024/25",
			Date:          time.Date(2024, time.July, 2, 0, 0, 0, 0, time.UTC),
			PaymentMethod: models.PaymentBankTransfer,
			ImportID:      "import-1",
		},
		{
			Type:          models.TypeIncome,
			Amount:        models.ParseAmount("100"),
			Description:   "Cuotas",
			CategoryID:    models.UncategorizedIncomeID,
			CategoryName:  models.UncategorizedLabel,
			Season:        "2024/25",
			Date:          time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC),
			PaymentMethod: models.PaymentOther,
			ImportID:      "import-1",
		},
	}
}

func TestWriteDraftsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "drafts.csv")

	err := export.WriteDraftsToCSV(sampleDrafts(), path, &logging.MockLogger{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3)

	assert.Contains(t, lines[0], "Type")
	assert.Contains(t, lines[0], "Description")
	assert.Contains(t, content, "Arbitraxe")
	assert.Contains(t, content, "120.5")
	assert.Contains(t, content, "2024/25")
	assert.Contains(t, content, models.UncategorizedIncomeID)
}

func TestWriteDraftsToCSV_NilDrafts(t *testing.T) {
	err := export.WriteDraftsToCSV(nil, filepath.Join(t.TempDir(), "x.csv"), &logging.MockLogger{})
	assert.Error(t, err)
}

func TestWriteDraftsToCSV_EmptySlice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	err := export.WriteDraftsToCSV([]models.TransactionDraft{}, path, &logging.MockLogger{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Type")
}
