// Package analyze handles the workbook inspection command
package analyze

import (
	"fmt"

	"tesouro/season-xlsx/cmd/root"
	"tesouro/season-xlsx/internal/models"
	"tesouro/season-xlsx/internal/session"
	"tesouro/season-xlsx/internal/workbook"

	"github.com/spf13/cobra"
)

var previewSheet string

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify the sheets of a season workbook",
	Long: `Classify every sheet of a season workbook (expense month, income,
skip or unknown), infer the season, and show the detected column headers
without extracting anything.`,
	Run: analyzeFunc,
}

func init() {
	Cmd.Flags().StringVar(&previewSheet, "preview", "", "Also print the detected header and sample rows of one sheet")
}

func analyzeFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" {
		root.Log.Fatal("No input file specified, use --input")
	}

	logger := root.Logger()
	wb, err := workbook.Open(root.SharedFlags.Input, logger)
	if err != nil {
		root.Log.Fatalf("Error opening workbook: %v", err)
	}

	sess := session.New(wb, logger)
	if root.SharedFlags.Season != 0 {
		sess.SetSeason(models.SeasonConfig{
			StartYear: root.SharedFlags.Season,
			EndYear:   root.SharedFlags.Season + 1,
		})
	}
	analyses := sess.Analyze()

	fmt.Printf("Season: %s\n\n", sess.Season().Label())
	fmt.Printf("%-30s %-15s %s\n", "SHEET", "ROLE", "ROWS")
	for _, a := range analyses {
		fmt.Printf("%-30s %-15s %d\n", a.Name, a.Role, a.RowCount)
	}

	if headers := sess.ExpenseHeaders(); len(headers) > 0 {
		fmt.Printf("\nExpense headers: %v\n", headers)
	}
	if headers := sess.IncomeHeaders(); len(headers) > 0 {
		fmt.Printf("Income headers:  %v\n", headers)
	}

	if previewSheet != "" {
		preview, ok := sess.SheetPreview(previewSheet)
		if !ok {
			root.Log.Fatalf("No such sheet: %s", previewSheet)
		}
		fmt.Printf("\nPreview of %q\n", preview.SheetName)
		fmt.Printf("Headers: %v\n", preview.Headers)
		for _, row := range preview.SampleRows {
			fmt.Printf("  %v\n", row)
		}
	}
}
