// Package validate handles the pre-import validation command
package validate

import (
	"fmt"

	"tesouro/season-xlsx/cmd/root"
	"tesouro/season-xlsx/internal/models"
	"tesouro/season-xlsx/internal/session"
	"tesouro/season-xlsx/internal/store"
	"tesouro/season-xlsx/internal/workbook"

	"github.com/spf13/cobra"
)

// Cmd represents the validate command
var Cmd = &cobra.Command{
	Use:   "validate",
	Short: "Report what a conversion would import, without writing anything",
	Long: `Report what a conversion would import: row counts per month block,
concept totals and unmapped concepts. Findings never block an import;
this command exists so the treasurer can review them first.`,
	Run: validateFunc,
}

func validateFunc(cmd *cobra.Command, args []string) {
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
	sess.Analyze()
	sess.ProcessSheets()

	mappingStore := store.New(root.SharedFlags.Mappings, logger)
	stored, err := mappingStore.Load()
	if err != nil {
		root.Log.Fatalf("Error loading concept mappings: %v", err)
	}
	for i, g := range sess.Groups() {
		if m, ok := stored[g.Key()]; ok {
			sess.AssignGroup(i, m.CategoryID, m.TeamID, m.ProjectID)
		}
	}
	sess.ApplyMappings()

	fmt.Printf("Season: %s\n\n", sess.Season().Label())

	fmt.Printf("%-30s %-8s %s\n", "MONTH BLOCK", "TYPE", "ROWS")
	for _, pm := range sess.Months() {
		fmt.Printf("%-30s %-8s %d\n", pm.MonthName, pm.Type, len(pm.Rows))
	}

	fmt.Printf("\n%-40s %-8s %-6s %s\n", "CONCEPT", "TYPE", "COUNT", "TOTAL")
	for _, g := range sess.Groups() {
		fmt.Printf("%-40s %-8s %-6d %s\n", g.Concept, g.Type, g.Count, g.TotalAmount.StringFixed(2))
	}

	validation := sess.Validate()
	fmt.Printf("\nTotal rows: %d\n", validation.TotalRows)
	fmt.Printf("Unmapped concepts: %d\n", len(validation.UnmappedConcepts))
	for _, e := range validation.Errors {
		fmt.Printf("  %s row %d: %s\n", e.Source, e.Row, e.Message)
	}
}
