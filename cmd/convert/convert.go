// Package convert handles the workbook-to-CSV conversion command
package convert

import (
	"strings"

	"tesouro/season-xlsx/cmd/root"
	"tesouro/season-xlsx/internal/export"
	"tesouro/season-xlsx/internal/models"
	"tesouro/season-xlsx/internal/session"
	"tesouro/season-xlsx/internal/store"
	"tesouro/season-xlsx/internal/workbook"

	"github.com/spf13/cobra"
)

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a season workbook to transaction-draft CSV",
	Long: `Convert a season workbook to transaction-draft CSV: classify sheets,
extract rows, apply stored concept mappings, validate, and write drafts.
Concepts without a stored mapping import under the uncategorized sentinel;
newly assigned mappings are saved back for the next season.`,
	Run: convertFunc,
}

func convertFunc(cmd *cobra.Command, args []string) {
	if root.SharedFlags.Input == "" {
		root.Log.Fatal("No input file specified, use --input")
	}

	logger := root.Logger()
	wb, err := workbook.Open(root.SharedFlags.Input, logger)
	if err != nil {
		root.Log.Fatalf("Error opening workbook: %v", err)
	}

	sess := session.New(wb, logger)
	applyConfig(sess)
	sess.Analyze()
	sess.ProcessSheets()

	mappingStore := store.New(mappingsPath(), logger)
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

	validation := sess.Validate()
	root.Log.Infof("Validated %d rows, %d concepts unmapped",
		validation.TotalRows, len(validation.UnmappedConcepts))
	for _, concept := range validation.UnmappedConcepts {
		root.Log.Infof("Unmapped concept: %q", concept)
	}

	drafts := sess.Materialize()

	output := root.SharedFlags.Output
	if output == "" {
		output = strings.TrimSuffix(root.SharedFlags.Input, ".xlsx") + ".csv"
	}
	if err := export.WriteDraftsToCSV(drafts, output, logger); err != nil {
		root.Log.Fatalf("Error writing CSV: %v", err)
	}

	if !root.SharedFlags.NoSave {
		for _, g := range sess.Groups() {
			if g.CategoryID == "" {
				continue
			}
			stored[g.Key()] = store.ConceptMapping{
				CategoryID: g.CategoryID,
				TeamID:     g.TeamID,
				ProjectID:  g.ProjectID,
			}
		}
		if err := mappingStore.Save(stored); err != nil {
			root.Log.Warnf("Failed to save concept mappings: %v", err)
		}
	}

	root.Log.Infof("Wrote %d transaction drafts to %s", len(drafts), output)
}

// applyConfig pushes CLI flags and file configuration into the session.
func applyConfig(sess *session.Session) {
	if root.SharedFlags.Season != 0 {
		sess.SetSeason(models.SeasonConfig{
			StartYear: root.SharedFlags.Season,
			EndYear:   root.SharedFlags.Season + 1,
		})
	} else if root.AppConfig != nil && root.AppConfig.Import.SeasonStartYear != 0 {
		y := root.AppConfig.Import.SeasonStartYear
		sess.SetSeason(models.SeasonConfig{StartYear: y, EndYear: y + 1})
	}

	if root.AppConfig != nil {
		sess.SetUncategorizedIDs(
			root.AppConfig.Import.UncategorizedExpenseID,
			root.AppConfig.Import.UncategorizedIncomeID,
		)
	}
}

// mappingsPath resolves the concept mappings file from flag or configuration.
func mappingsPath() string {
	if root.SharedFlags.Mappings != "" {
		return root.SharedFlags.Mappings
	}
	if root.AppConfig != nil && root.AppConfig.Store.MappingsFile != "" {
		return root.AppConfig.Store.MappingsFile
	}
	return ""
}
