// Package session drives one workbook import through its stages: sheet
// classification, season inference, column detection, row extraction,
// concept grouping, mapping application, validation and materialization.
// Between stages the caller may override any detected configuration (sheet
// roles, season, column mappings, month toggles, group assignments) before
// letting the pipeline continue.
package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tesouro/season-xlsx/internal/classify"
	"tesouro/season-xlsx/internal/columns"
	"tesouro/season-xlsx/internal/dateutils"
	"tesouro/season-xlsx/internal/extract"
	"tesouro/season-xlsx/internal/income"
	"tesouro/season-xlsx/internal/logging"
	"tesouro/season-xlsx/internal/models"
	"tesouro/season-xlsx/internal/parsererror"
	"tesouro/season-xlsx/internal/textutils"
	"tesouro/season-xlsx/internal/workbook"
)

// previewSampleRows caps how many data rows SheetPreview returns.
const previewSampleRows = 5

// Session owns the state of one workbook import. It is not safe for
// concurrent use; one session processes exactly one workbook.
type Session struct {
	ID     string
	logger logging.Logger
	wb     *workbook.Workbook

	analyses []models.SheetAnalysis

	season           models.SeasonConfig
	seasonOverridden bool

	expenseColumns  models.ColumnMapping
	incomeColumns   models.ColumnMapping
	expenseOverride bool
	incomeOverride  bool
	expenseHeaders  []string
	incomeHeaders   []string

	months []*models.ParsedMonth
	groups []*models.ConceptGroup

	uncategorizedExpenseID string
	uncategorizedIncomeID  string
}

// New creates a session over a decoded workbook.
func New(wb *workbook.Workbook, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	s := &Session{
		ID:                     uuid.NewString(),
		wb:                     wb,
		expenseColumns:         models.NewColumnMapping(),
		incomeColumns:          models.NewColumnMapping(),
		uncategorizedExpenseID: models.UncategorizedExpenseID,
		uncategorizedIncomeID:  models.UncategorizedIncomeID,
	}
	s.logger = logger.WithField(logging.FieldSession, s.ID)
	return s
}

// SetUncategorizedIDs overrides the sentinel category ids used at
// materialization.
func (s *Session) SetUncategorizedIDs(expenseID, incomeID string) {
	if expenseID != "" {
		s.uncategorizedExpenseID = expenseID
	}
	if incomeID != "" {
		s.uncategorizedIncomeID = incomeID
	}
}

// Analyze classifies every sheet, infers the season and auto-detects the
// expense and income column mappings. It is the first stage of the pipeline
// and may be re-run after role overrides.
func (s *Session) Analyze() []models.SheetAnalysis {
	s.analyses = s.analyses[:0]
	for _, sheet := range s.wb.Sheets {
		a := classify.Sheet(sheet.Name)
		if a.Role != models.RoleSkip {
			a.RowCount = sheet.DataRowCount()
		}
		s.logger.Debug("Classified sheet",
			logging.Field{Key: logging.FieldSheet, Value: a.Name},
			logging.Field{Key: logging.FieldRole, Value: string(a.Role)})
		s.analyses = append(s.analyses, a)
	}

	if !s.seasonOverridden {
		s.season = classify.ResolveSeason(s.analyses, time.Now(), s.logger)
	}

	if !s.expenseOverride {
		s.expenseColumns, s.expenseHeaders = s.detectColumns(models.RoleExpenseMonth)
	}
	if !s.incomeOverride {
		s.incomeColumns, s.incomeHeaders = s.detectColumns(models.RoleIncome)
	}

	s.logger.Info("Analyzed workbook",
		logging.Field{Key: logging.FieldCount, Value: len(s.analyses)},
		logging.Field{Key: logging.FieldSeason, Value: s.season.Label()})
	return s.analyses
}

// detectColumns finds the header row of the first sheet with the given role
// and maps it. Used for the caller-facing configuration surface; the actual
// extraction re-detects per sheet, since conventions drift between months.
func (s *Session) detectColumns(role models.SheetRole) (models.ColumnMapping, []string) {
	for _, a := range s.analyses {
		if a.Role != role {
			continue
		}
		sheet, ok := s.wb.Sheet(a.Name)
		if !ok {
			continue
		}
		idx, found := columns.DetectHeaderRow(sheet.Rows)
		if !found {
			continue
		}
		return columns.MapHeaders(sheet.Rows[idx]), textutils.NonEmpty(sheet.Rows[idx])
	}
	return models.NewColumnMapping(), nil
}

// Analyses returns the current per-sheet classification.
func (s *Session) Analyses() []models.SheetAnalysis {
	return s.analyses
}

// SetSheetRole overrides the detected role of one sheet.
func (s *Session) SetSheetRole(index int, role models.SheetRole) {
	if index < 0 || index >= len(s.analyses) {
		return
	}
	s.analyses[index].Role = role
}

// Season returns the resolved season.
func (s *Session) Season() models.SeasonConfig {
	return s.season
}

// SetSeason overrides the resolved season; the override survives re-analysis.
func (s *Session) SetSeason(cfg models.SeasonConfig) {
	s.season = cfg
	s.seasonOverridden = true
}

// ExpenseColumns returns the expense-sheet column mapping.
func (s *Session) ExpenseColumns() models.ColumnMapping { return s.expenseColumns }

// IncomeColumns returns the income-sheet column mapping.
func (s *Session) IncomeColumns() models.ColumnMapping { return s.incomeColumns }

// SetExpenseColumns overrides the expense mapping for every expense sheet.
func (s *Session) SetExpenseColumns(m models.ColumnMapping) {
	s.expenseColumns = m
	s.expenseOverride = true
}

// SetIncomeColumns overrides the income mapping. Section headers on the
// income sheet still win for their own section.
func (s *Session) SetIncomeColumns(m models.ColumnMapping) {
	s.incomeColumns = m
	s.incomeOverride = true
}

// ExpenseHeaders returns the detected expense header cells, for display.
func (s *Session) ExpenseHeaders() []string { return s.expenseHeaders }

// IncomeHeaders returns the detected income header cells, for display.
func (s *Session) IncomeHeaders() []string { return s.incomeHeaders }

// SheetPreview returns the detected header and a few sample rows of one
// sheet, for callers debugging a misdetected layout.
func (s *Session) SheetPreview(name string) (*models.SheetPreview, bool) {
	sheet, ok := s.wb.Sheet(name)
	if !ok {
		return nil, false
	}

	preview := &models.SheetPreview{SheetName: name}
	start := 0
	if idx, found := columns.DetectHeaderRow(sheet.Rows); found {
		preview.Headers = textutils.NonEmpty(sheet.Rows[idx])
		start = idx + 1
	}
	for ri := start; ri < len(sheet.Rows) && len(preview.SampleRows) < previewSampleRows; ri++ {
		if cells := textutils.NonEmpty(sheet.Rows[ri]); len(cells) > 0 {
			preview.SampleRows = append(preview.SampleRows, cells)
		}
	}
	return preview, true
}

// ProcessSheets extracts every classified sheet into ParsedMonth blocks:
// one block per expense-month sheet, one per income-sheet section. Blocks
// are season-ordered (July first), expenses before income within the same
// calendar month, and concept groups are rebuilt from the result.
func (s *Session) ProcessSheets() []*models.ParsedMonth {
	s.months = nil

	for _, a := range s.analyses {
		if a.Role == models.RoleExpenseMonth {
			s.processExpenseSheet(a)
		}
	}

	incomeParser := income.New(s.season, s.logger)
	for _, a := range s.analyses {
		if a.Role != models.RoleIncome {
			continue
		}
		sheet, ok := s.wb.Sheet(a.Name)
		if !ok {
			continue
		}
		s.months = append(s.months, incomeParser.Parse(a.Name, sheet.Rows)...)
	}

	sort.SliceStable(s.months, func(i, j int) bool {
		oi := dateutils.FiscalIndex(s.months[i].CalendarMonth)
		oj := dateutils.FiscalIndex(s.months[j].CalendarMonth)
		if oi != oj {
			return oi < oj
		}
		return s.months[i].Type == models.TypeExpense && s.months[j].Type == models.TypeIncome
	})

	s.buildGroups()

	s.logger.Info("Processed sheets",
		logging.Field{Key: logging.FieldCount, Value: len(s.months)})
	return s.months
}

func (s *Session) processExpenseSheet(a models.SheetAnalysis) {
	month, ok := classify.DetectMonth(a.Name)
	if !ok {
		s.logger.Warn("Expense sheet name has no detectable month; sheet skipped",
			logging.Field{Key: logging.FieldSheet, Value: a.Name})
		return
	}

	year := s.season.YearFor(month)
	if hint, found := classify.YearHint(a.Name); found {
		year = hint
	}

	sheet, ok := s.wb.Sheet(a.Name)
	if !ok {
		return
	}

	headerIdx, found := columns.DetectHeaderRow(sheet.Rows)
	if !found {
		scanned := len(sheet.Rows)
		if scanned > columns.MaxHeaderScanRows {
			scanned = columns.MaxHeaderScanRows
		}
		err := &parsererror.HeaderNotFoundError{Sheet: a.Name, RowsScanned: scanned}
		s.logger.WithError(err).Warn("Sheet contributes no rows")
		return
	}

	mapping := columns.MapHeaders(sheet.Rows[headerIdx])
	if s.expenseOverride {
		mapping = s.expenseColumns
	}
	if !mapping.IsUsable() {
		err := &parsererror.SheetFormatError{
			Sheet:  a.Name,
			Role:   string(models.RoleExpenseMonth),
			Reason: "no concept or amount column found",
		}
		s.logger.WithError(err).Warn("Sheet contributes no rows")
		return
	}

	var rows []*models.ParsedRow
	for ri := headerIdx + 1; ri < len(sheet.Rows); ri++ {
		if row, extracted := extract.Row(sheet.Rows[ri], ri+1, mapping, models.TypeExpense); extracted {
			rows = append(rows, row)
		}
	}

	s.logger.Debug("Extracted expense sheet",
		logging.Field{Key: logging.FieldSheet, Value: a.Name},
		logging.Field{Key: logging.FieldMonth, Value: month},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})

	if len(rows) == 0 {
		return
	}

	s.months = append(s.months, &models.ParsedMonth{
		MonthName:     a.Name,
		CalendarMonth: month,
		CalendarYear:  year,
		Type:          models.TypeExpense,
		SourceSheet:   a.Name,
		Rows:          rows,
		Enabled:       true,
	})
}

// Months returns the current month blocks.
func (s *Session) Months() []*models.ParsedMonth {
	return s.months
}

// ToggleMonth enables or disables one block and rebuilds the concept groups
// so they reflect only active data.
func (s *Session) ToggleMonth(index int, enabled bool) {
	if index < 0 || index >= len(s.months) {
		return
	}
	s.months[index].Enabled = enabled
	s.buildGroups()
}

// buildGroups rebuilds the concept groups from every enabled block.
// Assignments already made on a group survive a rebuild as long as the
// group key is still present.
func (s *Session) buildGroups() {
	kept := make(map[string]*models.ConceptGroup, len(s.groups))
	for _, g := range s.groups {
		kept[g.Key()] = g
	}

	groupMap := map[string]*models.ConceptGroup{}
	var order []string

	for _, pm := range s.months {
		if !pm.Enabled {
			continue
		}
		for _, row := range pm.Rows {
			key := models.GroupKey(row.Type, row.Concept)
			g, ok := groupMap[key]
			if !ok {
				g = &models.ConceptGroup{Concept: row.Concept, Type: row.Type}
				if prev, had := kept[key]; had {
					g.CategoryID = prev.CategoryID
					g.TeamID = prev.TeamID
					g.ProjectID = prev.ProjectID
				}
				groupMap[key] = g
				order = append(order, key)
			}
			g.Count++
			g.TotalAmount = g.TotalAmount.Add(row.Amount)
			g.AvgAmount = g.TotalAmount.DivRound(decimal.NewFromInt(int64(g.Count)), 4)
			if len(g.SampleRows) < models.MaxSampleRows {
				g.SampleRows = append(g.SampleRows, row)
			}
		}
	}

	s.groups = s.groups[:0]
	for _, key := range order {
		s.groups = append(s.groups, groupMap[key])
	}
	sort.SliceStable(s.groups, func(i, j int) bool {
		cmp := s.groups[i].TotalAmount.Cmp(s.groups[j].TotalAmount)
		if cmp != 0 {
			return cmp > 0
		}
		return s.groups[i].Key() < s.groups[j].Key()
	})
}

// Groups returns the concept groups, largest total first.
func (s *Session) Groups() []*models.ConceptGroup {
	return s.groups
}

// AssignGroup sets the shared category/team/project assignment of one group.
func (s *Session) AssignGroup(index int, categoryID, teamID, projectID string) {
	if index < 0 || index >= len(s.groups) {
		return
	}
	g := s.groups[index]
	g.CategoryID = categoryID
	g.TeamID = teamID
	g.ProjectID = projectID
}

// ApplyMappings copies every group's assignments onto its underlying rows,
// in every block, enabled or not. Re-running fully overwrites earlier
// assignments; partial assignments are never merged.
func (s *Session) ApplyMappings() {
	byKey := make(map[string]*models.ConceptGroup, len(s.groups))
	for _, g := range s.groups {
		byKey[g.Key()] = g
	}

	for _, pm := range s.months {
		for _, row := range pm.Rows {
			g, ok := byKey[models.GroupKey(row.Type, row.Concept)]
			if !ok {
				continue
			}
			row.CategoryID = g.CategoryID
			row.TeamID = g.TeamID
			row.ProjectID = g.ProjectID
		}
	}
}

// Validate reports on the enabled rows. Every row is structurally valid;
// a missing category is a finding, never a blocker.
func (s *Session) Validate() models.ImportValidation {
	v := models.ImportValidation{}
	seen := map[string]bool{}

	for _, pm := range s.months {
		if !pm.Enabled {
			continue
		}
		for _, row := range pm.Rows {
			v.TotalRows++
			v.ValidRows++
			if row.CategoryID != "" {
				continue
			}
			if !seen[row.Concept] {
				seen[row.Concept] = true
				v.UnmappedConcepts = append(v.UnmappedConcepts, row.Concept)
			}
			v.Errors = append(v.Errors, models.ImportError{
				Source:  pm.MonthName,
				Row:     row.RowNumber,
				Field:   "categoryId",
				Message: fmt.Sprintf("%q has no category; will import as %q", row.Concept, models.UncategorizedLabel),
			})
		}
	}

	return v
}

// Materialize turns every enabled row into a transaction draft. Nothing is
// dropped here; all filtering happened during extraction.
func (s *Session) Materialize() []models.TransactionDraft {
	seasonLabel := s.season.Label()
	var drafts []models.TransactionDraft

	for _, pm := range s.months {
		if !pm.Enabled {
			continue
		}
		for _, row := range pm.Rows {
			date := dateutils.ParseCellDate(row.Date, pm.CalendarMonth, pm.CalendarYear)

			var paidDate *time.Time
			if row.PaidDate != "" && textutils.LooksLikeDate(row.PaidDate) {
				t := dateutils.ParseCellDate(row.PaidDate, pm.CalendarMonth, pm.CalendarYear)
				paidDate = &t
			}

			categoryID := row.CategoryID
			categoryName := ""
			if categoryID == "" {
				if row.Type == models.TypeIncome {
					categoryID = s.uncategorizedIncomeID
				} else {
					categoryID = s.uncategorizedExpenseID
				}
				categoryName = models.UncategorizedLabel
			}

			drafts = append(drafts, models.TransactionDraft{
				Type:          row.Type,
				Amount:        row.Amount,
				Description:   row.Concept,
				CategoryID:    categoryID,
				CategoryName:  categoryName,
				Season:        seasonLabel,
				Date:          date,
				PaidDate:      paidDate,
				PaymentMethod: models.NormalizePaymentMethod(row.PaymentMethod),
				BaseAmount:    row.Base,
				TaxAmount:     row.TaxAmount,
				TeamID:        row.TeamID,
				ProjectID:     row.ProjectID,
				ImportID:      s.ID,
			})
		}
	}

	s.logger.Info("Materialized transaction drafts",
		logging.Field{Key: logging.FieldCount, Value: len(drafts)})
	return drafts
}

// TotalRows counts the rows of every enabled block.
func (s *Session) TotalRows() int {
	total := 0
	for _, pm := range s.months {
		if pm.Enabled {
			total += len(pm.Rows)
		}
	}
	return total
}
