// Package models provides the data structures used throughout the import
// pipeline.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
// The sign of an amount is always carried here, never in the value itself.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// SheetRole is the detected role of a workbook sheet.
type SheetRole string

const (
	RoleExpenseMonth SheetRole = "expense_month"
	RoleIncome       SheetRole = "income"
	RoleSkip         SheetRole = "skip"
	RoleUnknown      SheetRole = "unknown"
)

// SheetAnalysis is the per-sheet classification result. Role may be
// overridden by the caller before processing.
type SheetAnalysis struct {
	Name      string
	Role      SheetRole
	MonthName string
	RowCount  int
}

// SeasonConfig is the two-calendar-year span of a club season
// (July of StartYear through June of EndYear).
type SeasonConfig struct {
	StartYear int
	EndYear   int
}

// Label renders the season the way treasurers write it, e.g. "2024/25".
func (s SeasonConfig) Label() string {
	return fmt.Sprintf("%d/%02d", s.StartYear, s.EndYear%100)
}

// YearFor returns the calendar year a month falls in within this season.
func (s SeasonConfig) YearFor(month int) int {
	if month >= 7 {
		return s.StartYear
	}
	return s.EndYear
}

// NoColumn marks an unmapped semantic field in a ColumnMapping.
const NoColumn = -1

// ColumnMapping maps each semantic field to a column index on its sheet.
// Two independent instances exist per import, one for expense sheets and one
// for the income sheet, because the two kinds can use different header
// conventions.
type ColumnMapping struct {
	Date          int
	Concept       int
	Amount        int
	Base          int
	TaxRate       int
	TaxAmount     int
	PaymentMethod int
	PaidDate      int
	DueDate       int
	Reference     int
	InvoiceNumber int
	Notes         int
}

// NewColumnMapping returns a mapping with every field unmapped.
func NewColumnMapping() ColumnMapping {
	return ColumnMapping{
		Date:          NoColumn,
		Concept:       NoColumn,
		Amount:        NoColumn,
		Base:          NoColumn,
		TaxRate:       NoColumn,
		TaxAmount:     NoColumn,
		PaymentMethod: NoColumn,
		PaidDate:      NoColumn,
		DueDate:       NoColumn,
		Reference:     NoColumn,
		InvoiceNumber: NoColumn,
		Notes:         NoColumn,
	}
}

// IsUsable reports whether the mapping can produce rows at all.
// Concept and amount are the two fields extraction cannot work without.
func (m ColumnMapping) IsUsable() bool {
	return m.Concept != NoColumn && m.Amount != NoColumn
}

// ParsedRow is one transaction candidate extracted from a sheet.
// The assignment fields are empty until the mapping applicator copies the
// concept group's assignments onto the row.
type ParsedRow struct {
	RowNumber     int
	Date          string
	Concept       string
	Amount        decimal.Decimal
	Base          *decimal.Decimal
	TaxRate       *decimal.Decimal
	TaxAmount     *decimal.Decimal
	PaymentMethod string
	PaidDate      string
	DueDate       string
	Reference     string
	InvoiceNumber string
	Notes         string
	Type          TransactionType
	CategoryID    string
	TeamID        string
	ProjectID     string
}

// ParsedMonth is a block of rows sharing a source sheet or section, a
// calendar month/year and a type. The caller can disable a block to exclude
// it from groups, validation and materialization without discarding it.
type ParsedMonth struct {
	MonthName     string
	CalendarMonth int
	CalendarYear  int
	Type          TransactionType
	SourceSheet   string
	Rows          []*ParsedRow
	Enabled       bool
}

// MaxSampleRows is how many rows a concept group retains for display.
const MaxSampleRows = 3

// ConceptGroup aggregates every enabled row sharing (type, normalized
// concept). It is the unit of bulk categorization: one decision per distinct
// concept instead of one per row.
type ConceptGroup struct {
	Concept     string
	Type        TransactionType
	Count       int
	TotalAmount decimal.Decimal
	AvgAmount   decimal.Decimal
	CategoryID  string
	TeamID      string
	ProjectID   string
	SampleRows  []*ParsedRow
}

// GroupKey builds the identity key of a concept class across the workbook.
func GroupKey(t TransactionType, concept string) string {
	return string(t) + "::" + strings.ToLower(strings.TrimSpace(concept))
}

// Key returns the group's identity key.
func (g *ConceptGroup) Key() string {
	return GroupKey(g.Type, g.Concept)
}

// ImportError is a soft validation finding. Findings never block an import.
type ImportError struct {
	Source  string
	Row     int
	Field   string
	Message string
}

// ImportValidation is the read-only validation report for an import.
type ImportValidation struct {
	TotalRows        int
	ValidRows        int
	UnmappedConcepts []string
	Errors           []ImportError
}

// SheetPreview carries the detected header and a few sample rows of one
// sheet, for callers debugging a misdetected layout.
type SheetPreview struct {
	SheetName  string
	Headers    []string
	SampleRows [][]string
}

// TransactionDraft is the output record shape handed to the external
// persistence and categorization layer.
type TransactionDraft struct {
	Type          TransactionType  `csv:"Type"`
	Amount        decimal.Decimal  `csv:"Amount"`
	Description   string           `csv:"Description"`
	CategoryID    string           `csv:"CategoryID"`
	CategoryName  string           `csv:"CategoryName"`
	Season        string           `csv:"Season"`
	Date          time.Time        `csv:"Date"`
	PaidDate      *time.Time       `csv:"PaidDate"`
	PaymentMethod string           `csv:"PaymentMethod"`
	BaseAmount    *decimal.Decimal `csv:"BaseAmount"`
	TaxAmount     *decimal.Decimal `csv:"TaxAmount"`
	TeamID        string           `csv:"TeamID"`
	ProjectID     string           `csv:"ProjectID"`
	ImportID      string           `csv:"ImportID"`
}

// Well-known sentinel category ids used when no real category could be
// determined. They keep the import non-blocking; the persistence layer
// resolves them to its own "uncategorized" catalog entries.
const (
	UncategorizedExpenseID = "__uncategorized__"
	UncategorizedIncomeID  = "__uncategorized___income"
)

// UncategorizedLabel is the display name attached to drafts that fall back
// to a sentinel category.
const UncategorizedLabel = "Sin categorizar"
