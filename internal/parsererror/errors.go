// Package parsererror defines the structured error types reported by the
// import pipeline. None of them abort an import; callers log and continue
// with whatever the failing sheet could not contribute.
package parsererror

import "fmt"

// HeaderNotFoundError is reported when no header row could be located on a
// sheet. The sheet contributes zero rows.
type HeaderNotFoundError struct {
	Sheet       string
	RowsScanned int
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("no header row found on sheet %q (scanned %d rows)", e.Sheet, e.RowsScanned)
}

// SheetFormatError is reported when a sheet cannot be interpreted under its
// assigned role.
type SheetFormatError struct {
	Sheet  string
	Role   string
	Reason string
}

func (e *SheetFormatError) Error() string {
	return fmt.Sprintf("sheet %q cannot be read as %s: %s", e.Sheet, e.Role, e.Reason)
}

// ParseError represents a cell-level parsing failure.
type ParseError struct {
	Sheet string
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sheet %q row %d: failed to parse %s=%q: %v",
		e.Sheet, e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
