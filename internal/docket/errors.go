package docket

import "errors"

var (
	// ErrDateParse means the page's date header did not match "Weekday, Month Day, Year".
	// The whole page is skipped.
	ErrDateParse = errors.New("malformed docket date")

	// ErrTruncatedCase means the tokens ran out while a case was still being assembled.
	// No partial record is produced and the page is abandoned.
	ErrTruncatedCase = errors.New("truncated case")

	// ErrNotCaseStart is returned by BuildCase when the cursor is not at a case number.
	ErrNotCaseStart = errors.New("cursor is not at a case number")

	// ErrNoTable is returned by a TableResolver when a token has no enclosing table.
	ErrNoTable = errors.New("no enclosing table")
)
