// Package storage persists case records in SQLite.
//
// The database mirrors the court's docket structure: one row per case in cases, with
// its docket numbers, litigants, attorneys and panel judges in child tables, plus a
// metadata key/value table recording scrape progress per division. Every insert is
// an insert-or-ignore keyed on natural uniqueness, so saving the same docket page twice
// leaves the database unchanged. Dates are stored as ISO 8601 (YYYY-MM-DD) text.
//
// The default database location is ~/.local/share/wa-dockets/cases.db.
package storage
