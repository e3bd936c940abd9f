// Package export writes stored cases to spreadsheet formats: an XLSX workbook with
// sheets for cases, parties and attorneys, and CSV for attorney case listings.
package export
