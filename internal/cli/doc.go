// Package cli implements the command-line interface for wa-dockets.
//
// The cli package provides the Cobra-based command tree: scrape walks docket pages for
// a date range and saves the cases, parse prints the cases on a saved docket page,
// query searches the database, and export and calendar write stored cases to XLSX and
// iCalendar files. Configuration comes from a YAML file with flag overrides.
package cli
