package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/wa-dockets/internal/calendar"
	"github.com/pfrederiksen/wa-dockets/internal/docket"
	"github.com/pfrederiksen/wa-dockets/internal/scrape"
	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseFormat validates an output format name
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteDocket writes the cases parsed from one docket page
func WriteDocket(w io.Writer, d *docket.Docket, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		return writeJSON(w, d)
	}

	if !d.Found {
		fmt.Fprintln(w, "No docket found on page.")
		return nil
	}

	fmt.Fprintf(w, "Docket for %s\n", d.Date.Format("Monday, January 2, 2006"))
	for _, c := range d.Cases {
		writeCaseText(w, c, verbose)
	}
	fmt.Fprintf(w, "\nTotal: %d cases\n", len(d.Cases))
	return nil
}

func writeCaseText(w io.Writer, c docket.CaseRecord, verbose bool) {
	numbers := c.PrimaryNumber()
	if cons := c.Consolidated(); len(cons) > 0 {
		numbers += " (+" + strings.Join(cons, ", ") + ")"
	}
	fmt.Fprintf(w, "\n%s: %s\n", numbers, c.Title)
	if !c.OralArgument {
		fmt.Fprintln(w, "     No oral argument")
	}
	if len(c.Panel) > 0 {
		fmt.Fprintf(w, "     Panel: %s\n", strings.Join(c.Panel, ", "))
	}
	if c.LowerCourt != "" {
		fmt.Fprintf(w, "     Lower court: %s %s\n", c.LowerCourt, c.LowerCourtCaseNumber)
	}
	if verbose {
		for _, l := range c.Litigants {
			if l.Role != "" {
				fmt.Fprintf(w, "     Litigant: %s (%s)\n", l.Name, l.Role)
			} else {
				fmt.Fprintf(w, "     Litigant: %s\n", l.Name)
			}
		}
		for _, a := range c.Attorneys {
			fmt.Fprintf(w, "     Attorney: %s\n", a)
		}
	}
}

// WriteCases writes stored cases
func WriteCases(w io.Writer, cases []storage.StoredCase, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		if cases == nil {
			cases = []storage.StoredCase{}
		}
		return writeJSON(w, cases)
	}

	if len(cases) == 0 {
		fmt.Fprintln(w, "No cases found.")
		return nil
	}
	for _, c := range cases {
		date := "no consideration date"
		if !c.ConsiderationDate.IsZero() {
			date = c.ConsiderationDate.Format("2006-01-02")
		}
		fmt.Fprintf(w, "\n%s, %s", calendar.DivisionName(c.Division), date)
		writeCaseText(w, c.CaseRecord, verbose)
		if c.OpinionDate != nil {
			fmt.Fprintf(w, "     Opinion: %s, %s\n", c.OpinionDate.Format("2006-01-02"), c.OpinionStatus)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d cases\n", len(cases))
	return nil
}

// WriteSummary writes the outcome of a scrape run
func WriteSummary(w io.Writer, s *scrape.Summary, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, s)
	}

	fmt.Fprintf(w, "Run %s\n", s.RunID)
	for _, d := range s.Divisions {
		fmt.Fprintf(w, "  %s: %d dates, %d dockets, %d cases saved", calendar.DivisionName(d.Division),
			d.Dates, d.Dockets, d.Cases)
		if d.Skipped > 0 {
			fmt.Fprintf(w, ", %d skipped", d.Skipped)
		}
		if d.Failures > 0 {
			fmt.Fprintf(w, ", %d failed", d.Failures)
		}
		if d.Err != nil {
			fmt.Fprintf(w, " (aborted: %v)", d.Err)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\nTotal: %d cases in %s\n", s.Cases(), s.Finished.Sub(s.Started).Round(time.Millisecond))
	return nil
}

// WriteOpinionSummary writes the outcome of an opinion update run
func WriteOpinionSummary(w io.Writer, s *scrape.OpinionSummary, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, s)
	}

	fmt.Fprintf(w, "Run %s\n", s.RunID)
	fmt.Fprintf(w, "  %d: %d searches, %d opinions, %d cases updated, %d cases added", s.Year,
		s.Searches, s.Opinions, s.Updated, s.Inserted)
	if s.Invalid > 0 {
		fmt.Fprintf(w, ", %d unreadable", s.Invalid)
	}
	if s.Skipped > 0 {
		fmt.Fprintf(w, ", %d searches skipped", s.Skipped)
	}
	if s.Failures > 0 {
		fmt.Fprintf(w, ", %d failed", s.Failures)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "\nTotal: %d opinions in %s\n", s.Updated+s.Inserted, s.Finished.Sub(s.Started).Round(time.Millisecond))
	return nil
}

// WriteAttorneyCases writes attorney case rows
func WriteAttorneyCases(w io.Writer, rows []storage.AttorneyCase, format OutputFormat) error {
	if format == FormatJSON {
		if rows == nil {
			rows = []storage.AttorneyCase{}
		}
		return writeJSON(w, rows)
	}

	for _, r := range rows {
		marker := ""
		if r.Primary {
			marker = "*"
		}
		fmt.Fprintf(w, "%s  Div %d  %s%s  %s  [%s]\n", r.PanelDate.Format("2006-01-02"), r.Division,
			r.CaseNumber, marker, r.Title, r.Attorney)
	}
	fmt.Fprintf(w, "Total rows: %d\n", len(rows))
	return nil
}

// WriteNames writes a list of names under a label
func WriteNames(w io.Writer, label string, names []string, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, names)
	}

	fmt.Fprintf(w, "Total unique %s: %d\n", label, len(names))
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}
