// Package calendar renders case consideration dates as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

// Options controls GenerateICS
type Options struct {
	// Name is the calendar display name
	Name string
	// Now stamps DTSTAMP; zero means time.Now
	Now time.Time
	// DocketURL, if set, links each event to its docket page
	DocketURL func(division int, date time.Time) string
}

// GenerateICS generates an iCalendar (.ics) document with one all-day event per case.
// Cases without a consideration date have no event.
func GenerateICS(cases []storage.StoredCase, opts Options) string {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	name := opts.Name
	if name == "" {
		name = "WA Court of Appeals Dockets"
	}

	var ics strings.Builder
	write := func(line string) {
		ics.WriteString(foldLine(line))
		ics.WriteString("\r\n")
	}

	write("BEGIN:VCALENDAR")
	write("VERSION:2.0")
	write("PRODID:-//WA Dockets//wa-dockets//EN")
	write("CALSCALE:GREGORIAN")
	write("METHOD:PUBLISH")
	write("X-WR-CALNAME:" + escapeICS(name))

	for _, c := range cases {
		date := c.ConsiderationDate
		if date.IsZero() {
			continue
		}
		write("BEGIN:VEVENT")
		write(fmt.Sprintf("UID:%s@wa-dockets", eventUID(c)))
		write("DTSTAMP:" + formatICSTime(now))
		write("DTSTART;VALUE=DATE:" + formatICSDate(date))
		write("DTEND;VALUE=DATE:" + formatICSDate(date.AddDate(0, 0, 1)))
		write("SUMMARY:" + escapeICS(summary(c)))
		write("DESCRIPTION:" + escapeICS(description(c)))
		if opts.DocketURL != nil {
			write("URL:" + opts.DocketURL(c.Division, date))
		}
		write("STATUS:CONFIRMED")
		write("TRANSP:TRANSPARENT")
		write("END:VEVENT")
	}

	write("END:VCALENDAR")
	return ics.String()
}

func eventUID(c storage.StoredCase) string {
	return fmt.Sprintf("div%d-%s-%s", c.Division, c.PrimaryNumber(), formatICSDate(c.ConsiderationDate))
}

func summary(c storage.StoredCase) string {
	s := fmt.Sprintf("%s %s", DivisionName(c.Division), c.PrimaryNumber())
	if c.Title != "" {
		s += " " + c.Title
	}
	if !c.OralArgument {
		s += " (no oral argument)"
	}
	return s
}

func description(c storage.StoredCase) string {
	var lines []string
	numbers := c.PrimaryNumber()
	if cons := c.Consolidated(); len(cons) > 0 {
		numbers += " (consolidated with " + strings.Join(cons, ", ") + ")"
	}
	lines = append(lines, "Case: "+numbers)
	if c.Title != "" {
		lines = append(lines, "Title: "+c.Title)
	}
	if len(c.Panel) > 0 {
		lines = append(lines, "Panel: "+strings.Join(c.Panel, ", "))
	}
	if c.OralArgument {
		lines = append(lines, "Oral argument: yes")
	} else {
		lines = append(lines, "Oral argument: no")
	}
	if c.LowerCourt != "" {
		lc := c.LowerCourt
		if c.LowerCourtCaseNumber != "" {
			lc += " " + c.LowerCourtCaseNumber
		}
		lines = append(lines, "Lower court: "+lc)
	}
	if len(c.Attorneys) > 0 {
		lines = append(lines, "Attorneys: "+strings.Join(c.Attorneys, "; "))
	}
	return strings.Join(lines, "\n")
}

// DivisionName returns the court's name for a division, e.g. "Division II"
func DivisionName(n int) string {
	switch n {
	case 1:
		return "Division I"
	case 2:
		return "Division II"
	case 3:
		return "Division III"
	default:
		return fmt.Sprintf("Division %d", n)
	}
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatICSDate formats a calendar date as an iCalendar DATE value
func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// RFC 5545 section 3.3.11
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

// foldLine splits content lines longer than 75 octets, continuing with a leading space.
// Breaks never fall inside a multi-byte character.
func foldLine(line string) string {
	const limit = 75
	if len(line) <= limit {
		return line
	}

	var b strings.Builder
	width := 0
	max := limit
	for _, r := range line {
		size := len(string(r))
		if width+size > max {
			b.WriteString("\r\n ")
			width = 0
			max = limit - 1
		}
		b.WriteRune(r)
		width += size
	}
	return b.String()
}
