package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/wa-dockets/internal/docket"
	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

func sampleCase() storage.StoredCase {
	return storage.StoredCase{
		ID:       7,
		Division: 1,
		CaseRecord: docket.CaseRecord{
			CaseNumbers: []docket.CaseNumber{
				{Number: "678256", Primary: true},
				{Number: "678264"},
			},
			Title:                "In re the Marriage of Doe",
			ConsiderationDate:    time.Date(2013, time.February, 25, 0, 0, 0, 0, time.UTC),
			Panel:                []string{"Dwyer", "Leach", "Becker"},
			OralArgument:         false,
			Attorneys:            []string{"Smith & Jones PLLC"},
			LowerCourt:           "Snohomish County Superior Court",
			LowerCourtCaseNumber: "11-3-01234-1",
		},
	}
}

func TestGenerateICS(t *testing.T) {
	now := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	ics := GenerateICS([]storage.StoredCase{sampleCase()}, Options{
		Now: now,
		DocketURL: func(division int, date time.Time) string {
			return "https://courts.test/docket?folder=a01&file=" + date.Format("20060102")
		},
	})

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//WA Dockets//wa-dockets//EN",
		"X-WR-CALNAME:WA Court of Appeals Dockets",
		"BEGIN:VEVENT",
		"UID:div1-678256-20130225@wa-dockets",
		"DTSTAMP:20240301T080000Z",
		"DTSTART;VALUE=DATE:20130225",
		"DTEND;VALUE=DATE:20130226",
		"SUMMARY:Division I 678256 In re the Marriage of Doe (no oral argument)",
		"URL:https://courts.test/docket?folder=a01&file=20130225",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	unfolded := strings.ReplaceAll(ics, "\r\n ", "")
	for _, field := range requiredFields {
		if !strings.Contains(unfolded, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	descFields := []string{
		`Case: 678256 (consolidated with 678264)`,
		`Panel: Dwyer\, Leach\, Becker`,
		`Oral argument: no`,
		`Lower court: Snohomish County Superior Court 11-3-01234-1`,
		`Attorneys: Smith & Jones PLLC`,
	}
	for _, field := range descFields {
		if !strings.Contains(unfolded, field) {
			t.Errorf("DESCRIPTION missing %q", field)
		}
	}

	for _, line := range strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n") {
		if len(line) > 75 {
			t.Errorf("line longer than 75 octets: %q", line)
		}
	}
}

func TestGenerateICS_Empty(t *testing.T) {
	ics := GenerateICS(nil, Options{Name: "Attorney: Pat"})

	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("empty calendar should have no events")
	}
	if !strings.Contains(ics, "X-WR-CALNAME:Attorney: Pat\r\n") {
		t.Errorf("calendar name missing: %s", ics)
	}
	if !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Error("ICS should end with END:VCALENDAR")
	}
}

func TestGenerateICS_SkipsUndatedCases(t *testing.T) {
	undated := sampleCase()
	undated.CaseNumbers = []docket.CaseNumber{{Number: "690020", Primary: true}}
	undated.ConsiderationDate = time.Time{}

	ics := GenerateICS([]storage.StoredCase{sampleCase(), undated}, Options{})

	if n := strings.Count(ics, "BEGIN:VEVENT"); n != 1 {
		t.Errorf("calendar has %d events, want 1", n)
	}
	if strings.Contains(ics, "690020") {
		t.Error("undated case should have no event")
	}
}

func TestDivisionName(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "Division I"},
		{2, "Division II"},
		{3, "Division III"},
		{4, "Division 4"},
	}

	for _, tt := range tests {
		if got := DivisionName(tt.n); got != tt.want {
			t.Errorf("DivisionName(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Simple text", "Simple text"},
		{"Doe, Jane", "Doe\\, Jane"},
		{"A; B", "A\\; B"},
		{"Line 1\nLine 2", "Line 1\\nLine 2"},
		{"C:\\path", "C:\\\\path"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := escapeICS(tt.input)
			if result != tt.expected {
				t.Errorf("escapeICS(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFoldLine(t *testing.T) {
	short := "SUMMARY:short"
	if got := foldLine(short); got != short {
		t.Errorf("foldLine(%q) = %q", short, got)
	}

	long := "DESCRIPTION:" + strings.Repeat("é", 60)
	folded := foldLine(long)
	for _, part := range strings.Split(folded, "\r\n") {
		if len(part) > 75 {
			t.Errorf("folded part has %d octets", len(part))
		}
	}
	if strings.ReplaceAll(folded, "\r\n ", "") != long {
		t.Error("unfolding did not restore the original line")
	}
}
