package page

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/wa-dockets/internal/docket"
)

func loadFixture(t *testing.T) *Page {
	t.Helper()
	f, err := os.Open("../../testdata/fixtures/docket_division1.html")
	if err != nil {
		t.Fatalf("failed to open test fixture: %v", err)
	}
	defer f.Close()

	p, err := Parse(f)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return p
}

func TestParse_Tokens(t *testing.T) {
	html := `
		<html><body>
			<strong>Date: Thursday, September 10, 2024</strong>
			<p>not a token</p>
			<strong>  Panel: A, B, C  </strong>
			<table><tr><td><strong>123456</strong></td></tr></table>
		</body></html>
	`

	p, err := Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := []docket.Token{
		{Text: "Date: Thursday, September 10, 2024"},
		{Text: "Panel: A, B, C"},
		{Text: "123456", Table: 1},
	}
	if got := p.Tokens(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %#v, want %#v", got, want)
	}
}

func TestParse_NonBreakingSpaces(t *testing.T) {
	html := `<table><tr><td>
		<strong>123456</strong>
		<strong>Pierce&nbsp;County&nbsp;Superior&nbsp;Court&nbsp;&nbsp;19-1-04411-6</strong>
	</td></tr></table>`

	p, err := Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	toks := p.Tokens()
	if len(toks) != 2 {
		t.Fatalf("Tokens() returned %d tokens, want 2", len(toks))
	}

	court, number := docket.ParseLowerCourt(toks[1].Text)
	if number != "19-1-04411-6" {
		t.Errorf("case number = %q, want %q", number, "19-1-04411-6")
	}
	if want := "Pierce County Superior Court"; court != want {
		t.Errorf("court = %q, want %q", court, want)
	}
}

func TestParse_EmptyPage(t *testing.T) {
	p, err := Parse(strings.NewReader(`<html><body><p>No docket</p></body></html>`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(p.Tokens()) != 0 {
		t.Errorf("Tokens() returned %d tokens, want 0", len(p.Tokens()))
	}
}

func TestResolveTable_NestedTables(t *testing.T) {
	p := loadFixture(t)

	var litigants []docket.Token
	for _, tok := range p.Tokens() {
		if tok.Text == "Litigants:" {
			litigants = append(litigants, tok)
		}
	}
	if len(litigants) != 3 {
		t.Fatalf("found %d Litigants headings, want 3", len(litigants))
	}

	rows, err := p.ResolveTable(litigants[0])
	if err != nil {
		t.Fatalf("ResolveTable() error: %v", err)
	}

	want := [][]string{
		{"Litigants:", "Attorneys of Record:"},
		{"Phonsavanh Phongmanivan (Appellant)", "Washington Appellate Project"},
		{"", "Gregory Charles Link"},
		{"", "Susan F Wilk"},
		{"State of Washington  (Respondent)", "Prosecuting Atty King County"},
		{"", "Dennis John Mccurdy"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("ResolveTable() = %#v, want %#v", rows, want)
	}
}

func TestResolveTable_OuterTableExcludesNestedRows(t *testing.T) {
	p := loadFixture(t)

	outer := p.Tokens()[0]
	if outer.Table == 0 {
		t.Fatal("first token should sit in the layout table")
	}

	rows, err := p.ResolveTable(outer)
	if err != nil {
		t.Fatalf("ResolveTable() error: %v", err)
	}
	if len(rows) != 5 {
		t.Errorf("layout table has %d rows, want 5", len(rows))
	}
}

func TestResolveTable_NoTable(t *testing.T) {
	p, err := Parse(strings.NewReader(`<strong>Litigants:</strong>`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	tests := []struct {
		name string
		tok  docket.Token
	}{
		{"outside any table", p.Tokens()[0]},
		{"unknown ordinal", docket.Token{Text: "Litigants:", Table: 7}},
		{"negative ordinal", docket.Token{Text: "Litigants:", Table: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.ResolveTable(tt.tok); !errors.Is(err, docket.ErrNoTable) {
				t.Errorf("ResolveTable() error = %v, want ErrNoTable", err)
			}
		})
	}
}

func TestParsePage_Fixture(t *testing.T) {
	d, err := docket.ParsePage(loadFixture(t))
	if err != nil {
		t.Fatalf("ParsePage() error: %v", err)
	}

	if !d.Date.Equal(time.Date(2013, time.February, 25, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v, want 2013-02-25", d.Date)
	}
	if len(d.Cases) != 4 {
		t.Fatalf("got %d cases, want 4", len(d.Cases))
	}

	first := d.Cases[0]
	if first.PrimaryNumber() != "682539" {
		t.Errorf("first case number = %s, want 682539", first.PrimaryNumber())
	}
	if first.LowerCourtCaseNumber != "11-1-02112-4" {
		t.Errorf("first case lower court number = %q", first.LowerCourtCaseNumber)
	}
	wantLitigants := []docket.Litigant{
		{Name: "Phonsavanh Phongmanivan", Role: "Appellant"},
		{Name: "State of Washington", Role: "Respondent"},
	}
	if !reflect.DeepEqual(first.Litigants, wantLitigants) {
		t.Errorf("first case litigants = %v, want %v", first.Litigants, wantLitigants)
	}
	if len(first.Attorneys) != 5 {
		t.Errorf("first case has %d attorneys, want 5", len(first.Attorneys))
	}
	if !reflect.DeepEqual(first.Panel, []string{"Appelwick", "Spearman", "Verellen"}) {
		t.Errorf("first case panel = %v", first.Panel)
	}

	consolidated := d.Cases[1]
	if got := consolidated.Consolidated(); !reflect.DeepEqual(got, []string{"678264"}) {
		t.Errorf("consolidated numbers = %v, want [678264]", got)
	}
	if consolidated.Title != "In re the Marriage of Doe" {
		t.Errorf("consolidated title = %q", consolidated.Title)
	}
	if !reflect.DeepEqual(consolidated.Attorneys, []string{"Smith & Jones PLLC"}) {
		t.Errorf("consolidated attorneys = %v", consolidated.Attorneys)
	}

	third := d.Cases[2]
	if third.OralArgument {
		t.Error("third case OralArgument = true, want false")
	}
	if !reflect.DeepEqual(third.Panel, []string{"Dwyer", "Leach", "Becker"}) {
		t.Errorf("third case panel = %v", third.Panel)
	}
	if third.LowerCourt != "Whatcom County Superior Court" || third.LowerCourtCaseNumber != "12-2-00001-1" {
		t.Errorf("third case lower court = (%q, %q), want (%q, %q)",
			third.LowerCourt, third.LowerCourtCaseNumber, "Whatcom County Superior Court", "12-2-00001-1")
	}
	wantThird := []docket.Litigant{{Name: "Richard Roe"}, {Name: "City of Bellingham", Role: "Respondent"}}
	if !reflect.DeepEqual(third.Litigants, wantThird) {
		t.Errorf("third case litigants = %v, want %v", third.Litigants, wantThird)
	}

	last := d.Cases[3]
	if !last.OralArgument {
		t.Error("last case OralArgument = false, want true")
	}
	if last.Title != "Estate of Example" {
		t.Errorf("last case title = %q", last.Title)
	}
	if !reflect.DeepEqual(last.Panel, []string{"Dwyer", "Leach", "Becker"}) {
		t.Errorf("last case panel = %v", last.Panel)
	}
}
