package docket

import (
	"errors"
	"reflect"
	"testing"
	"time"
	"unicode/utf8"
)

func TestIsCaseNumber(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"123456", true},
		{"12345-6", true},
		{"123456 (Anchor Case)", true},
		{"12345-6 (Consolidated Case)", true},
		{"  123456  ", true},
		{"12345", false},
		{"12345-", false},
		{"1234-56", false},
		{"12345-a", false},
		{"Case 123456", false},
		{"", false},
		{"No Oral Argument", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsCaseNumber(tt.text); got != tt.want {
				t.Errorf("IsCaseNumber(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractCaseNumber(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"123456", "123456"},
		{"12345-6", "123456"},
		{"123456 (Anchor Case)", "123456"},
		{"82714-1-I", "827141"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ExtractCaseNumber(tt.text); got != tt.want {
				t.Errorf("ExtractCaseNumber(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractPanel(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"three judges", "Panel: A. Smith, B. Jones, C. Lee", []string{"A. Smith", "B. Jones", "C. Lee"}},
		{"untrimmed names", "Panel:  A ,B,   C ", []string{"A", "B", "C"}},
		{"single judge", "Panel: Díaz", []string{"Díaz"}},
		{"empty pieces dropped", "Panel: A,, B,", []string{"A", "B"}},
		{"no names", "Panel: ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPanel(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractPanel(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsPanelHeader(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Panel: A, B", true},
		{"Panel:A, B", false},
		{"panel: A", false},
		{" Panel: A", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := IsPanelHeader(tt.text); got != tt.want {
				t.Errorf("IsPanelHeader(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseLowerCourt(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantCourt  string
		wantNumber string
	}{
		{
			name:       "county court with number",
			text:       "King County Superior Court 10-3-05604-5",
			wantCourt:  "King County Superior Court",
			wantNumber: "10-3-05604-5",
		},
		{
			name:       "wide gap before number",
			text:       "King County Superior Court     10-3-05604-5",
			wantCourt:  "King County Superior Court",
			wantNumber: "10-3-05604-5",
		},
		{
			name:       "no case number",
			text:       "Pierce County Superior Court",
			wantCourt:  "Pierce County Superior Court",
			wantNumber: "",
		},
		{
			name:       "single word",
			text:       "Court",
			wantCourt:  "Court",
			wantNumber: "",
		},
		{
			name:       "non-breaking space before number",
			text:       "King County Superior Court\u00a010-3-05604-5",
			wantCourt:  "King County Superior Court",
			wantNumber: "10-3-05604-5",
		},
		{
			name:       "non-breaking spaces throughout",
			text:       "Whatcom\u00a0County\u00a0Superior\u00a0Court\u00a0\u00a012-2-00345-1",
			wantCourt:  "Whatcom County Superior Court",
			wantNumber: "12-2-00345-1",
		},
		{
			name:       "surrounding whitespace",
			text:       "  Spokane County Superior Court 21-1-00012-32 ",
			wantCourt:  "Spokane County Superior Court",
			wantNumber: "21-1-00012-32",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			court, number := ParseLowerCourt(tt.text)
			if !utf8.ValidString(court) || !utf8.ValidString(number) {
				t.Fatalf("ParseLowerCourt(%q) returned invalid UTF-8: (%q, %q)", tt.text, court, number)
			}
			if court != tt.wantCourt || number != tt.wantNumber {
				t.Errorf("ParseLowerCourt(%q) = (%q, %q), want (%q, %q)",
					tt.text, court, number, tt.wantCourt, tt.wantNumber)
			}
		})
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    time.Time
		wantErr bool
	}{
		{name: "standard header", text: "Date: Thursday, September 10, 2024", want: date(2024, time.September, 10)},
		{name: "single digit day", text: "Date: Tuesday, February 5, 2013", want: date(2013, time.February, 5)},
		{name: "padded day", text: "Date: Tuesday, February 05, 2013", want: date(2013, time.February, 5)},
		{name: "no space after colon", text: "Date:Monday, February 25, 2013", want: date(2013, time.February, 25)},
		{name: "abbreviated month", text: "Date: Tue, Feb 5, 2013", wantErr: true},
		{name: "numeric date", text: "Date: 02/05/2013", wantErr: true},
		{name: "empty", text: "Date: ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractDate(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrDateParse) {
					t.Errorf("ExtractDate(%q) error = %v, want ErrDateParse", tt.text, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractDate(%q) unexpected error: %v", tt.text, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ExtractDate(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Kind
	}{
		{"Date: Thursday, September 10, 2024", KindDateHeader},
		{"Panel: A, B, C", KindPanelHeader},
		{"No Oral Argument", KindNoOralMarker},
		{"*** No Oral Argument ***", KindNoOralMarker},
		{"King County Superior Court 10-3-05604-5", KindLowerCourtField},
		{"123456", KindCaseNumber},
		{"12345-6 (Consolidated Case)", KindCaseNumber},
		{"123456 No Oral Argument", KindCaseNumber},
		{"123456 King County Superior Court 10-3-05604-5", KindLowerCourtField},
		{"Panel: Smith, Jones (No Oral Argument)", KindPanelHeader},
		{"State of Washington, Respondent v. John Doe, Appellant", KindPlainText},
		{"Litigants:", KindPlainText},
		{"", KindPlainText},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyAll_TrimsText(t *testing.T) {
	got := ClassifyAll([]Token{{Text: "  123456 \n", Table: 3}})

	if len(got) != 1 {
		t.Fatalf("ClassifyAll() returned %d items, want 1", len(got))
	}
	if got[0].Text != "123456" {
		t.Errorf("item text = %q, want %q", got[0].Text, "123456")
	}
	if got[0].Kind != KindCaseNumber {
		t.Errorf("item kind = %v, want %v", got[0].Kind, KindCaseNumber)
	}
	if got[0].Table != 3 {
		t.Errorf("item table = %d, want 3", got[0].Table)
	}
}
