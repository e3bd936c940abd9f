package docket

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	datePrefix      = "Date:"
	panelPrefix     = "Panel: "
	noOralMarker    = "No Oral Argument"
	lowerCourtMark  = "Superior Court"
	litigantsPrefix = "Litigants"

	// DateLayout is the layout of the text following "Date: " in a page header,
	// e.g. "Thursday, September 10, 2024".
	DateLayout = "Monday, January 2, 2006"
)

// Kind labels a token for the sequencer
type Kind int

const (
	KindPlainText Kind = iota
	KindDateHeader
	KindPanelHeader
	KindNoOralMarker
	KindLowerCourtField
	KindCaseNumber
)

func (k Kind) String() string {
	switch k {
	case KindDateHeader:
		return "DateHeader"
	case KindPanelHeader:
		return "PanelHeader"
	case KindNoOralMarker:
		return "NoOralMarker"
	case KindLowerCourtField:
		return "LowerCourtField"
	case KindCaseNumber:
		return "CaseNumber"
	default:
		return "PlainText"
	}
}

// Token is the trimmed text of one emphasized run on a docket page.
type Token struct {
	Text string
	// Table is the page ordinal of the token's nearest enclosing <table>, 0 if none.
	Table int
}

// Item is a classified token
type Item struct {
	Token
	Kind Kind
}

// Classify labels a single token text. Kinds are tested in a fixed order: date
// header, panel header, lower-court field, case number, no-oral marker. This differs
// from the sequencer's reading order of case number, no-oral, panel: a token naming a
// Superior Court is never a case anchor even when it starts with six digits, and a
// panel header that mentions oral argument stays a panel header. A token starting
// with a case number is a case number even if it also mentions oral argument.
func Classify(text string) Kind {
	switch {
	case IsDateHeader(text):
		return KindDateHeader
	case IsPanelHeader(text):
		return KindPanelHeader
	case IsLowerCourtField(text):
		return KindLowerCourtField
	case IsCaseNumber(text):
		return KindCaseNumber
	case IsNoOralArgument(text):
		return KindNoOralMarker
	default:
		return KindPlainText
	}
}

// ClassifyAll runs Classify over a page's tokens, trimming each token's text.
func ClassifyAll(tokens []Token) []Item {
	items := make([]Item, len(tokens))
	for i, tok := range tokens {
		tok.Text = strings.TrimSpace(tok.Text)
		items[i] = Item{Token: tok, Kind: Classify(tok.Text)}
	}
	return items
}

// IsCaseNumber reports whether text starts with a 6 digit case number or the
// 5 digit + hyphen + check digit form (e.g. "12345-6").
func IsCaseNumber(text string) bool {
	text = strings.TrimSpace(text)
	if len(text) < 6 {
		return false
	}
	if allDigits(text[:6]) {
		return true
	}
	return len(text) >= 7 && allDigits(text[:5]) && text[5] == '-' && isDigit(text[6])
}

// ExtractCaseNumber strips every non-digit from text
func ExtractCaseNumber(text string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
}

// IsPanelHeader reports whether text starts with "Panel: "
func IsPanelHeader(text string) bool {
	return strings.HasPrefix(text, panelPrefix)
}

// ExtractPanel returns the judges named in a panel header, in order.
func ExtractPanel(text string) []string {
	_, names, _ := strings.Cut(text, panelPrefix)
	panel := make([]string, 0)
	for _, name := range strings.Split(names, ",") {
		if name = strings.TrimSpace(name); name != "" {
			panel = append(panel, name)
		}
	}
	return panel
}

// IsNoOralArgument reports whether text marks the next case as considered without oral argument
func IsNoOralArgument(text string) bool {
	return strings.Contains(text, noOralMarker)
}

// IsLowerCourtField reports whether text is a Superior Court reference
func IsLowerCourtField(text string) bool {
	return strings.Contains(text, lowerCourtMark)
}

// ParseLowerCourt splits a reference such as "King County Superior Court 10-3-05604-5"
// into the court name and the trial court case number. Runs of whitespace in the
// court name, non-breaking spaces included, collapse to a single space. When the
// last word still looks like part of the court name the whole trimmed text is
// returned as the court with an empty case number.
func ParseLowerCourt(text string) (court, caseNumber string) {
	text = strings.TrimSpace(text)
	idx := strings.LastIndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return text, ""
	}
	_, size := utf8.DecodeRuneInString(text[idx:])
	rest := strings.Join(strings.Fields(text[:idx]), " ")
	last := text[idx+size:]
	if rest == "" || strings.Contains(last, "Court") {
		return text, ""
	}
	return rest, last
}

// IsDateHeader reports whether text starts with "Date:"
func IsDateHeader(text string) bool {
	return strings.HasPrefix(text, datePrefix)
}

// ExtractDate parses a "Date: Thursday, September 10, 2024" header into a UTC date.
func ExtractDate(text string) (time.Time, error) {
	value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), datePrefix))
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateParse, value)
	}
	return d, nil
}

// IsLitigantsHeader reports whether text announces a litigants/attorneys table
func IsLitigantsHeader(text string) bool {
	return strings.HasPrefix(text, litigantsPrefix)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
