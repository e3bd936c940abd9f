package docket

import "fmt"

// BuildCase consumes one case starting at items[pos] and returns the record and the
// index of the first item after it.
//
// The layout after the anchor number is: an optional Superior Court reference (only
// directly after the anchor), zero or more consolidated case numbers, the title, and
// an optional litigants table. Date, panel and oral-argument flag come from ctx as it
// was when the case started.
func BuildCase(items []Item, pos int, ctx Context, tables TableResolver) (CaseRecord, int, error) {
	if pos < 0 || pos >= len(items) || items[pos].Kind != KindCaseNumber {
		return CaseRecord{}, pos, fmt.Errorf("%w (index %d)", ErrNotCaseStart, pos)
	}

	anchor := ExtractCaseNumber(items[pos].Text)
	rec := CaseRecord{
		CaseNumbers:       []CaseNumber{{Number: anchor, Primary: true}},
		ConsiderationDate: ctx.Date,
		Panel:             append([]string{}, ctx.Panel...),
		OralArgument:      ctx.OralArgument,
		Litigants:         []Litigant{},
		Attorneys:         []string{},
	}
	pos++

	if pos < len(items) && items[pos].Kind == KindLowerCourtField {
		rec.LowerCourt, rec.LowerCourtCaseNumber = ParseLowerCourt(items[pos].Text)
		pos++
	}

	for pos < len(items) && items[pos].Kind == KindCaseNumber {
		rec.CaseNumbers = append(rec.CaseNumbers, CaseNumber{Number: ExtractCaseNumber(items[pos].Text)})
		pos++
	}

	if pos >= len(items) {
		return CaseRecord{}, pos, fmt.Errorf("%w: case %s has no title", ErrTruncatedCase, anchor)
	}
	rec.Title = items[pos].Text
	pos++

	if pos < len(items) && IsLitigantsHeader(items[pos].Text) {
		rec.Litigants, rec.Attorneys = ExtractLitigants(items[pos].Token, tables)
		pos = skipTable(items, pos)
	}

	return rec, pos, nil
}

// skipTable moves past the litigants header at pos and the plain headings that
// share its table ("Attorneys of Record:").
func skipTable(items []Item, pos int) int {
	table := items[pos].Table
	pos++
	if table == 0 {
		return pos
	}
	for pos < len(items) && items[pos].Table == table && items[pos].Kind == KindPlainText {
		pos++
	}
	return pos
}
