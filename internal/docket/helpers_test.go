package docket

import (
	"strings"
	"time"
)

// fakePage is an in-memory docket page. Tokens prefixed with "Litigants" are placed in
// the table keyed by their text.
type fakePage struct {
	tokens []Token
	tables map[int][][]string
}

func (p *fakePage) Tokens() []Token { return p.tokens }

func (p *fakePage) ResolveTable(tok Token) ([][]string, error) {
	rows, ok := p.tables[tok.Table]
	if !ok {
		return nil, ErrNoTable
	}
	return rows, nil
}

// newPage builds a page from plain texts; none of them sit in a table
func newPage(texts ...string) *fakePage {
	p := &fakePage{tables: make(map[int][][]string)}
	for _, text := range texts {
		p.tokens = append(p.tokens, Token{Text: text})
	}
	return p
}

// addTable appends a litigants table: the "Litigants:" and "Attorneys of Record:"
// headings as tokens plus the given body rows.
func (p *fakePage) addTable(rows ...[]string) *fakePage {
	id := len(p.tables) + 1
	p.tokens = append(p.tokens,
		Token{Text: "Litigants:", Table: id},
		Token{Text: "Attorneys of Record:", Table: id},
	)
	p.tables[id] = append([][]string{{"Litigants:", "Attorneys of Record:"}}, rows...)
	return p
}

func (p *fakePage) add(texts ...string) *fakePage {
	for _, text := range texts {
		p.tokens = append(p.tokens, Token{Text: text})
	}
	return p
}

func items(texts ...string) []Item {
	return ClassifyAll(newPage(texts...).Tokens())
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func numbers(c CaseRecord) string {
	parts := make([]string, 0, len(c.CaseNumbers))
	for _, n := range c.CaseNumbers {
		if n.Primary {
			parts = append(parts, n.Number+"*")
		} else {
			parts = append(parts, n.Number)
		}
	}
	return strings.Join(parts, ",")
}
