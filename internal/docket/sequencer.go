package docket

import (
	"fmt"
	"time"
)

// Context is the page-scoped state in effect when a case starts.
// It is a value; every transition returns a new Context.
type Context struct {
	Date         time.Time
	Panel        []string
	OralArgument bool
}

// NewContext returns the context at the top of a page
func NewContext(date time.Time, panel []string) Context {
	return Context{Date: date, Panel: panel, OralArgument: true}
}

// WithPanel replaces the current panel for every following case
func (c Context) WithPanel(panel []string) Context {
	c.Panel = panel
	return c
}

// WithoutOralArgument marks the next case as considered without oral argument
func (c Context) WithoutOralArgument() Context {
	c.OralArgument = false
	return c
}

// nextCase resets the per-case state after a case has been built.
func (c Context) nextCase() Context {
	c.OralArgument = true
	return c
}

// Page is a docket page: its emphasized tokens in document order plus the ability
// to resolve any token's enclosing table.
type Page interface {
	TableResolver
	Tokens() []Token
}

// Sequence walks items from pos to the end, building a record at every case number.
// A panel header changes the panel for all later cases; a no-oral-argument marker
// applies to the next case only. Anything else is skipped.
func Sequence(items []Item, pos int, ctx Context, tables TableResolver) ([]CaseRecord, error) {
	cases := make([]CaseRecord, 0)

	for pos < len(items) {
		switch items[pos].Kind {
		case KindCaseNumber:
			rec, next, err := BuildCase(items, pos, ctx, tables)
			if err != nil {
				return nil, err
			}
			cases = append(cases, rec)
			ctx = ctx.nextCase()
			pos = next
		case KindNoOralMarker:
			ctx = ctx.WithoutOralArgument()
			pos++
		case KindPanelHeader:
			ctx = ctx.WithPanel(ExtractPanel(items[pos].Text))
			pos++
		default:
			pos++
		}
	}

	return cases, nil
}

// ParsePage parses a whole docket page.
//
// A page without a date header yields a Docket with Found unset and no cases. A
// malformed date header returns ErrDateParse and a case that runs off the end of
// the page returns ErrTruncatedCase; in both cases no records are returned.
func ParsePage(p Page) (*Docket, error) {
	items := ClassifyAll(p.Tokens())

	h, err := ScanHeader(items)
	if err != nil {
		return nil, fmt.Errorf("scanning header: %w", err)
	}

	d := &Docket{Date: h.Date, Found: h.Found, Cases: []CaseRecord{}}
	if !h.Found {
		return d, nil
	}

	cases, err := Sequence(items, h.Next, NewContext(h.Date, h.Panel), p)
	if err != nil {
		return nil, fmt.Errorf("parsing cases for %s: %w", h.Date.Format("2006-01-02"), err)
	}
	d.Cases = cases

	return d, nil
}
