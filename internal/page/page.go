package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/wa-dockets/internal/docket"
	"golang.org/x/net/html"
)

// TokenSelector selects the emphasized runs that make up a page's tokens
const TokenSelector = "strong"

// Page is a parsed docket page. It implements docket.Page.
type Page struct {
	tokens []docket.Token
	tables []*goquery.Selection // tables[i] has ordinal i+1
}

// Parse reads an HTML docket page
func Parse(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return FromDocument(doc), nil
}

// FromDocument collects the tokens of an already parsed document
func FromDocument(doc *goquery.Document) *Page {
	p := &Page{tokens: make([]docket.Token, 0)}
	ordinals := make(map[*html.Node]int)

	doc.Find(TokenSelector).Each(func(i int, sel *goquery.Selection) {
		tok := docket.Token{Text: strings.TrimSpace(sel.Text())}

		if table := sel.Closest("table"); table.Length() > 0 {
			node := table.Get(0)
			id, seen := ordinals[node]
			if !seen {
				p.tables = append(p.tables, table)
				id = len(p.tables)
				ordinals[node] = id
			}
			tok.Table = id
		}

		p.tokens = append(p.tokens, tok)
	})

	return p
}

// Tokens returns the page tokens in document order
func (p *Page) Tokens() []docket.Token {
	return p.tokens
}

// ResolveTable returns the rows of the table enclosing tok, each row as its cell texts.
// Rows of tables nested inside that table are not included.
func (p *Page) ResolveTable(tok docket.Token) ([][]string, error) {
	if tok.Table < 1 || tok.Table > len(p.tables) {
		return nil, docket.ErrNoTable
	}
	table := p.tables[tok.Table-1]
	node := table.Get(0)

	rows := make([][]string, 0)
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if tr.Closest("table").Get(0) != node {
			return
		}
		cells := make([]string, 0, 2)
		tr.ChildrenFiltered("td").Each(func(j int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		rows = append(rows, cells)
	})

	return rows, nil
}
