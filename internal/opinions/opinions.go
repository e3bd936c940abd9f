package opinions

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/wa-dockets/internal/docket"
)

// MaxResults is the most rows a single release search returns
const MaxResults = 200

const (
	headingText   = "Court of Appeals Opinions"
	noResultsText = "No opinions matched the entered search criteria"
	minCells      = 5
)

// ErrUnexpectedLayout is returned for a page that is neither a result list nor an empty search
var ErrUnexpectedLayout = errors.New("release page has no Court of Appeals opinions")

// Type is how an opinion was published
type Type string

const (
	Published       Type = "Published"
	PublishedInPart Type = "Published in Part"
	Unpublished     Type = "Unpublished"
)

var sectionTypes = map[string]Type{
	"Opinions Published in Part": PublishedInPart,
	"Published Opinions":         Published,
	"Unpublished Opinions":       Unpublished,
}

var fileDateLayouts = []string{
	"Jan. 2, 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Opinion is one filed opinion
type Opinion struct {
	CaseNumber string    `json:"case_number"`
	Title      string    `json:"case_title"`
	Division   int       `json:"division"`
	FileDate   time.Time `json:"file_date"`
	Type       Type      `json:"type"`
}

// Release is the result of one release search
type Release struct {
	Opinions []Opinion
	// Invalid describes result rows that could not be read
	Invalid []string
}

// Capped reports whether the search returned as many rows as the court allows,
// in which case some opinions may be missing
func (r *Release) Capped() bool {
	return len(r.Opinions)+len(r.Invalid) >= MaxResults
}

// Parse reads a release search result page
func Parse(r io.Reader) (*Release, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument extracts the opinions of an already parsed release page
func FromDocument(doc *goquery.Document) (*Release, error) {
	rel := &Release{Opinions: make([]Opinion, 0)}

	if strings.Contains(doc.Text(), noResultsText) {
		return rel, nil
	}

	heading := doc.Find("h3").FilterFunction(func(i int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), headingText)
	}).First()
	if heading.Length() == 0 {
		return nil, ErrUnexpectedLayout
	}

	heading.NextAllFiltered("p").Each(func(i int, p *goquery.Selection) {
		typ, ok := sectionTypes[strings.TrimSpace(p.Find("strong").First().Text())]
		if !ok {
			return
		}
		table := p.NextAllFiltered("table").First()
		if table.Length() == 0 {
			return
		}

		table.Find("tr").Each(func(j int, tr *goquery.Selection) {
			if j == 0 {
				return
			}
			cells := tr.Find("td").Map(func(k int, td *goquery.Selection) string {
				return strings.TrimSpace(td.Text())
			})
			if len(cells) < minCells || cells[0] == "File Date" {
				return
			}

			op, err := parseRow(cells, typ)
			if err != nil {
				rel.Invalid = append(rel.Invalid, fmt.Sprintf("%s row %d: %v", typ, j, err))
				return
			}
			rel.Opinions = append(rel.Opinions, op)
		})
	})

	return rel, nil
}

func parseRow(cells []string, typ Type) (Opinion, error) {
	filed, err := ParseFileDate(cells[0])
	if err != nil {
		return Opinion{}, err
	}
	number := docket.ExtractCaseNumber(cells[1])
	if number == "" {
		return Opinion{}, fmt.Errorf("no case number in %q", cells[1])
	}
	division, err := ParseDivision(cells[2])
	if err != nil {
		return Opinion{}, err
	}
	return Opinion{
		CaseNumber: number,
		Title:      cells[3],
		Division:   division,
		FileDate:   filed,
		Type:       typ,
	}, nil
}

// ParseFileDate parses a release file date such as "Jan. 25, 2025" or "May 5, 2025"
func ParseFileDate(s string) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Replace(s, "Sept.", "Sep.", 1)
	for _, layout := range fileDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid file date %q", s)
}

// ParseDivision converts a division written as a Roman numeral or a digit
func ParseDivision(s string) (int, error) {
	switch strings.TrimSpace(s) {
	case "I", "1":
		return 1, nil
	case "II", "2":
		return 2, nil
	case "III", "3":
		return 3, nil
	}
	return 0, fmt.Errorf("unknown division %q", s)
}
