package docket

import (
	"regexp"
	"strings"
)

// TableResolver resolves the table a token sits in as rows of cell texts.
// Implementations return ErrNoTable when the token is not inside a table.
type TableResolver interface {
	ResolveTable(tok Token) ([][]string, error)
}

// litigantPattern matches "John Doe (Appellant)"
var litigantPattern = regexp.MustCompile(`^(.*?)\s*\((.*?)\)\s*$`)

// ExtractLitigants reads the litigants/attorneys table announced by tok.
//
// The first row is the table heading and is skipped. Each following row holds a
// litigant cell and an attorney cell; either may be blank. A blank litigant cell
// means the attorney on that row represents the litigant above it, so only the
// attorney list grows. Rows that do not have exactly two cells are ignored, and a
// token without a resolvable table yields empty lists.
func ExtractLitigants(tok Token, tables TableResolver) ([]Litigant, []string) {
	litigants := make([]Litigant, 0)
	attorneys := make([]string, 0)

	if tables == nil || !IsLitigantsHeader(strings.TrimSpace(tok.Text)) {
		return litigants, attorneys
	}

	rows, err := tables.ResolveTable(tok)
	if err != nil || len(rows) == 0 {
		return litigants, attorneys
	}

	for _, row := range rows[1:] {
		if len(row) != 2 {
			continue
		}

		if raw := strings.TrimSpace(row[0]); !isPlaceholder(raw) {
			litigants = append(litigants, parseLitigant(raw))
		}
		if raw := strings.TrimSpace(row[1]); !isPlaceholder(raw) {
			attorneys = append(attorneys, raw)
		}
	}

	return litigants, attorneys
}

// parseLitigant splits "Name (Role)"; text without a role becomes the name.
func parseLitigant(raw string) Litigant {
	if m := litigantPattern.FindStringSubmatch(raw); m != nil {
		return Litigant{Name: strings.TrimSpace(m[1]), Role: strings.TrimSpace(m[2])}
	}
	return Litigant{Name: raw}
}

func isPlaceholder(s string) bool {
	return s == "" || s == "\u00a0" || s == "&nbsp;"
}
