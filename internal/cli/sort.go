package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate   SortOrder = "date"
	SortByNumber SortOrder = "number"
	SortByTitle  SortOrder = "title"
)

// ParseSortOrder validates a sort order name
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortByDate, SortByNumber, SortByTitle:
		return o, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be 'date', 'number' or 'title')", s)
	}
}

// sortCases sorts stored cases in place
func sortCases(cases []storage.StoredCase, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(cases, func(i, j int) bool {
			return compareByDate(cases[i], cases[j])
		})
	case SortByNumber:
		sort.SliceStable(cases, func(i, j int) bool {
			if ni, nj := cases[i].PrimaryNumber(), cases[j].PrimaryNumber(); ni != nj {
				return ni < nj
			}
			return compareByDate(cases[i], cases[j])
		})
	case SortByTitle:
		sort.SliceStable(cases, func(i, j int) bool {
			ti, tj := strings.ToLower(cases[i].Title), strings.ToLower(cases[j].Title)
			if ti != tj {
				return ti < tj
			}
			return compareByDate(cases[i], cases[j])
		})
	}
}

// compareByDate orders by consideration date, then division, then case number
func compareByDate(i, j storage.StoredCase) bool {
	if !i.ConsiderationDate.Equal(j.ConsiderationDate) {
		return i.ConsiderationDate.Before(j.ConsiderationDate)
	}
	if i.Division != j.Division {
		return i.Division < j.Division
	}
	return i.PrimaryNumber() < j.PrimaryNumber()
}
