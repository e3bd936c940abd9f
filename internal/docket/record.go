package docket

import "time"

// CaseNumber is one appellate case number in a case group
type CaseNumber struct {
	Number  string `json:"number"`
	Primary bool   `json:"primary"`
}

// Litigant is a party to a case with its role (Appellant, Respondent, ...).
// Role is empty when the docket did not state one.
type Litigant struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// CaseRecord is one case, possibly consolidated, as listed on a docket page.
//
// The first entry of CaseNumbers is always the anchor case and the only one with
// Primary set. Attorneys may contain the same name more than once; the page lists
// attorneys per litigant and the record keeps them as they appear.
type CaseRecord struct {
	CaseNumbers          []CaseNumber `json:"case_numbers"`
	Title                string       `json:"title"`
	ConsiderationDate    time.Time    `json:"consideration_date"`
	Panel                []string     `json:"panel"`
	OralArgument         bool         `json:"oral_argument"`
	Litigants            []Litigant   `json:"litigants"`
	Attorneys            []string     `json:"attorneys"`
	LowerCourt           string       `json:"lower_court,omitempty"`
	LowerCourtCaseNumber string       `json:"lower_court_case_number,omitempty"`
}

// PrimaryNumber returns the anchor case number, or "" for an empty record
func (c CaseRecord) PrimaryNumber() string {
	for _, n := range c.CaseNumbers {
		if n.Primary {
			return n.Number
		}
	}
	return ""
}

// Consolidated returns the non-anchor case numbers in page order
func (c CaseRecord) Consolidated() []string {
	numbers := make([]string, 0, len(c.CaseNumbers))
	for _, n := range c.CaseNumbers {
		if !n.Primary {
			numbers = append(numbers, n.Number)
		}
	}
	return numbers
}

// Docket is the parse result of a single docket page.
type Docket struct {
	// Date is the consideration date from the page header.
	Date time.Time `json:"date"`
	// Found is false when the page had no date header, i.e. nothing was scheduled.
	Found bool         `json:"found"`
	Cases []CaseRecord `json:"cases"`
}
