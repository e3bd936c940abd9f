package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

const (
	SheetCases     = "Cases"
	SheetParties   = "Parties"
	SheetAttorneys = "Attorneys"
)

var caseHeaders = []any{
	"Division",
	"Consideration Date",
	"Case Number",
	"Consolidated",
	"Title",
	"Oral Argument",
	"Panel",
	"Lower Court",
	"Lower Court Case Number",
	"Opinion Date",
	"Opinion Status",
}

// WriteXLSX writes cases as a workbook to w. Cases without a consideration date
// leave that cell blank.
func WriteXLSX(w io.Writer, cases []storage.StoredCase) error {
	f := excelize.NewFile()
	defer f.Close() // nolint:errcheck

	if err := f.SetSheetName("Sheet1", SheetCases); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	for _, name := range []string{SheetParties, SheetAttorneys} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	caseSheet := sheetWriter{f: f, sheet: SheetCases}
	caseSheet.row(caseHeaders...)
	parties := sheetWriter{f: f, sheet: SheetParties}
	parties.row("Case Number", "Name", "Role")
	attorneys := sheetWriter{f: f, sheet: SheetAttorneys}
	attorneys.row("Case Number", "Attorney")

	for _, c := range cases {
		primary := c.PrimaryNumber()
		oral := "Yes"
		if !c.OralArgument {
			oral = "No"
		}
		considered, opinion := "", ""
		if !c.ConsiderationDate.IsZero() {
			considered = c.ConsiderationDate.Format("2006-01-02")
		}
		if c.OpinionDate != nil {
			opinion = c.OpinionDate.Format("2006-01-02")
		}
		caseSheet.row(
			c.Division,
			considered,
			primary,
			strings.Join(c.Consolidated(), ", "),
			c.Title,
			oral,
			strings.Join(c.Panel, ", "),
			c.LowerCourt,
			c.LowerCourtCaseNumber,
			opinion,
			c.OpinionStatus,
		)
		for _, l := range c.Litigants {
			parties.row(primary, l.Name, l.Role)
		}
		for _, a := range c.Attorneys {
			attorneys.row(primary, a)
		}
	}

	caseSheet.width("B", "C", 16)
	caseSheet.width("E", "E", 60)
	caseSheet.width("G", "H", 32)
	caseSheet.width("I", "K", 18)
	parties.width("B", "B", 40)
	attorneys.width("B", "B", 40)

	for _, sw := range []*sheetWriter{&caseSheet, &parties, &attorneys} {
		if sw.err != nil {
			return fmt.Errorf("writing sheet %s: %w", sw.sheet, sw.err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// sheetWriter appends rows to a sheet, keeping the first error
type sheetWriter struct {
	f     *excelize.File
	sheet string
	next  int
	err   error
}

func (s *sheetWriter) row(values ...any) {
	if s.err != nil {
		return
	}
	s.next++
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, s.next)
		if err != nil {
			s.err = err
			return
		}
		if err := s.f.SetCellValue(s.sheet, cell, v); err != nil {
			s.err = err
			return
		}
	}
}

func (s *sheetWriter) width(startCol, endCol string, w float64) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetColWidth(s.sheet, startCol, endCol, w)
}
