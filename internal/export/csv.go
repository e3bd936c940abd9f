package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

var attorneyCaseHeaders = []string{"case_title", "panel_date", "division", "attorney_name", "case_number", "is_primary"}

// WriteAttorneyCasesCSV writes attorney case rows as CSV with a header line
func WriteAttorneyCasesCSV(w io.Writer, rows []storage.AttorneyCase) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(attorneyCaseHeaders); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range rows {
		primary := "0"
		if r.Primary {
			primary = "1"
		}
		record := []string{
			r.Title,
			r.PanelDate.Format("2006-01-02"),
			strconv.Itoa(r.Division),
			r.Attorney,
			r.CaseNumber,
			primary,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
