package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/wa-dockets/internal/calendar"
	"github.com/pfrederiksen/wa-dockets/internal/config"
	"github.com/pfrederiksen/wa-dockets/internal/export"
	"github.com/pfrederiksen/wa-dockets/internal/logger"
	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

var (
	flagExportOut   string
	flagCalendarOut string
	flagDivFilt     int
	flagFrom        string
	flagTo          string
	flagAttorney    string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored cases to an XLSX workbook",
		Example: `  wa-dockets export --out cases.xlsx
  wa-dockets export --out div2-2024.xlsx --division 2 --from 2024-01-01 --to 2024-12-31`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().StringVar(&flagExportOut, "out", "cases.xlsx", "Output file")
	addFilterFlags(cmd)

	return cmd
}

func newCalendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Write consideration dates of stored cases as an iCalendar file",
		Example: `  wa-dockets calendar --attorney "Jane Smith" --out smith.ics
  wa-dockets calendar --division 1 --from 2024-06-01 --out - > div1.ics`,
		Args: cobra.NoArgs,
		RunE: runCalendar,
	}

	cmd.Flags().StringVar(&flagCalendarOut, "out", "dockets.ics", "Output file, or - for standard output")
	addFilterFlags(cmd)

	return cmd
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagDivFilt, "division", 0, "Only cases from this division")
	cmd.Flags().StringVar(&flagFrom, "from", "", "Earliest consideration date, YYYY-MM-DD")
	cmd.Flags().StringVar(&flagTo, "to", "", "Latest consideration date, YYYY-MM-DD")
	cmd.Flags().StringVar(&flagAttorney, "attorney", "", "Only cases with an attorney whose name contains this")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	filter, err := caseFilter(flagDivFilt, flagFrom, flagTo, flagAttorney)
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close() // nolint:errcheck

	cases, err := store.ListCases(ctx, filter)
	if err != nil {
		return err
	}
	warnIfEmpty(cases, filter)

	f, err := os.Create(flagExportOut)
	if err != nil {
		return fmt.Errorf("creating %s: %w", flagExportOut, err)
	}
	if err := export.WriteXLSX(f, cases); err != nil {
		f.Close() // nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", flagExportOut, err)
	}

	logger.Info("Export complete", logger.Fields{"file": flagExportOut, "cases": len(cases)})
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cases to %s\n", len(cases), flagExportOut)
	return nil
}

func runCalendar(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	filter, err := caseFilter(flagDivFilt, flagFrom, flagTo, flagAttorney)
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close() // nolint:errcheck

	cases, err := store.ListCases(ctx, filter)
	if err != nil {
		return err
	}
	warnIfEmpty(cases, filter)

	name := "WA Court of Appeals Dockets"
	if flagAttorney != "" {
		name = fmt.Sprintf("WA Court of Appeals: %s", flagAttorney)
	}
	ics := calendar.GenerateICS(cases, calendar.Options{
		Name: name,
		DocketURL: func(division int, date time.Time) string {
			d, ok := cfg.Division(division)
			if !ok {
				d = config.Division{Number: division, URL: config.DefaultDivisionURL(division)}
			}
			return d.DocketURL(date)
		},
	})

	if flagCalendarOut == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
		return err
	}
	if err := os.WriteFile(flagCalendarOut, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", flagCalendarOut, err)
	}
	events := 0
	for _, c := range cases {
		if !c.ConsiderationDate.IsZero() {
			events++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d events to %s\n", events, flagCalendarOut)
	return nil
}

func warnIfEmpty(cases []storage.StoredCase, f storage.CaseFilter) {
	if len(cases) > 0 {
		return
	}
	logger.Warn("No stored cases match the filter", logger.Fields{
		"division": f.Division,
		"attorney": f.Attorney,
	})
}
