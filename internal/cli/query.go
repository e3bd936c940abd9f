package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/wa-dockets/internal/export"
	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

var (
	flagQueryFormat   string
	flagQueryCSV      string
	flagQueryDivision int
	flagQueryFrom     string
	flagQueryTo       string
	flagQueryAttorney string
	flagQuerySort     string
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Search the case database",
	}

	cmd.PersistentFlags().StringVar(&flagQueryFormat, "format", "text", "Output format: text or json")

	attorneyCases := &cobra.Command{
		Use:   "attorney-cases PATTERN",
		Short: "List the cases of attorneys whose name contains PATTERN",
		Long: `List every case number of every case with an attorney whose name contains
PATTERN, ignoring case. PATTERN may use SQL LIKE wildcards (% and _).`,
		Args: cobra.ExactArgs(1),
		RunE: runAttorneyCases,
	}
	attorneyCases.Flags().StringVar(&flagQueryCSV, "csv", "", "Also write the rows to this CSV file")

	attorneys := &cobra.Command{
		Use:   "attorneys",
		Short: "List unique attorney names",
		Args:  cobra.NoArgs,
		RunE:  runUniqueNames("attorneys"),
	}

	judges := &cobra.Command{
		Use:   "judges",
		Short: "List unique judge names",
		Args:  cobra.NoArgs,
		RunE:  runUniqueNames("judges"),
	}

	cases := &cobra.Command{
		Use:   "cases",
		Short: "List stored cases",
		Args:  cobra.NoArgs,
		RunE:  runQueryCases,
	}
	cases.Flags().IntVar(&flagQueryDivision, "division", 0, "Only cases from this division")
	cases.Flags().StringVar(&flagQueryFrom, "from", "", "Earliest consideration date, YYYY-MM-DD")
	cases.Flags().StringVar(&flagQueryTo, "to", "", "Latest consideration date, YYYY-MM-DD")
	cases.Flags().StringVar(&flagQueryAttorney, "attorney", "", "Only cases with an attorney whose name contains this")
	cases.Flags().StringVar(&flagQuerySort, "sort", "date", "Sort order: date, number or title")

	cmd.AddCommand(attorneyCases, attorneys, judges, cases)
	return cmd
}

func runAttorneyCases(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	format, err := ParseFormat(flagQueryFormat)
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close() // nolint:errcheck

	rows, err := store.AttorneyCases(ctx, args[0])
	if err != nil {
		return err
	}

	if err := WriteAttorneyCases(cmd.OutOrStdout(), rows, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if flagQueryCSV != "" {
		f, err := os.Create(flagQueryCSV)
		if err != nil {
			return fmt.Errorf("creating csv: %w", err)
		}
		if err := export.WriteAttorneyCasesCSV(f, rows); err != nil {
			f.Close() // nolint:errcheck
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing csv: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", len(rows), flagQueryCSV)
	}

	return nil
}

func runUniqueNames(kind string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format, err := ParseFormat(flagQueryFormat)
		if err != nil {
			return err
		}

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close() // nolint:errcheck

		var names []string
		if kind == "judges" {
			names, err = store.UniqueJudges(ctx)
		} else {
			names, err = store.UniqueAttorneys(ctx)
		}
		if err != nil {
			return err
		}

		return WriteNames(cmd.OutOrStdout(), kind, names, format)
	}
}

func runQueryCases(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	format, err := ParseFormat(flagQueryFormat)
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(flagQuerySort)
	if err != nil {
		return err
	}

	filter, err := caseFilter(flagQueryDivision, flagQueryFrom, flagQueryTo, flagQueryAttorney)
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
	sortCases(cases, order)

	return WriteCases(cmd.OutOrStdout(), cases, format, flagVerbose)
}

// caseFilter builds a storage filter from command flags
func caseFilter(division int, from, to, attorney string) (storage.CaseFilter, error) {
	f := storage.CaseFilter{Division: division, Attorney: attorney}
	var err error
	if f.From, err = parseDateFlag("from", from); err != nil {
		return f, err
	}
	if f.To, err = parseDateFlag("to", to); err != nil {
		return f, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, fmt.Errorf("--from %s is after --to %s", from, to)
	}
	return f, nil
}
