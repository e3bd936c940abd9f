package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/wa-dockets/internal/scrape"
)

var (
	flagOpinionYear      int
	flagOpinionFetchMode string
	flagOpinionDelay     time.Duration
	flagOpinionFormat    string
)

func newOpinionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opinions",
		Short: "Record opinion filing dates and publication status for a year",
		Long: `Search the Court of Appeals opinion releases of --year month by month and record
each opinion's filing date and publication status on the stored case it belongs to.

Opinions are matched by division and any of the case's numbers. An opinion with no
stored case is saved as a new case without a consideration date. A month that
returns the search's result limit is searched again in smaller ranges.`,
		Example: `  wa-dockets opinions --year 2023
  wa-dockets opinions --year 2024 --format json`,
		Args: cobra.NoArgs,
		RunE: runOpinions,
	}

	cmd.Flags().IntVar(&flagOpinionYear, "year", 0, "Release year to search (required)")
	cmd.Flags().StringVar(&flagOpinionFetchMode, "fetch-mode", "", "Fetch mode: http or browser (overrides config)")
	cmd.Flags().DurationVar(&flagOpinionDelay, "delay", -1, "Pause between searches (overrides config)")
	cmd.Flags().StringVar(&flagOpinionFormat, "format", "text", "Output format: text or json")

	cmd.MarkFlagRequired("year") // nolint:errcheck

	return cmd
}

func runOpinions(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, err := ParseFormat(flagOpinionFormat)
	if err != nil {
		return err
	}
	if err := scrape.ValidateYear(flagOpinionYear, cfg.Opinions.MinYear, time.Now()); err != nil {
		return err
	}

	log, closeLog, err := runLogger(cmd, "opinions")
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close() // nolint:errcheck

	fetcher, err := newFetcher(flagOpinionFetchMode)
	if err != nil {
		return err
	}
	defer fetcher.Close() // nolint:errcheck

	runner := scrape.New(fetcher, scrape.SQLStore{Store: store},
		scrape.WithLogger(log),
		scrape.WithDelay(fetchDelay(flagOpinionDelay)),
	)

	summary, runErr := runner.RunOpinions(ctx, scrape.OpinionsRequest{
		Year:      flagOpinionYear,
		MinYear:   cfg.Opinions.MinYear,
		SearchURL: cfg.Opinions.SearchURL,
	})
	if summary != nil {
		if err := WriteOpinionSummary(cmd.OutOrStdout(), summary, format); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if flagVerbose {
		writeJSON(cmd.ErrOrStderr(), runner.Metrics().GetSnapshot()) // nolint:errcheck
	}

	return runErr
}
