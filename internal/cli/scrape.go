package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/wa-dockets/internal/config"
	"github.com/pfrederiksen/wa-dockets/internal/fetch"
	"github.com/pfrederiksen/wa-dockets/internal/logger"
	"github.com/pfrederiksen/wa-dockets/internal/scrape"
	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

var (
	flagStart     string
	flagEnd       string
	flagDivision  int
	flagResume    bool
	flagFetchMode string
	flagDelay     time.Duration
	flagFormat    string
)

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch docket pages for a date range and save the cases",
		Long: `Fetch the docket page of every day from --start to --end (inclusive) for each
configured division, parse the cases on it and save them to the database.

Dates without a docket are skipped. Pages that fail to download or parse are logged
and skipped. With --resume each division continues after its last saved docket date.`,
		Example: `  wa-dockets scrape --start 2024-01-01 --end 2024-03-31
  wa-dockets scrape --start 2012-01-01 --end 2024-12-31 --division 2 --resume`,
		Args: cobra.NoArgs,
		RunE: runScrape,
	}

	cmd.Flags().StringVar(&flagStart, "start", "", "First docket date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&flagEnd, "end", "", "Last docket date, YYYY-MM-DD (default: --start)")
	cmd.Flags().IntVar(&flagDivision, "division", 0, "Only scrape this division (default: all configured)")
	cmd.Flags().BoolVar(&flagResume, "resume", false, "Start each division after its last processed date")
	cmd.Flags().StringVar(&flagFetchMode, "fetch-mode", "", "Fetch mode: http or browser (overrides config)")
	cmd.Flags().DurationVar(&flagDelay, "delay", -1, "Pause between page fetches (overrides config)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	cmd.MarkFlagRequired("start") // nolint:errcheck

	return cmd
}

func runScrape(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, err := ParseFormat(flagFormat)
	if err != nil {
		return err
	}

	start, err := parseDateFlag("start", flagStart)
	if err != nil {
		return err
	}
	end := start
	if flagEnd != "" {
		if end, err = parseDateFlag("end", flagEnd); err != nil {
			return err
		}
	}

	divisions := cfg.Divisions
	if flagDivision != 0 {
		d, ok := cfg.Division(flagDivision)
		if !ok {
			return fmt.Errorf("division %d is not configured", flagDivision)
		}
		divisions = []config.Division{d}
	}

	if err := scrape.ValidateRange(start, end, cfg.MinDate.Time, time.Now()); err != nil {
		return err
	}

	log, closeLog, err := runLogger(cmd, "scrape")
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close() // nolint:errcheck

	fetcher, err := newFetcher(flagFetchMode)
	if err != nil {
		return err
	}
	defer fetcher.Close() // nolint:errcheck

	runner := scrape.New(fetcher, scrape.SQLStore{Store: store},
		scrape.WithLogger(log),
		scrape.WithDelay(fetchDelay(flagDelay)),
		scrape.WithMinDate(cfg.MinDate.Time),
	)

	summary, runErr := runner.Run(ctx, scrape.Request{
		Divisions: divisions,
		Start:     start,
		End:       end,
		Resume:    flagResume,
	})
	if summary != nil {
		if err := WriteSummary(cmd.OutOrStdout(), summary, format); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	if flagVerbose {
		writeJSON(cmd.ErrOrStderr(), runner.Metrics().GetSnapshot()) // nolint:errcheck
	}

	return runErr
}

// runLogger builds a run logger: stderr, plus a timestamped file named after kind
// when a log directory is configured
func runLogger(cmd *cobra.Command, kind string) (*logger.Logger, func(), error) {
	level, _ := logger.ParseLevel(cfg.LogLevel)
	if cfg.LogDir == "" {
		return logger.Default(), func() {}, nil
	}

	dir, err := storage.ExpandPath(cfg.LogDir)
	if err != nil {
		return nil, nil, err
	}

	f, err := logger.OpenRunLog(dir, kind, time.Now())
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(level, logger.Tee(cmd.ErrOrStderr(), f))
	return log, func() { f.Close() }, nil // nolint:errcheck
}

// newFetcher builds the configured fetcher, with mode overriding the config when set
func newFetcher(mode string) (fetch.Fetcher, error) {
	opts := cfg.FetchOptions()
	if mode != "" {
		m, err := fetch.ParseMode(mode)
		if err != nil {
			return nil, err
		}
		opts.Mode = m
	}
	return fetch.New(opts)
}

// fetchDelay returns flag when it was set, else the configured delay
func fetchDelay(flag time.Duration) time.Duration {
	if flag >= 0 {
		return flag
	}
	return cfg.Fetch.Delay
}
