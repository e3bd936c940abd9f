package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/wa-dockets/internal/config"
	"github.com/pfrederiksen/wa-dockets/internal/logger"
	"github.com/pfrederiksen/wa-dockets/internal/scrape"
	"github.com/pfrederiksen/wa-dockets/internal/storage"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitInterrupted = 130
)

var (
	flagConfig   string
	flagDatabase string
	flagLogLevel string
	flagLogDir   string
	flagVerbose  bool

	cfg *config.Config

	// Version is reported by --version; set at build time
	Version = "dev"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wa-dockets",
		Short: "Collect Washington Court of Appeals docket data",
		Long: `A CLI tool that turns Washington State Court of Appeals docket pages into
structured case records and stores them in a local SQLite database.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&flagDatabase, "db", "", "SQLite database path (overrides config)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	cmd.PersistentFlags().StringVar(&flagLogDir, "log-dir", "", "Directory for run log files (overrides config)")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")

	cmd.AddCommand(
		newScrapeCmd(),
		newOpinionsCmd(),
		newParseCmd(),
		newQueryCmd(),
		newExportCmd(),
		newCalendarCmd(),
	)

	return cmd
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagDatabase != "" {
		c.Database = flagDatabase
	}
	if flagLogLevel != "" {
		c.LogLevel = flagLogLevel
	}
	if flagLogDir != "" {
		c.LogDir = flagLogDir
	}
	if flagVerbose && flagLogLevel == "" {
		c.LogLevel = string(logger.LevelDebug)
	}

	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := logger.ParseLevel(c.LogLevel)
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	cfg = c
	return nil
}

// openStore opens the configured database
func openStore(ctx context.Context) (*storage.Store, error) {
	store, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug("Opened database", logger.Fields{"path": store.Path()})
	return store, nil
}

// parseDateFlag parses an optional YYYY-MM-DD flag value
func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := scrape.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, context.Canceled) {
			os.Exit(ExitInterrupted)
		}
		os.Exit(ExitError)
	}
}
