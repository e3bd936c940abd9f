package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/wa-dockets/internal/docket"
	"github.com/pfrederiksen/wa-dockets/internal/logger"
	"github.com/pfrederiksen/wa-dockets/internal/page"
)

var flagParseFormat string

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the cases on a saved docket page",
		Long: `Parse a docket page saved as HTML and print its cases without touching the
database. Use - to read the page from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}

	cmd.Flags().StringVar(&flagParseFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagParseFormat)
	if err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening page: %w", err)
		}
		defer f.Close() // nolint:errcheck
		r = f
	}

	p, err := page.Parse(r)
	if err != nil {
		return err
	}
	logger.Debug("Page loaded", logger.Fields{"tokens": len(p.Tokens())})

	d, err := docket.ParsePage(p)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	return WriteDocket(cmd.OutOrStdout(), d, format, flagVerbose)
}
