// ABOUTME: Root command and global flags for the folio CLI
// ABOUTME: Wires every subcommand and enforces --verbose/--quiet exclusivity
package commands

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
███████  ██████  ██      ██  ██████
██      ██    ██ ██      ██ ██    ██
█████   ██    ██ ██      ██ ██    ██
██      ██    ██ ██      ██ ██    ██
██       ██████  ███████ ██  ██████
`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folio",
		Short: "Ask questions about a portfolio",
		Long: banner + `
Folio answers questions about a site owner from their bio and project list.
Passages are ranked by embedding similarity and the best matches are sent
as context to a streaming chat completion model.

Configuration comes from the environment (and a .env file if present).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			switch outputFormat {
			case "auto", "json", "text":
			default:
				return fmt.Errorf("--format must be auto, json or text, got %q", outputFormat)
			}
			if quiet {
				log.SetOutput(io.Discard)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress informational output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json, text")

	cmd.AddCommand(
		NewServeCmd(),
		NewAskCmd(),
		NewSearchCmd(),
		NewCorpusCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
