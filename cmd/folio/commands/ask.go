// ABOUTME: Ask command streams an answer to stdout
// ABOUTME: Optionally lists the passages the answer was grounded on
package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/folio/internal/core"
	"github.com/harper/folio/internal/models"
)

var (
	askSources bool
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the portfolio",
		Long: `Ask a question and stream the answer to stdout.

The bio and projects are ranked against the question and the closest
passages are sent to the completion model as context.

Examples:
  folio ask "What languages does she use?"
  folio ask --sources "Which project uses Go?"
  folio ask --format json "What is the garden project?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().BoolVar(&askSources, "sources", false, "Print the passages used as context")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	q := models.Query{Prompt: strings.Join(args, " ")}
	answer, err := a.Asker.Ask(ctx, q)
	if err != nil {
		return fmt.Errorf("%s: %w", core.PublicMessage(err), err)
	}

	return writeAnswer(cmd.OutOrStdout(), answer)
}

// writeAnswer streams answer to w in the selected output format
func writeAnswer(w io.Writer, answer *core.Answer) error {
	if jsonOutput() {
		text, err := answer.Collect()
		out := map[string]interface{}{
			"answer":  text,
			"sources": answer.SourceIDs(),
		}
		if err != nil {
			out["interrupted"] = true
		}
		data, mErr := json.MarshalIndent(out, "", "  ")
		if mErr != nil {
			return fmt.Errorf("marshaling JSON: %w", mErr)
		}
		fmt.Fprintf(w, "%s\n", data)
		return err
	}

	defer answer.Close()
	for {
		chunk, err := answer.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Fprintln(w)
			return err
		}
		fmt.Fprint(w, chunk.Content)
	}
	fmt.Fprintln(w)

	if askSources {
		heading := color.New(color.FgCyan, color.Bold).SprintFunc()
		id := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(w, "\n%s\n", heading("Sources:"))
		for _, sp := range answer.Sources {
			fmt.Fprintf(w, "  %s %.3f  %s\n", id(sp.Passage.ID), sp.Score, truncate(sp.Passage.Text, 70))
		}
	}
	return nil
}
