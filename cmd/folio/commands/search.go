// ABOUTME: CLI command to rank passages against a query
// ABOUTME: Shows similarity scores without calling the completion model
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/folio/internal/models"
)

var (
	searchLimit int
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank passages against a query",
		Long: `Rank portfolio passages by cosine similarity to a query.

Only the embedding provider is called; no answer is generated.

Examples:
  folio search "distributed systems"
  folio search --limit 5 "frontend work"
  folio search --format json "databases"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 3, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	ctx := context.Background()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.Asker.Search(ctx, models.Query{Prompt: args[0]}, searchLimit)
	if err != nil {
		return fmt.Errorf("searching passages: %w", err)
	}

	return writeResults(cmd.OutOrStdout(), args[0], results)
}

func writeResults(out io.Writer, query string, results []models.ScoredPassage) error {
	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(out, "No passages found for query: %s\n", query)
		}
		return nil
	}

	if jsonOutput() {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SCORE\tID\tPREVIEW\n")
	fmt.Fprintf(w, "-----\t--\t-------\n")
	for _, r := range results {
		fmt.Fprintf(w, "%.3f\t%s\t%s\n", r.Score, truncate(r.Passage.ID, 20), truncate(r.Passage.Text, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(out, "\nFound %d result(s)\n", len(results))
	}
	return nil
}
