// ABOUTME: CLI command to print the loaded corpus
// ABOUTME: Useful for checking how the bio and projects were split into passages
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

// NewCorpusCmd creates the corpus command
func NewCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "List corpus passages",
		Long: `List the passages built from the bio and project list, in corpus order.

Examples:
  folio corpus
  folio corpus --format json`,
		Args: cobra.NoArgs,
		RunE: runCorpus,
	}

	return cmd
}

func runCorpus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	passages, err := a.Asker.Passages(ctx)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}

	return writePassages(cmd.OutOrStdout(), passages)
}

func writePassages(out io.Writer, passages []models.Passage) error {
	if jsonOutput() {
		jsonData, err := json.MarshalIndent(passages, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(out, "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "#\tID\tSOURCE\tTEXT\n")
	for i, p := range passages {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, p.ID, p.Source, truncate(p.Text, 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(out, "\n%d passage(s)\n", len(passages))
	}
	return nil
}
