// ABOUTME: Version command reporting build and runtime details
// ABOUTME: One-line text by default, an object with --format json
package commands

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// BuildInfo describes the running folio binary
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

var buildInfo = BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}

// SetVersion records the values stamped in by the release build
func SetVersion(version, commit, date string) {
	buildInfo.Version = version
	buildInfo.Commit = commit
	buildInfo.Date = date
}

func currentBuild() BuildInfo {
	b := buildInfo
	b.GoVersion = runtime.Version()
	b.Platform = runtime.GOOS + "/" + runtime.GOARCH
	return b
}

// String renders e.g. "folio 1.2.3 (abc123, built 2026-01-31, go1.24.11 linux/amd64)"
func (b BuildInfo) String() string {
	return fmt.Sprintf("folio %s (%s, built %s, %s %s)", b.Version, b.Commit, b.Date, b.GoVersion, b.Platform)
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Print the folio release, commit, build date and the Go runtime it was built with.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := currentBuild()
			if jsonOutput() {
				data, err := json.MarshalIndent(b, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.String())
			return nil
		},
	}

	return cmd
}
