package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ripple/internal/output"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the dependency graph",
	Long: `Report the size and freshness of the dependency graph: file count,
total imports and exports, and when the current generation was built.

Examples:
  ripple stats                  # Use the cached graph
  ripple stats --rebuild        # Force a fresh scan first
  ripple stats --format json    # JSON output for tooling`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

var statsRebuild bool

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsRebuild, "rebuild", false, "Force a graph rebuild before reporting")
}

func runStats(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	builder, _, err := newBuilder()
	if err != nil {
		return err
	}

	if statsRebuild {
		if _, err := builder.BuildGraph(true); err != nil {
			return err
		}
	}

	stats, err := builder.Stats()
	if err != nil {
		return err
	}

	formatter, err := output.GetFormatter(format)
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}

	return formatter.FormatToWriter(cmd.OutOrStdout(), stats)
}
