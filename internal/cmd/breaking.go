package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ripple/internal/breaking"
	"ripple/internal/output"
)

var breakingCmd = &cobra.Command{
	Use:   "breaking <file>",
	Short: "Detect breaking changes between two versions of a file",
	Long: `Diff the exported symbols of two versions of a file and report every
compatibility break, cross-referenced against the dependency graph so
each break lists the dependent files it reaches.

Detected change types:
  removed            The symbol is gone with no plausible successor
  renamed            A same-kind symbol with a highly similar name replaced it
  signature-changed  The symbol survives with a different declaration
  moved              The declaration relocated (re-export added, dropped,
                     or pointed at a different source)

The old version comes from --old (a snapshot file). The new version is
read from the file itself unless --new points elsewhere.

Examples:
  ripple breaking src/api.ts --old /tmp/api.ts.orig
  ripple breaking src/api.ts --old api.v1.ts --new api.v2.ts
  ripple breaking --format json src/api.ts --old api.orig.ts`,
	Args: cobra.ExactArgs(1),
	RunE: runBreaking,
}

var (
	breakingOldPath string
	breakingNewPath string
)

func init() {
	rootCmd.AddCommand(breakingCmd)
	breakingCmd.Flags().StringVar(&breakingOldPath, "old", "", "Path to the previous version of the file (required)")
	breakingCmd.Flags().StringVar(&breakingNewPath, "new", "", "Path to the new version (default: the file itself)")
	breakingCmd.MarkFlagRequired("old")
}

// breakingReport is the command's output document.
type breakingReport struct {
	File            string            `yaml:"file" json:"file"`
	BreakingChanges []breaking.Change `yaml:"breaking_changes" json:"breaking_changes"`
}

func runBreaking(cmd *cobra.Command, args []string) error {
	file := args[0]

	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	oldContent, err := os.ReadFile(breakingOldPath)
	if err != nil {
		return fmt.Errorf("reading old version: %w", err)
	}

	newPath := breakingNewPath
	if newPath == "" {
		newPath = file
	}
	newContent, err := os.ReadFile(newPath)
	if err != nil {
		return fmt.Errorf("reading new version: %w", err)
	}

	builder, _, err := newBuilder()
	if err != nil {
		return err
	}

	detector := breaking.NewDetector(builder)
	changes, err := detector.DetectBreakingChanges(file, string(oldContent), string(newContent))
	if err != nil {
		return err
	}
	if changes == nil {
		changes = []breaking.Change{}
	}

	formatter, err := output.GetFormatter(format)
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}

	return formatter.FormatToWriter(cmd.OutOrStdout(), breakingReport{
		File:            builder.NormalizePath(file),
		BreakingChanges: changes,
	})
}
