package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ripple/internal/breaking"
	"ripple/internal/impact"
	"ripple/internal/output"
)

var impactCmd = &cobra.Command{
	Use:   "impact <file>...",
	Short: "Analyze blast radius of changing one or more files",
	Long: `Show the blast radius of changing the given files.

Answers the question: "If I change this, what breaks?"

Uses reverse BFS through the dependency graph to find:
  1. Direct dependents — files that import the target (1 hop)
  2. Transitive dependents — files reached through re-export chains
     and intermediate modules, up to --depth hops
  3. Impact level — low/medium/high/critical from the affected count
  4. Suggestions — what to review or run before shipping the change

Test files are dropped from the affected set unless --include-tests is
given. --exclude removes dependents matching glob patterns (* matches
any run of characters, ? matches one).

Examples:
  ripple impact src/utils/format.ts                # Impact of one file
  ripple impact src/api.ts src/types.ts            # Several at once
  ripple impact --depth 3 src/api.ts               # Bound traversal depth
  ripple impact --include-tests src/api.ts         # Keep test files
  ripple impact --exclude '*.stories.*' src/ui.tsx # Drop storybook files
  ripple impact --old /tmp/api.orig.ts src/api.ts  # Also detect breaking changes
  ripple impact --format json src/api.ts           # JSON output for tooling`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImpact,
}

var (
	impactDepth        int
	impactIncludeTests bool
	impactExclude      []string
	impactOldPath      string
)

func init() {
	rootCmd.AddCommand(impactCmd)
	impactCmd.Flags().IntVar(&impactDepth, "depth", impact.DefaultMaxDepth, "Max traversal depth (hops from target)")
	impactCmd.Flags().BoolVar(&impactIncludeTests, "include-tests", false, "Keep test files in the affected set")
	impactCmd.Flags().StringSliceVar(&impactExclude, "exclude", nil, "Glob patterns to exclude from dependents")
	impactCmd.Flags().StringVar(&impactOldPath, "old", "", "Previous version of the target; attaches breaking-change detection (single target only)")
}

func runImpact(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	builder, cfg, err := newBuilder()
	if err != nil {
		return err
	}

	opts := impact.Options{
		IncludeTests:    impactIncludeTests,
		MaxDepth:        impactDepth,
		ExcludePatterns: impactExclude,
	}
	// Config-level excludes apply on top of the flag
	opts.ExcludePatterns = append(opts.ExcludePatterns, cfg.Impact.ExcludePatterns...)
	if !cmd.Flags().Changed("include-tests") {
		opts.IncludeTests = cfg.Impact.IncludeTests
	}
	if !cmd.Flags().Changed("depth") && cfg.Impact.MaxDepth > 0 {
		opts.MaxDepth = cfg.Impact.MaxDepth
	}

	analyzer := impact.NewAnalyzer(builder)
	result, err := analyzer.AnalyzeImpact(args, opts)
	if err != nil {
		return err
	}

	if impactOldPath != "" {
		if len(args) != 1 {
			return fmt.Errorf("--old requires exactly one target file")
		}
		oldContent, err := os.ReadFile(impactOldPath)
		if err != nil {
			return fmt.Errorf("reading old version: %w", err)
		}
		newContent, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading target file: %w", err)
		}
		detector := breaking.NewDetector(builder)
		result.BreakingChanges, err = detector.DetectBreakingChanges(args[0], string(oldContent), string(newContent))
		if err != nil {
			return err
		}
	}

	formatter, err := output.GetFormatter(format)
	if err != nil {
		return fmt.Errorf("failed to get formatter: %w", err)
	}

	return formatter.FormatToWriter(cmd.OutOrStdout(), result)
}
