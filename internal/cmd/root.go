// Package cmd contains all CLI commands for ripple.
package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ripple/internal/config"
	"ripple/internal/depgraph"
)

var (
	// Version is the current version of ripple
	Version = "0.1.0"

	// Global flags
	verbose      bool
	forAgents    bool
	outputFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ripple",
	Short: "Change-impact analysis for JavaScript/TypeScript codebases",
	Long: `ripple builds a dependency graph of a JavaScript/TypeScript project and
answers the question: "If I change this, what breaks?"

It scans source files with lightweight pattern extraction (no full parse,
so files mid-edit still contribute), builds forward and reverse import
indexes, and traverses the reverse edges to find every file affected by a
change. It can also diff two versions of a file's exports and report
breaking changes with the dependents each one reaches.

Output Format:
  All commands output YAML by default. Use --format json for tooling.

Main capabilities:
  - Analyze blast radius of changing one or more files
  - Detect breaking changes between two versions of a file
  - Summarize the dependency graph
  - Serve analysis over MCP for AI agent integration

Examples:
  ripple impact src/utils/format.ts          # What depends on this file?
  ripple impact --depth 3 src/api/client.ts  # Bound the traversal
  ripple breaking src/api.ts --old api.old   # Diff exports against a snapshot
  ripple stats                               # Graph size and freshness
  ripple serve --mcp                         # MCP server over stdio

See 'ripple <command> --help' for command-specific options.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "yaml", "Output format (yaml|json)")
	rootCmd.Flags().BoolVar(&forAgents, "for-agents", false, "Output machine-readable capability discovery JSON")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		// stdout carries results; diagnostics go to stderr
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	}

	// Set custom help function to intercept --for-agents flag
	originalHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if forAgents {
			outputAgentHelp(cmd)
			return
		}
		originalHelp(cmd, args)
	})
}

// findProjectRoot locates the project root: the directory holding .ripple
// if one exists above the working directory, otherwise the working
// directory itself.
func findProjectRoot() string {
	if configDir, err := config.FindConfigDir("."); err == nil {
		return filepath.Dir(configDir)
	}
	return "."
}

// newBuilder loads config and constructs a graph builder for the project.
func newBuilder() (*depgraph.Builder, *config.Config, error) {
	root := findProjectRoot()
	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}
	return depgraph.NewBuilder(root, cfg.Scan.ExcludeDirs, cfg.Scan.Workers), cfg, nil
}

// CommandInfo represents a command for agent discovery
type CommandInfo struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Usage       string        `json:"usage"`
	Flags       []FlagInfo    `json:"flags,omitempty"`
	Subcommands []CommandInfo `json:"subcommands,omitempty"`
	Examples    []string      `json:"examples,omitempty"`
}

// FlagInfo represents a command flag for agent discovery
type FlagInfo struct {
	Name        string `json:"name"`
	Shorthand   string `json:"shorthand,omitempty"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Default     string `json:"default,omitempty"`
}

// outputAgentHelp outputs machine-readable JSON describing all commands
func outputAgentHelp(cmd *cobra.Command) {
	root := buildCommandInfo(cmd.Root())

	output := map[string]interface{}{
		"version":      Version,
		"commands":     root.Subcommands,
		"global_flags": root.Flags,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// buildCommandInfo recursively builds command information for agent discovery
func buildCommandInfo(cmd *cobra.Command) CommandInfo {
	info := CommandInfo{
		Name:        cmd.Name(),
		Description: cmd.Short,
		Usage:       cmd.UseLine(),
	}

	// Collect flags
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		info.Flags = append(info.Flags, FlagInfo{
			Name:        f.Name,
			Shorthand:   f.Shorthand,
			Description: f.Usage,
			Type:        f.Value.Type(),
			Default:     f.DefValue,
		})
	})

	// Collect subcommands
	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			info.Subcommands = append(info.Subcommands, buildCommandInfo(sub))
		}
	}

	// Extract examples from Example field if available
	if cmd.Example != "" {
		lines := strings.Split(cmd.Example, "\n")
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed != "" {
				info.Examples = append(info.Examples, trimmed)
			}
		}
	}

	return info
}
