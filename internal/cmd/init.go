package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"ripple/internal/config"
	"ripple/internal/exclude"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ripple in the current directory",
	Long: `Create a .ripple/config.yaml with defaults for this project.

Scans the tree for ecosystem marker files (package.json, framework
configs, venvs) and folds the dependency and build directories they
imply into the generated exclude list.

Examples:
  ripple init                  # Write .ripple/config.yaml
  ripple init --no-detect      # Skip auto-exclude detection`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initNoDetect bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initNoDetect, "no-detect", false, "Skip auto-exclude detection")
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()

	if !initNoDetect {
		detected := exclude.DetectAutoExcludes(".")
		for _, dir := range detected.Directories {
			// Scanner exclusion matches directory names, not paths
			name := filepath.Base(dir)
			if !containsString(cfg.Scan.ExcludeDirs, name) {
				cfg.Scan.ExcludeDirs = append(cfg.Scan.ExcludeDirs, name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "excluding %s: %s\n", dir, detected.Reasons[dir])
		}
	}

	path, err := config.Save(".", cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "initialized: %s\n", path)
	return nil
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
