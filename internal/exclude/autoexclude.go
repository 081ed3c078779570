// Package exclude detects dependency and build-output directories that
// should never be scanned.
package exclude

import (
	"os"
	"path/filepath"
	"strings"
)

// AutoExcludeResult contains the directories to exclude and why.
type AutoExcludeResult struct {
	// Directories to exclude (relative to project root)
	Directories []string
	// Reasons maps each directory to why it was excluded
	Reasons map[string]string
}

// DetectAutoExcludes walks the project root looking for ecosystem marker
// files and collects the dependency/build directories they imply. Only
// file-existence checks are used, so every exclusion is certain.
// Nested projects (monorepo packages with their own node_modules) are
// detected too.
func DetectAutoExcludes(projectRoot string) *AutoExcludeResult {
	result := &AutoExcludeResult{
		Directories: []string{},
		Reasons:     make(map[string]string),
	}

	_ = filepath.WalkDir(projectRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip directories we can't read
		}

		if path == projectRoot {
			return nil
		}

		relPath, err := filepath.Rel(projectRoot, path)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if contains(result.Directories, relPath) {
				return filepath.SkipDir
			}

			for _, excluded := range result.Directories {
				if strings.HasPrefix(relPath, excluded+string(filepath.Separator)) {
					return filepath.SkipDir
				}
			}

			// Never descend into dependency trees, excluded or not.
			dirName := d.Name()
			if dirName == "node_modules" || dirName == ".git" {
				return filepath.SkipDir
			}

			return nil
		}

		dirPath := filepath.Dir(path)
		relDirPath, err := filepath.Rel(projectRoot, dirPath)
		if err != nil {
			return nil
		}

		switch d.Name() {
		case "package.json":
			// Node: node_modules/ sibling if it exists
			addIfDir(result, projectRoot, relDirPath, "node_modules",
				"Node.js dependencies (package.json detected)")
			// Coverage output lands next to package.json for jest/c8/nyc
			addIfDir(result, projectRoot, relDirPath, "coverage",
				"Test coverage output (package.json detected)")

		case "next.config.js", "next.config.mjs", "next.config.ts":
			addIfDir(result, projectRoot, relDirPath, ".next",
				"Next.js build output (next config detected)")

		case "nuxt.config.js", "nuxt.config.ts":
			addIfDir(result, projectRoot, relDirPath, ".nuxt",
				"Nuxt build output (nuxt config detected)")

		case "pyvenv.cfg":
			// Python venvs carry no JS sources worth scanning
			if !contains(result.Directories, relDirPath) {
				result.Directories = append(result.Directories, relDirPath)
				result.Reasons[relDirPath] = "Python virtual environment (pyvenv.cfg detected)"
			}
		}

		return nil
	})

	return result
}

// addIfDir records a sibling directory of the marker file if it exists.
func addIfDir(result *AutoExcludeResult, projectRoot, relDirPath, name, reason string) {
	dir := filepath.Join(relDirPath, name)
	if relDirPath == "." {
		dir = name
	}
	if dirExists(filepath.Join(projectRoot, dir)) && !contains(result.Directories, dir) {
		result.Directories = append(result.Directories, dir)
		result.Reasons[dir] = reason
	}
}

// dirExists checks if a directory exists.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// contains checks if a string is in a slice.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
