// Package scanner walks a project tree and extracts a lightweight
// dependency model (imports and exports) from each source file.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the scan worker pool size when none is configured.
const DefaultWorkers = 8

// sourceExtensions lists the file extensions the scanner considers source.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".mjs": true,
	".cjs": true,
	".ts":  true,
	".tsx": true,
}

// IsSourceFile reports whether path has a scannable source extension.
func IsSourceFile(path string) bool {
	return sourceExtensions[filepath.Ext(path)]
}

// Scanner walks a project root and produces a FileNode per source file.
type Scanner struct {
	root        string
	excludeDirs map[string]bool
	workers     int
	log         *slog.Logger
}

// New creates a Scanner rooted at root. Directories whose base name appears
// in excludeDirs are skipped entirely.
func New(root string, excludeDirs []string, workers int) *Scanner {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	ex := make(map[string]bool, len(excludeDirs))
	for _, d := range excludeDirs {
		ex[d] = true
	}
	return &Scanner{
		root:        root,
		excludeDirs: ex,
		workers:     workers,
		log:         slog.Default(),
	}
}

// Scan walks the tree and extracts a node per readable source file.
// Unreadable files and directories are skipped; only an inaccessible root
// is an error. Extraction runs on a bounded worker pool and results are
// joined sequentially, sorted by path.
func (s *Scanner) Scan(ctx context.Context) ([]*FileNode, error) {
	if _, err := os.Stat(s.root); err != nil {
		return nil, fmt.Errorf("project root inaccessible: %w", err)
	}

	paths, err := s.collectFiles()
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		nodes []*FileNode
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, relPath := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(filepath.Join(s.root, relPath))
			if err != nil {
				// Mid-edit locks and permission holes are expected; the
				// scan carries on without this file.
				s.log.Debug("skipping unreadable file", "path", relPath, "error", err)
				return nil
			}
			node := ExtractNode(relPath, string(content))
			mu.Lock()
			nodes = append(nodes, node)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Path < nodes[j].Path })
	return nodes, nil
}

// collectFiles gathers project-relative paths of candidate source files.
func (s *Scanner) collectFiles() ([]string, error) {
	var paths []string
	walkErr := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			s.log.Debug("skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			if path != s.root && s.excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSourceFile(path) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking project root: %w", walkErr)
	}
	return paths, nil
}
