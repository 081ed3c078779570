package depgraph

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"ripple/internal/scanner"
)

// Builder owns the graph cache. A build scans the project, constructs a
// fresh Graph generation, and publishes it with an atomic pointer swap;
// readers holding the previous generation keep a consistent view.
type Builder struct {
	root        string
	excludeDirs []string
	workers     int

	mu    sync.Mutex // serializes rebuilds
	cache atomic.Pointer[Graph]
	log   *slog.Logger
}

// GraphStats summarizes the current graph generation for observability.
type GraphStats struct {
	FileCount    int       `yaml:"file_count" json:"file_count"`
	TotalImports int       `yaml:"total_imports" json:"total_imports"`
	TotalExports int       `yaml:"total_exports" json:"total_exports"`
	LastBuilt    time.Time `yaml:"last_built" json:"last_built"`
}

// NewBuilder creates a Builder for the project at root.
func NewBuilder(root string, excludeDirs []string, workers int) *Builder {
	return &Builder{
		root:        root,
		excludeDirs: excludeDirs,
		workers:     workers,
		log:         slog.Default(),
	}
}

// BuildGraph returns the cached graph, building it first when absent or
// when force is true. Rebuilds never mutate a published generation.
func (b *Builder) BuildGraph(force bool) (*Graph, error) {
	if !force {
		if g := b.cache.Load(); g != nil {
			return g, nil
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !force {
		if g := b.cache.Load(); g != nil {
			return g, nil
		}
	}

	sc := scanner.New(b.root, b.excludeDirs, b.workers)
	nodes, err := sc.Scan(context.Background())
	if err != nil {
		return nil, err
	}

	g := buildFromNodes(nodes)
	b.cache.Store(g)
	b.log.Info("dependency graph built",
		"files", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}

// buildFromNodes constructs forward and reverse structures together from a
// completed scan.
func buildFromNodes(nodes []*scanner.FileNode) *Graph {
	g := NewGraph()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, n := range nodes {
		for _, imp := range n.Imports {
			target, ok := resolveAgainst(g.Nodes, n.Path, imp.Specifier)
			if !ok {
				continue // external or untracked module, no internal edge
			}
			if target == n.Path {
				continue
			}
			g.AddEdge(n.Path, target, imp)
		}
	}
	return g
}

// ResolveImportPath maps a module specifier written in fromFile to a known
// project file. The second return is false for external or unresolvable
// specifiers.
func (b *Builder) ResolveImportPath(fromFile, specifier string) (string, bool) {
	g, err := b.BuildGraph(false)
	if err != nil {
		return "", false
	}
	return resolveAgainst(g.Nodes, b.NormalizePath(fromFile), specifier)
}

// NormalizePath converts a caller-supplied path to the canonical form used
// as a graph key.
func (b *Builder) NormalizePath(p string) string {
	return NormalizePath(b.root, p)
}

// Stats reports counts for the current generation, building it if needed.
func (b *Builder) Stats() (GraphStats, error) {
	g, err := b.BuildGraph(false)
	if err != nil {
		return GraphStats{}, err
	}
	stats := GraphStats{
		FileCount: g.NodeCount(),
		LastBuilt: g.BuiltAt,
	}
	for _, n := range g.Nodes {
		stats.TotalImports += len(n.Imports)
		stats.TotalExports += len(n.Exports)
	}
	return stats, nil
}

// resolveAgainst matches a specifier against the known file set, trying
// extension, index-file, and output-directory variants in a fixed order.
func resolveAgainst(files map[string]*scanner.FileNode, fromFile, specifier string) (string, bool) {
	var base string
	switch {
	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		base = joinSpecifier(fromFile, specifier)
	case strings.HasPrefix(specifier, "/"):
		base = strings.TrimPrefix(specifier, "/")
	default:
		// Bare specifiers are usually packages, but path-mapped layouts
		// write project files without a leading dot; try root-relative.
		base = specifier
	}
	for _, candidate := range PathVariants(base) {
		if _, ok := files[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}
