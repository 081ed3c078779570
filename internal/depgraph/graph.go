// Package depgraph builds and caches the file-level dependency graph.
package depgraph

import (
	"sort"
	"time"

	"ripple/internal/scanner"
)

// Graph is one immutable generation of the dependency graph. Forward edges
// live in Edges (with the import references that created them) and the
// reverse index in Dependents. Once published by the Builder a Graph is
// read-only and safe for unlimited concurrent traversal.
type Graph struct {
	// Nodes maps normalized file path to its scanned node.
	Nodes map[string]*scanner.FileNode
	// Edges maps file -> imported file -> the imports that resolved there.
	Edges map[string]map[string][]scanner.Import
	// Dependents is the reverse index: file -> set of files importing it.
	Dependents map[string]map[string]struct{}
	// BuiltAt is when this generation was constructed.
	BuiltAt time.Time
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:      make(map[string]*scanner.FileNode),
		Edges:      make(map[string]map[string][]scanner.Import),
		Dependents: make(map[string]map[string]struct{}),
		BuiltAt:    time.Now(),
	}
}

// AddNode registers a scanned file.
func (g *Graph) AddNode(n *scanner.FileNode) {
	g.Nodes[n.Path] = n
}

// AddEdge records that from imports to. The forward edge and the reverse
// entry are always written together; nothing else mutates the two maps.
func (g *Graph) AddEdge(from, to string, imp scanner.Import) {
	if g.Edges[from] == nil {
		g.Edges[from] = make(map[string][]scanner.Import)
	}
	g.Edges[from][to] = append(g.Edges[from][to], imp)

	if g.Dependents[to] == nil {
		g.Dependents[to] = make(map[string]struct{})
	}
	g.Dependents[to][from] = struct{}{}
}

// Node returns the scanned node for path, or nil.
func (g *Graph) Node(path string) *scanner.FileNode {
	return g.Nodes[path]
}

// ResolveSpecifier maps a module specifier written in fromFile to a file
// known to this graph, using the same variant resolution the builder uses
// when creating edges. The second return is false for external or
// unresolvable specifiers.
func (g *Graph) ResolveSpecifier(fromFile, specifier string) (string, bool) {
	return resolveAgainst(g.Nodes, fromFile, specifier)
}

// DependentsOf returns the sorted set of files that import path directly.
func (g *Graph) DependentsOf(path string) []string {
	set := g.Dependents[path]
	if len(set) == 0 {
		return nil
	}
	deps := make([]string, 0, len(set))
	for d := range set {
		deps = append(deps, d)
	}
	sort.Strings(deps)
	return deps
}

// ImportsBetween returns the import references from one file to another,
// or nil when no direct edge exists.
func (g *Graph) ImportsBetween(from, to string) []scanner.Import {
	return g.Edges[from][to]
}

// NodeCount returns the number of files in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of resolved file-to-file edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, targets := range g.Edges {
		count += len(targets)
	}
	return count
}
