// Package impact computes the blast radius of changing a set of files:
// every transitive dependent reachable through the reverse dependency
// index, an ordinal risk classification, and remediation suggestions.
package impact

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"ripple/internal/breaking"
	"ripple/internal/depgraph"
	"ripple/internal/scanner"
)

// ErrInvalidOptions is returned for caller options rejected before any
// traversal begins.
var ErrInvalidOptions = errors.New("invalid analysis options")

// Level is the ordinal risk classification of a change.
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// DefaultMaxDepth bounds reverse traversal when the caller does not.
const DefaultMaxDepth = 10

// Options controls an impact analysis.
type Options struct {
	// IncludeTests keeps test files in the affected set.
	IncludeTests bool `yaml:"include_tests" json:"include_tests"`
	// MaxDepth bounds the reverse traversal; must be positive.
	MaxDepth int `yaml:"max_depth" json:"max_depth"`
	// ExcludePatterns are globs ('*' any run, '?' one char) matched
	// against candidate dependent paths.
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty" json:"exclude_patterns,omitempty"`
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

// Detail explains why one affected file is implicated.
type Detail struct {
	File     string   `yaml:"file" json:"file"`
	Reason   string   `yaml:"reason" json:"reason"`
	Symbols  []string `yaml:"symbols,omitempty" json:"symbols,omitempty"`
	Severity string   `yaml:"severity" json:"severity"`
}

// Result is the outcome of one impact analysis. Results are transient,
// produced per call and owned by the caller.
type Result struct {
	TargetFiles     []string          `yaml:"target_files" json:"target_files"`
	AffectedFiles   []string          `yaml:"affected_files" json:"affected_files"`
	ImpactLevel     Level             `yaml:"impact_level" json:"impact_level"`
	Details         []Detail          `yaml:"details,omitempty" json:"details,omitempty"`
	Suggestions     []string          `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
	// BreakingChanges is attached by callers that pair the traversal with
	// breaking-change detection on the target (ripple impact --old).
	BreakingChanges []breaking.Change `yaml:"breaking_changes,omitempty" json:"breaking_changes,omitempty"`
}

// GraphSource supplies the dependency graph and path normalization.
// *depgraph.Builder satisfies it.
type GraphSource interface {
	BuildGraph(force bool) (*depgraph.Graph, error)
	NormalizePath(p string) string
}

// Analyzer runs impact analyses over a graph source.
type Analyzer struct {
	source GraphSource
}

// NewAnalyzer creates an Analyzer over the given graph source.
func NewAnalyzer(source GraphSource) *Analyzer {
	return &Analyzer{source: source}
}

// AnalyzeImpact computes the transitive dependents of targetFiles.
func (a *Analyzer) AnalyzeImpact(targetFiles []string, opts Options) (*Result, error) {
	if opts.MaxDepth <= 0 {
		return nil, fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidOptions, opts.MaxDepth)
	}
	excludes, err := compilePatterns(opts.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	g, err := a.source.BuildGraph(false)
	if err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(targetFiles))
	for _, t := range targetFiles {
		targets = append(targets, a.source.NormalizePath(t))
	}
	sort.Strings(targets)

	// Seed the traversal from every graph-known variant of every target,
	// mirroring the builder's resolution policy: a source-path target must
	// match edges recorded against an equivalent artifact path.
	seeds := map[string]struct{}{}
	visited := map[string]struct{}{}
	for _, t := range targets {
		visited[t] = struct{}{}
		for _, v := range depgraph.PathVariants(t) {
			if _, ok := g.Nodes[v]; ok {
				seeds[v] = struct{}{}
				visited[v] = struct{}{}
			}
		}
	}

	type hop struct {
		path  string
		depth int
	}
	queue := make([]hop, 0, len(seeds))
	for s := range seeds {
		queue = append(queue, hop{path: s, depth: 0})
	}
	sort.Slice(queue, func(i, j int) bool { return queue[i].path < queue[j].path })

	var (
		affected []string
		details  []Detail
	)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.depth >= opts.MaxDepth {
			continue
		}
		for _, dep := range g.DependentsOf(current.path) {
			if _, seen := visited[dep]; seen {
				continue
			}
			visited[dep] = struct{}{}
			if matchesAny(excludes, dep) {
				continue
			}
			if !opts.IncludeTests && IsTestFile(dep) {
				continue
			}
			affected = append(affected, dep)
			if imports := g.ImportsBetween(dep, current.path); len(imports) > 0 {
				details = append(details, Detail{
					File:     dep,
					Reason:   fmt.Sprintf("imports from %s", current.path),
					Symbols:  referencedSymbols(imports),
					Severity: "warning",
				})
			}
			// A dependent that merely imports absorbs the change at its own
			// boundary; its dependents see nothing. Only a re-export from the
			// current file carries the changed surface further out.
			if reExportsFrom(g, dep, current.path) {
				queue = append(queue, hop{path: dep, depth: current.depth + 1})
			}
		}
	}

	sort.Strings(affected)
	sort.Slice(details, func(i, j int) bool { return details[i].File < details[j].File })

	return &Result{
		TargetFiles:   targets,
		AffectedFiles: affected,
		ImpactLevel:   Classify(len(affected)),
		Details:       details,
		Suggestions:   buildSuggestions(affected),
	}, nil
}

// Classify maps an affected-file count to an impact level. The breakpoints
// are a compatibility contract: 0-3 low, 4-10 medium, 11-25 high,
// above 25 critical.
func Classify(affectedCount int) Level {
	switch {
	case affectedCount > 25:
		return LevelCritical
	case affectedCount > 10:
		return LevelHigh
	case affectedCount > 3:
		return LevelMedium
	default:
		return LevelLow
	}
}

// buildSuggestions generates remediation guidance from the affected set.
func buildSuggestions(affected []string) []string {
	if len(affected) == 0 {
		return []string{"No other files depend on the target; safe to modify"}
	}

	suggestions := []string{
		fmt.Sprintf("Review the %d affected file(s) before merging this change", len(affected)),
	}
	for _, f := range affected {
		if IsTestFile(f) {
			suggestions = append(suggestions, "Update the affected test files to match the new behavior")
			break
		}
	}
	if len(affected) > 10 {
		suggestions = append(suggestions,
			"Consider making the change backward-compatible to reduce risk",
			"Deprecate the old interface first, then migrate dependents incrementally")
	}
	return suggestions
}

// reExportsFrom reports whether dep re-exports symbols that originate in
// origin, resolving each re-export source the way the builder resolves
// import specifiers.
func reExportsFrom(g *depgraph.Graph, dep, origin string) bool {
	node := g.Node(dep)
	if node == nil {
		return false
	}
	for _, exp := range node.Exports {
		if !exp.ReExport {
			continue
		}
		if resolved, ok := g.ResolveSpecifier(dep, exp.Source); ok && resolved == origin {
			return true
		}
	}
	return false
}

// IsTestFile reports whether path looks like a test by JS/TS conventions.
func IsTestFile(p string) bool {
	base := path.Base(p)
	if strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
		return true
	}
	for _, seg := range strings.Split(path.Dir(p), "/") {
		switch seg {
		case "test", "tests", "__tests__":
			return true
		}
	}
	return false
}

// referencedSymbols collects the distinct symbol names across the imports
// that create a direct edge.
func referencedSymbols(imports []scanner.Import) []string {
	seen := map[string]struct{}{}
	var symbols []string
	for _, imp := range imports {
		for _, s := range imp.Symbols {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				symbols = append(symbols, s)
			}
		}
	}
	sort.Strings(symbols)
	return symbols
}
