// Package breaking diffs the exported-symbol sets of two versions of a
// file and classifies compatibility breaks, cross-referencing the
// dependency graph to report which dependents each break reaches.
package breaking

import (
	"fmt"
	"sort"
	"strings"

	"ripple/internal/depgraph"
	"ripple/internal/scanner"
)

// ChangeType classifies a breaking change to an exported symbol.
type ChangeType string

const (
	// ChangeRemoved means the symbol is gone with no plausible successor.
	ChangeRemoved ChangeType = "removed"
	// ChangeRenamed means a same-kind symbol with a highly similar name
	// replaced it.
	ChangeRenamed ChangeType = "renamed"
	// ChangeSignature means the symbol survives with a different
	// declaration signature.
	ChangeSignature ChangeType = "signature-changed"
	// ChangeMoved means the declaration relocated: the symbol became (or
	// stopped being) a re-export, or its re-export source changed.
	ChangeMoved ChangeType = "moved"
)

// Change is one detected breaking change.
type Change struct {
	File          string     `yaml:"file" json:"file"`
	Symbol        string     `yaml:"symbol" json:"symbol"`
	ChangeType    ChangeType `yaml:"change_type" json:"change_type"`
	AffectedFiles []string   `yaml:"affected_files,omitempty" json:"affected_files,omitempty"`
	Suggestion    string     `yaml:"suggestion,omitempty" json:"suggestion,omitempty"`
}

// RenameSimilarityThreshold is the minimum Levenshtein similarity
// (1 - distance/maxLen, case-insensitive) for a removed symbol to be
// paired with an added same-kind symbol as a rename.
const RenameSimilarityThreshold = 0.7

// GraphSource supplies the dependency graph and path normalization.
// *depgraph.Builder satisfies it.
type GraphSource interface {
	BuildGraph(force bool) (*depgraph.Graph, error)
	NormalizePath(p string) string
}

// Detector detects breaking changes. It only queries the graph, never
// mutates it.
type Detector struct {
	source GraphSource
}

// NewDetector creates a Detector over the given graph source.
func NewDetector(source GraphSource) *Detector {
	return &Detector{source: source}
}

// DetectBreakingChanges diffs the export sets of oldContent and newContent
// for file and reports every compatibility break with its affected
// dependents.
func (d *Detector) DetectBreakingChanges(file, oldContent, newContent string) ([]Change, error) {
	g, err := d.source.BuildGraph(false)
	if err != nil {
		return nil, err
	}
	normalized := d.source.NormalizePath(file)
	affected := dependentsOf(g, normalized)

	oldExports := indexExports(scanner.ExtractExports(oldContent))
	newExports := indexExports(scanner.ExtractExports(newContent))

	// Added symbols are rename candidates for removed ones.
	var added []scanner.Export
	for name, exp := range newExports {
		if _, ok := oldExports[name]; !ok {
			added = append(added, exp)
		}
	}
	sort.Slice(added, func(i, j int) bool { return added[i].Name < added[j].Name })

	names := make([]string, 0, len(oldExports))
	for name := range oldExports {
		names = append(names, name)
	}
	sort.Strings(names)

	var changes []Change
	for _, name := range names {
		oldExp := oldExports[name]
		newExp, survives := newExports[name]

		if survives {
			if movedBetween(oldExp, newExp) {
				changes = append(changes, Change{
					File:          normalized,
					Symbol:        name,
					ChangeType:    ChangeMoved,
					AffectedFiles: affected,
					Suggestion:    fmt.Sprintf("Keep a re-export of %s at %s so dependents keep resolving", name, normalized),
				})
				continue
			}
			if oldExp.Signature != "" && newExp.Signature != "" && oldExp.Signature != newExp.Signature {
				changes = append(changes, Change{
					File:          normalized,
					Symbol:        name,
					ChangeType:    ChangeSignature,
					AffectedFiles: affected,
					Suggestion:    fmt.Sprintf("Keep the old signature of %s callable (overload or defaulted parameters) until dependents migrate", name),
				})
			}
			continue
		}

		if successor, ok := bestRenameCandidate(oldExp, added); ok {
			changes = append(changes, Change{
				File:          normalized,
				Symbol:        name,
				ChangeType:    ChangeRenamed,
				AffectedFiles: affected,
				Suggestion:    fmt.Sprintf("Export %s as a deprecated alias of %s during a migration window", name, successor.Name),
			})
			continue
		}

		changes = append(changes, Change{
			File:          normalized,
			Symbol:        name,
			ChangeType:    ChangeRemoved,
			AffectedFiles: affected,
			Suggestion:    fmt.Sprintf("Deprecate %s with a shim before removing it; %d dependent file(s) still import from %s", name, len(affected), normalized),
		})
	}

	return changes, nil
}

// indexExports maps exports by name, keeping the first declaration when a
// name is extracted more than once.
func indexExports(exports []scanner.Export) map[string]scanner.Export {
	byName := make(map[string]scanner.Export, len(exports))
	for _, e := range exports {
		if _, ok := byName[e.Name]; !ok {
			byName[e.Name] = e
		}
	}
	return byName
}

// movedBetween reports whether a surviving symbol's declaration relocated.
func movedBetween(oldExp, newExp scanner.Export) bool {
	if oldExp.ReExport != newExp.ReExport {
		return true
	}
	return oldExp.ReExport && newExp.ReExport && oldExp.Source != newExp.Source
}

// bestRenameCandidate finds the most similar added symbol of the same
// declaration kind above the similarity threshold.
func bestRenameCandidate(removed scanner.Export, added []scanner.Export) (scanner.Export, bool) {
	var (
		best      scanner.Export
		bestScore float64
	)
	for _, candidate := range added {
		if candidate.Kind != removed.Kind {
			continue
		}
		score := similarity(removed.Name, candidate.Name)
		if score >= RenameSimilarityThreshold && score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, bestScore > 0
}

// similarity is 1 - levenshtein/maxLen over lowercased names.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes edit distance with a rolling single-row table.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min(row[j]+1, min(row[j-1]+1, prev+cost))
			prev = row[j]
			row[j] = next
		}
	}
	return row[len(b)]
}

func dependentsOf(g *depgraph.Graph, file string) []string {
	seen := map[string]struct{}{}
	var deps []string
	for _, variant := range depgraph.PathVariants(file) {
		for _, d := range g.DependentsOf(variant) {
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				deps = append(deps, d)
			}
		}
	}
	sort.Strings(deps)
	return deps
}
