package breaking

import (
	"testing"

	"ripple/internal/depgraph"
	"ripple/internal/scanner"
)

// stubSource serves a hand-built graph without scanning anything.
type stubSource struct {
	graph *depgraph.Graph
}

func (s *stubSource) BuildGraph(force bool) (*depgraph.Graph, error) {
	return s.graph, nil
}

func (s *stubSource) NormalizePath(p string) string {
	return depgraph.NormalizePath("", p)
}

func graphWithDependents(target string, dependents ...string) *depgraph.Graph {
	g := depgraph.NewGraph()
	g.AddNode(&scanner.FileNode{Path: target})
	for _, d := range dependents {
		g.AddNode(&scanner.FileNode{Path: d})
		g.AddEdge(d, target, scanner.Import{Specifier: "./t", Kind: scanner.ImportNamed})
	}
	return g
}

func detect(t *testing.T, g *depgraph.Graph, file, oldContent, newContent string) []Change {
	t.Helper()
	d := NewDetector(&stubSource{graph: g})
	changes, err := d.DetectBreakingChanges(file, oldContent, newContent)
	if err != nil {
		t.Fatalf("DetectBreakingChanges() error: %v", err)
	}
	return changes
}

func TestDetect_IdenticalExportsNoChanges(t *testing.T) {
	content := `export function parse(input) {
export const VERSION = 1
`
	changes := detect(t, graphWithDependents("api.ts", "app.ts"), "api.ts", content, content)
	if len(changes) != 0 {
		t.Errorf("expected no changes, got %+v", changes)
	}
}

func TestDetect_RemovedSymbol(t *testing.T) {
	oldContent := `export function parse(input) {
export function stringify(value) {
`
	newContent := `export function parse(input) {
`
	changes := detect(t, graphWithDependents("api.ts", "a.ts", "b.ts"), "api.ts", oldContent, newContent)

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", changes)
	}
	c := changes[0]
	if c.ChangeType != ChangeRemoved {
		t.Errorf("ChangeType = %s, want removed", c.ChangeType)
	}
	if c.Symbol != "stringify" {
		t.Errorf("Symbol = %s, want stringify", c.Symbol)
	}
	if len(c.AffectedFiles) != 2 {
		t.Errorf("AffectedFiles = %v, want 2 files", c.AffectedFiles)
	}
	if c.Suggestion == "" {
		t.Error("expected a suggestion")
	}
}

func TestDetect_AddedSymbolIsNotBreaking(t *testing.T) {
	oldContent := `export function parse(input) {
`
	newContent := `export function parse(input) {
export function stringify(value) {
`
	changes := detect(t, graphWithDependents("api.ts"), "api.ts", oldContent, newContent)
	if len(changes) != 0 {
		t.Errorf("additions are not breaking, got %+v", changes)
	}
}

func TestDetect_RenamedSymbol(t *testing.T) {
	oldContent := `export function parseConfig(input) {
`
	newContent := `export function parseConfigFile(input) {
`
	changes := detect(t, graphWithDependents("config.ts", "app.ts"), "config.ts", oldContent, newContent)

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", changes)
	}
	if changes[0].ChangeType != ChangeRenamed {
		t.Errorf("ChangeType = %s, want renamed", changes[0].ChangeType)
	}
	if changes[0].Symbol != "parseConfig" {
		t.Errorf("Symbol = %s", changes[0].Symbol)
	}
}

func TestDetect_DissimilarNameIsRemoval(t *testing.T) {
	oldContent := `export function parseConfig(input) {
`
	newContent := `export function writeOutput(value) {
`
	changes := detect(t, graphWithDependents("config.ts"), "config.ts", oldContent, newContent)

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", changes)
	}
	if changes[0].ChangeType != ChangeRemoved {
		t.Errorf("ChangeType = %s, want removed (similarity below threshold)", changes[0].ChangeType)
	}
}

func TestDetect_RenameRequiresSameKind(t *testing.T) {
	// Same-ish name but function -> const: not a rename candidate.
	oldContent := `export function parseConfig(input) {
`
	newContent := `export const parseConfigs = []
`
	changes := detect(t, graphWithDependents("config.ts"), "config.ts", oldContent, newContent)

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", changes)
	}
	if changes[0].ChangeType != ChangeRemoved {
		t.Errorf("ChangeType = %s, want removed", changes[0].ChangeType)
	}
}

func TestDetect_SignatureChanged(t *testing.T) {
	oldContent := `export function request(url) {
`
	newContent := `export function request(url, options) {
`
	changes := detect(t, graphWithDependents("http.ts", "client.ts"), "http.ts", oldContent, newContent)

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", changes)
	}
	if changes[0].ChangeType != ChangeSignature {
		t.Errorf("ChangeType = %s, want signature-changed", changes[0].ChangeType)
	}
	if changes[0].Symbol != "request" {
		t.Errorf("Symbol = %s", changes[0].Symbol)
	}
}

func TestDetect_MovedToReExport(t *testing.T) {
	oldContent := `export function helper() {
`
	newContent := `export { helper } from './internal/helper'
`
	changes := detect(t, graphWithDependents("helper.ts", "app.ts"), "helper.ts", oldContent, newContent)

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", changes)
	}
	if changes[0].ChangeType != ChangeMoved {
		t.Errorf("ChangeType = %s, want moved", changes[0].ChangeType)
	}
}

func TestDetect_ReExportSourceChanged(t *testing.T) {
	oldContent := `export { helper } from './v1/helper'
`
	newContent := `export { helper } from './v2/helper'
`
	changes := detect(t, graphWithDependents("barrel.ts"), "barrel.ts", oldContent, newContent)

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", changes)
	}
	if changes[0].ChangeType != ChangeMoved {
		t.Errorf("ChangeType = %s, want moved", changes[0].ChangeType)
	}
}

func TestDetect_NoDependentsStillReported(t *testing.T) {
	oldContent := `export const GONE = 1
`
	changes := detect(t, graphWithDependents("lonely.ts"), "lonely.ts", oldContent, "")

	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %+v", changes)
	}
	if len(changes[0].AffectedFiles) != 0 {
		t.Errorf("AffectedFiles = %v, want empty", changes[0].AffectedFiles)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b    string
		atLeast float64
		below   float64
	}{
		{"parseConfig", "parseConfig", 1.0, 1.01},
		{"parseConfig", "ParseConfig", 1.0, 1.01}, // case-insensitive
		{"parseConfig", "parseConfigFile", 0.7, 1.0},
		{"parseConfig", "writeOutput", 0.0, 0.5},
		{"", "", 1.0, 1.01},
	}

	for _, tt := range tests {
		got := similarity(tt.a, tt.b)
		if got < tt.atLeast || got >= tt.below {
			t.Errorf("similarity(%q, %q) = %f, want [%f, %f)", tt.a, tt.b, got, tt.atLeast, tt.below)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"parse", "sparse", 1},
	}

	for _, tt := range tests {
		if got := levenshtein(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
