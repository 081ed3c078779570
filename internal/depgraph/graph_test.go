package depgraph

import (
	"reflect"
	"testing"

	"ripple/internal/scanner"
)

func edge(symbols ...string) scanner.Import {
	return scanner.Import{Specifier: "./x", Kind: scanner.ImportNamed, Symbols: symbols}
}

func TestGraph_AddEdgeKeepsReverseIndexConsistent(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a.ts", "b.ts", edge("b1"))
	g.AddEdge("a.ts", "c.ts", edge("c1"))
	g.AddEdge("b.ts", "c.ts", edge("c2"))

	// Every forward edge must appear in the reverse index and vice versa.
	for from, targets := range g.Edges {
		for to := range targets {
			if _, ok := g.Dependents[to][from]; !ok {
				t.Errorf("forward edge %s -> %s missing from reverse index", from, to)
			}
		}
	}
	for to, sources := range g.Dependents {
		for from := range sources {
			if len(g.Edges[from][to]) == 0 {
				t.Errorf("reverse entry %s <- %s missing from forward edges", to, from)
			}
		}
	}
}

func TestGraph_DependentsOfSorted(t *testing.T) {
	g := NewGraph()
	g.AddEdge("z.ts", "shared.ts", edge())
	g.AddEdge("a.ts", "shared.ts", edge())
	g.AddEdge("m.ts", "shared.ts", edge())

	got := g.DependentsOf("shared.ts")
	want := []string{"a.ts", "m.ts", "z.ts"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DependentsOf() = %v, want %v", got, want)
	}
}

func TestGraph_DependentsOfUnknownFile(t *testing.T) {
	g := NewGraph()
	if got := g.DependentsOf("nope.ts"); got != nil {
		t.Errorf("expected nil for unknown file, got %v", got)
	}
}

func TestGraph_ImportsBetween(t *testing.T) {
	g := NewGraph()
	g.AddEdge("a.ts", "b.ts", edge("x"))
	g.AddEdge("a.ts", "b.ts", edge("y"))

	imports := g.ImportsBetween("a.ts", "b.ts")
	if len(imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(imports))
	}
	if imports[0].Symbols[0] != "x" || imports[1].Symbols[0] != "y" {
		t.Errorf("unexpected imports: %+v", imports)
	}

	if got := g.ImportsBetween("b.ts", "a.ts"); got != nil {
		t.Errorf("expected nil for missing edge, got %v", got)
	}
}

func TestGraph_Counts(t *testing.T) {
	g := NewGraph()
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("empty graph counts = %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}

	g.AddNode(&scanner.FileNode{Path: "a.ts"})
	g.AddNode(&scanner.FileNode{Path: "b.ts"})
	g.AddNode(&scanner.FileNode{Path: "c.ts"})
	g.AddEdge("a.ts", "b.ts", edge())
	g.AddEdge("a.ts", "c.ts", edge())
	g.AddEdge("b.ts", "c.ts", edge())
	// A second import between the same files is not a new edge
	g.AddEdge("a.ts", "b.ts", edge("again"))

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Errorf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
}
