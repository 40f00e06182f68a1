package dag

import (
	"reflect"
	"testing"
)

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := NewGraph()

	g.AddNode("A", "Anatomy")
	g.AddNode("A1", "Cornea")
	g.AddNode("A1a", "Keratitis")

	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NodeCount())
	}

	if err := g.AddEdge("A", "A1"); err != nil {
		t.Errorf("failed to add edge: %v", err)
	}
	if err := g.AddEdge("A1", "A1a"); err != nil {
		t.Errorf("failed to add edge: %v", err)
	}
	// duplicate edges are ignored
	if err := g.AddEdge("A1", "A1a"); err != nil {
		t.Errorf("failed to add edge: %v", err)
	}

	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges, got %d", g.EdgeCount())
	}
}

func TestGraph_AddNode_FirstWins(t *testing.T) {
	g := NewGraph()

	if !g.AddNode("A", "first") {
		t.Error("expected first AddNode to report true")
	}
	if g.AddNode("A", "second") {
		t.Error("expected duplicate AddNode to report false")
	}

	node, ok := g.GetNode("A")
	if !ok {
		t.Fatal("expected node A to exist")
	}
	if node.Data != "first" {
		t.Errorf("expected first data to be kept, got %v", node.Data)
	}
}

func TestGraph_AddEdge_InvalidNodes(t *testing.T) {
	g := NewGraph()
	g.AddNode("A", nil)

	if err := g.AddEdge("A", "missing"); err == nil {
		t.Error("expected error for nonexistent child node")
	}
	if err := g.AddEdge("missing", "A"); err == nil {
		t.Error("expected error for nonexistent parent node")
	}
}

func TestGraph_GetChildren_InsertionOrder(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"R", "Z", "M", "B"} {
		g.AddNode(id, nil)
	}
	g.AddEdge("R", "Z")
	g.AddEdge("R", "M")
	g.AddEdge("R", "B")

	want := []string{"Z", "M", "B"}
	if got := g.GetChildren("R"); !reflect.DeepEqual(got, want) {
		t.Errorf("expected children %v, got %v", want, got)
	}
	if got := g.GetParents("M"); !reflect.DeepEqual(got, []string{"R"}) {
		t.Errorf("expected parents [R], got %v", got)
	}
}

func TestGraph_GetDescendants(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"A", "A1", "A1a", "B", "B1", "X"} {
		g.AddNode(id, nil)
	}
	g.AddEdge("A", "A1")
	g.AddEdge("A1", "A1a")
	g.AddEdge("B", "B1")

	got := g.GetDescendants([]string{"A", "missing"})
	want := []string{"A", "A1", "A1a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	// cycles terminate
	g.AddEdge("A1a", "A")
	got = g.GetDescendants([]string{"A1"})
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGraph_GetLeaves(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"B", "A", "A1", "A2"} {
		g.AddNode(id, nil)
	}
	g.AddEdge("A", "A1")
	g.AddEdge("A", "A2")

	if got := g.GetLeaves(); !reflect.DeepEqual(got, []string{"A1", "A2", "B"}) {
		t.Errorf("expected leaves [A1 A2 B], got %v", got)
	}
}

func TestGraph_FindCycleFrom(t *testing.T) {
	tests := []struct {
		name      string
		edges     [][2]string
		roots     []string
		wantCycle bool
		wantPath  []string
	}{
		{
			name:  "acyclic",
			edges: [][2]string{{"R", "A"}, {"A", "B"}, {"R", "B"}},
			roots: []string{"R"},
		},
		{
			name:      "reachable cycle",
			edges:     [][2]string{{"R", "A"}, {"A", "B"}, {"B", "A"}},
			roots:     []string{"R"},
			wantCycle: true,
			wantPath:  []string{"A", "B", "A"},
		},
		{
			name:  "unreachable cycle is ignored",
			edges: [][2]string{{"R", "A"}, {"X", "Y"}, {"Y", "X"}},
			roots: []string{"R"},
		},
		{
			name:      "self loop",
			edges:     [][2]string{{"R", "R"}},
			roots:     []string{"R"},
			wantCycle: true,
			wantPath:  []string{"R", "R"},
		},
		{
			name:  "unknown root",
			edges: [][2]string{{"R", "A"}},
			roots: []string{"missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGraph()
			for _, e := range tt.edges {
				g.AddNode(e[0], nil)
				g.AddNode(e[1], nil)
				if err := g.AddEdge(e[0], e[1]); err != nil {
					t.Fatalf("failed to add edge: %v", err)
				}
			}

			hasCycle, path := g.FindCycleFrom(tt.roots)
			if hasCycle != tt.wantCycle {
				t.Fatalf("expected cycle=%v, got %v (%v)", tt.wantCycle, hasCycle, path)
			}
			if tt.wantCycle && !reflect.DeepEqual(path, tt.wantPath) {
				t.Errorf("expected path %v, got %v", tt.wantPath, path)
			}
		})
	}
}
