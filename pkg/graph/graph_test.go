package graph

import "testing"

func buildTestGraph(t *testing.T) *Graph {
	t.Helper()

	g := New()
	g.AddNode("A", map[string]interface{}{"type": "Company", "valuation": 100.0})
	g.AddNode("B", map[string]interface{}{"type": "Company", "valuation": 200.0})
	g.AddNode("E", map[string]interface{}{"type": "Event", "status": "PENDING"})

	if err := g.AddEdge("A", "E", map[string]interface{}{"type": "ACQUIRES"}); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if err := g.AddEdge("B", "E", map[string]interface{}{"type": "TARGET_OF"}); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	return g
}

func TestAddNodeAndLookup(t *testing.T) {
	g := buildTestGraph(t)

	if !g.HasNode("A") {
		t.Error("expected node A to exist")
	}
	if g.HasNode("Z") {
		t.Error("did not expect node Z to exist")
	}
	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.NodeCount())
	}
	if g.NodeType("A") != "Company" {
		t.Errorf("expected type Company, got %q", g.NodeType("A"))
	}
	if g.NodeType("Z") != "" {
		t.Errorf("expected empty type for unknown node, got %q", g.NodeType("Z"))
	}
}

func TestAddEdgeRequiresEndpoints(t *testing.T) {
	g := New()
	g.AddNode("A", map[string]interface{}{"type": "Company"})

	if err := g.AddEdge("A", "missing", nil); err == nil {
		t.Error("expected error for missing target")
	}
	if err := g.AddEdge("missing", "A", nil); err == nil {
		t.Error("expected error for missing source")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("expected no edges, got %d", g.EdgeCount())
	}
}

func TestEdgeIterationOrder(t *testing.T) {
	g := New()
	g.AddNode("hub", map[string]interface{}{"type": "Hub"})
	for _, id := range []string{"n1", "n2", "n3"} {
		g.AddNode(id, map[string]interface{}{"type": "Spoke"})
		if err := g.AddEdge("hub", id, map[string]interface{}{"type": "LINK"}); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}

	out := g.OutEdges("hub")
	if len(out) != 3 {
		t.Fatalf("expected 3 out edges, got %d", len(out))
	}
	for i, want := range []string{"n1", "n2", "n3"} {
		if out[i].Target != want {
			t.Errorf("edge %d: expected target %s, got %s", i, want, out[i].Target)
		}
	}
}

func TestInOutEdges(t *testing.T) {
	g := buildTestGraph(t)

	in := g.InEdges("E")
	if len(in) != 2 {
		t.Fatalf("expected 2 in edges, got %d", len(in))
	}
	if in[0].Source != "A" || in[1].Source != "B" {
		t.Errorf("unexpected in edge order: %s, %s", in[0].Source, in[1].Source)
	}

	if len(g.OutEdges("E")) != 0 {
		t.Error("expected no out edges for E")
	}
	if len(g.OutEdges("A")) != 1 {
		t.Error("expected 1 out edge for A")
	}
}

func TestParallelEdgesDifferingInType(t *testing.T) {
	g := New()
	g.AddNode("A", map[string]interface{}{"type": "Company"})
	g.AddNode("B", map[string]interface{}{"type": "Company"})

	if err := g.AddEdge("A", "B", map[string]interface{}{"type": "SUPPLIES_TO"}); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}
	if err := g.AddEdge("A", "B", map[string]interface{}{"type": "INVESTS_IN"}); err != nil {
		t.Fatalf("AddEdge failed: %v", err)
	}

	out := g.OutEdges("A")
	if len(out) != 2 {
		t.Fatalf("expected 2 parallel edges, got %d", len(out))
	}
	if out[0].Type() != "SUPPLIES_TO" || out[1].Type() != "INVESTS_IN" {
		t.Errorf("unexpected edge types: %s, %s", out[0].Type(), out[1].Type())
	}
}

func TestAddNodeDeepCopiesAttrs(t *testing.T) {
	g := New()
	attrs := map[string]interface{}{
		"type":   "Company",
		"nested": map[string]interface{}{"key": "original"},
	}
	g.AddNode("A", attrs)

	attrs["nested"].(map[string]interface{})["key"] = "mutated"

	stored := g.NodeAttrs("A")["nested"].(map[string]interface{})
	if stored["key"] != "original" {
		t.Errorf("graph attrs aliased caller map: got %v", stored["key"])
	}
}

func TestSetNodeProp(t *testing.T) {
	g := buildTestGraph(t)

	g.SetNodeProp("E", "status", "FAILED")
	if g.NodeAttrs("E")["status"] != "FAILED" {
		t.Errorf("expected FAILED, got %v", g.NodeAttrs("E")["status"])
	}

	// Unknown ids are ignored
	g.SetNodeProp("Z", "status", "FAILED")
	if g.HasNode("Z") {
		t.Error("SetNodeProp must not create nodes")
	}
}

func TestReplaceNodeAttrs(t *testing.T) {
	g := buildTestGraph(t)

	g.SetNodeProp("E", "extra", "value")
	g.ReplaceNodeAttrs("E", map[string]interface{}{"type": "Event", "status": "PENDING"})

	attrs := g.NodeAttrs("E")
	if _, ok := attrs["extra"]; ok {
		t.Error("expected extra property to be cleared")
	}
	if attrs["status"] != "PENDING" {
		t.Errorf("expected PENDING, got %v", attrs["status"])
	}
}

func TestClear(t *testing.T) {
	g := buildTestGraph(t)
	g.Clear()

	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("expected empty graph, got %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if len(g.Nodes()) != 0 || len(g.Edges()) != 0 {
		t.Error("expected empty iterables after Clear")
	}
}
