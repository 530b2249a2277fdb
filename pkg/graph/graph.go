// Package graph provides the in-memory typed property multigraph backing
// the simulation engine. Nodes and edges carry arbitrary key/value
// properties; edge iteration within a direction is insertion order.
package graph

import (
	"fmt"

	"github.com/tomhans2/poc-palantir/pkg/types"
)

// Edge is a directed, typed connection between two nodes.
// The Attrs map holds the edge's "type" tag alongside any other properties.
type Edge struct {
	Source string
	Target string
	Attrs  map[string]interface{}
}

// Type returns the edge's type tag, or "" when untyped.
func (e *Edge) Type() string {
	if t, ok := e.Attrs["type"].(string); ok {
		return t
	}
	return ""
}

// Graph is a directed property multigraph. Multiple edges may connect the
// same pair of nodes, including edges of the same type; AddEdge does not
// reject duplicates. Not safe for concurrent use; the engine serializes
// access.
type Graph struct {
	attrs     map[string]map[string]interface{}
	nodeOrder []string
	edges     []*Edge
	outEdges  map[string][]*Edge
	inEdges   map[string][]*Edge
}

// New creates an empty graph
func New() *Graph {
	g := &Graph{}
	g.Clear()
	return g
}

// Clear removes all nodes and edges
func (g *Graph) Clear() {
	g.attrs = make(map[string]map[string]interface{})
	g.nodeOrder = nil
	g.edges = nil
	g.outEdges = make(map[string][]*Edge)
	g.inEdges = make(map[string][]*Edge)
}

// AddNode inserts a node with the given attribute map. Adding an existing
// id merges the new attributes over the old ones.
func (g *Graph) AddNode(id string, attrs map[string]interface{}) {
	existing, ok := g.attrs[id]
	if !ok {
		g.attrs[id] = types.DeepCopyMap(attrs)
		g.nodeOrder = append(g.nodeOrder, id)
		return
	}
	for k, v := range attrs {
		existing[k] = types.DeepCopyValue(v)
	}
}

// AddEdge inserts a directed edge. Both endpoints must already exist.
func (g *Graph) AddEdge(source, target string, attrs map[string]interface{}) error {
	if !g.HasNode(source) {
		return fmt.Errorf("%w: edge source %q", ErrNodeNotFound, source)
	}
	if !g.HasNode(target) {
		return fmt.Errorf("%w: edge target %q", ErrNodeNotFound, target)
	}
	edge := &Edge{Source: source, Target: target, Attrs: types.DeepCopyMap(attrs)}
	g.edges = append(g.edges, edge)
	g.outEdges[source] = append(g.outEdges[source], edge)
	g.inEdges[target] = append(g.inEdges[target], edge)
	return nil
}

// HasNode reports whether a node with the given id exists
func (g *Graph) HasNode(id string) bool {
	_, ok := g.attrs[id]
	return ok
}

// NodeAttrs returns the live attribute map of a node, or nil if absent.
// Callers that need an isolated view must deep-copy the result.
func (g *Graph) NodeAttrs(id string) map[string]interface{} {
	return g.attrs[id]
}

// NodeType returns the node's type tag, or "" when the node is absent or untyped.
func (g *Graph) NodeType(id string) string {
	if t, ok := g.attrs[id]["type"].(string); ok {
		return t
	}
	return ""
}

// SetNodeProp sets one property on a node. Unknown ids are ignored.
func (g *Graph) SetNodeProp(id, key string, value interface{}) {
	if attrs, ok := g.attrs[id]; ok {
		attrs[key] = value
	}
}

// ReplaceNodeAttrs clears a node's attribute map and repopulates it from a
// deep copy of the given map. Used by the snapshot manager on reset.
func (g *Graph) ReplaceNodeAttrs(id string, attrs map[string]interface{}) {
	current, ok := g.attrs[id]
	if !ok {
		return
	}
	for k := range current {
		delete(current, k)
	}
	for k, v := range attrs {
		current[k] = types.DeepCopyValue(v)
	}
}

// OutEdges returns the edges leaving the given node, in insertion order
func (g *Graph) OutEdges(id string) []*Edge {
	return g.outEdges[id]
}

// InEdges returns the edges entering the given node, in insertion order
func (g *Graph) InEdges(id string) []*Edge {
	return g.inEdges[id]
}

// Nodes returns all node ids in insertion order
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// Edges returns all edges in insertion order
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.attrs)
}

// EdgeCount returns the number of edges
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}
