package engine

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tomhans2/poc-palantir/pkg/types"
)

// titleCaser derives display labels from ontology type tags
var titleCaser = cases.Title(language.English)

// GraphForRender exports the graph in the nested frontend form:
// node properties split out from the type tag, edges likewise. Loading
// the rendered form back reproduces the same graph.
func (e *Engine) GraphForRender() types.GraphData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderGraph()
}

// renderGraph builds the render form; callers must hold the mutex
func (e *Engine) renderGraph() types.GraphData {
	nodes := make([]types.GraphNode, 0, e.graph.NodeCount())
	for _, id := range e.graph.Nodes() {
		attrs := e.graph.NodeAttrs(id)
		props := make(map[string]interface{}, len(attrs))
		for k, v := range attrs {
			if k == "type" {
				continue
			}
			props[k] = types.DeepCopyValue(v)
		}
		nodes = append(nodes, types.GraphNode{
			ID:         id,
			Type:       e.graph.NodeType(id),
			Properties: props,
		})
	}

	edges := make([]types.GraphEdge, 0, e.graph.EdgeCount())
	for _, edge := range e.graph.Edges() {
		props := make(map[string]interface{}, len(edge.Attrs))
		for k, v := range edge.Attrs {
			if k == "type" {
				continue
			}
			props[k] = types.DeepCopyValue(v)
		}
		edges = append(edges, types.GraphEdge{
			Source:     edge.Source,
			Target:     edge.Target,
			Type:       edge.Type(),
			Properties: props,
		})
	}

	return types.GraphData{Nodes: nodes, Edges: edges}
}

// ontologyWithLabels fills missing display labels with a Title-cased form
// of the type tag so the renderer always has something to show.
func (e *Engine) ontologyWithLabels(def types.OntologyDef) types.OntologyDef {
	out := types.OntologyDef{
		NodeTypes: make(map[string]types.NodeTypeDef, len(def.NodeTypes)),
		EdgeTypes: make(map[string]types.EdgeTypeDef, len(def.EdgeTypes)),
	}
	for tag, nt := range def.NodeTypes {
		if nt.Label == "" {
			nt.Label = labelFromTag(tag)
		}
		out.NodeTypes[tag] = nt
	}
	for tag, et := range def.EdgeTypes {
		if et.Label == "" {
			et.Label = labelFromTag(tag)
		}
		out.EdgeTypes[tag] = et
	}
	return out
}

// labelFromTag turns a type tag like "Event_Acquisition" or "SUPPLIES_TO"
// into a human-readable label
func labelFromTag(tag string) string {
	words := strings.ReplaceAll(tag, "_", " ")
	return titleCaser.String(strings.ToLower(words))
}
