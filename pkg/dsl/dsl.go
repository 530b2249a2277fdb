// Package dsl parses the Cypher-inspired propagation-path strings used by
// ripple rules to select neighbors.
package dsl

import "strings"

// Direction of traversal relative to the rule's source node
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// Path is the parsed form of a propagation path
type Path struct {
	Direction Direction
	EdgeType  string
	NodeType  string
}

// Parse parses a propagation path of one of two forms:
//
//	<-[EDGE_TYPE]- NodeType    (incoming)
//	-[EDGE_TYPE]-> NodeType    (outgoing)
//
// Malformed paths return ok=false so that one broken rule selects no
// neighbors instead of aborting the whole action.
func Parse(path string) (Path, bool) {
	open := strings.Index(path, "[")
	end := strings.Index(path, "]")
	if open < 0 || end < 0 || end < open {
		return Path{}, false
	}

	direction := DirectionOutgoing
	if strings.HasPrefix(path, "<-") {
		direction = DirectionIncoming
	}

	edgeType := path[open+1 : end]

	// After "]" an incoming path reads "- NodeType", an outgoing path
	// "-> NodeType"; strip the connector and surrounding whitespace.
	nodeType := path[end+1:]
	nodeType = strings.TrimLeft(nodeType, "-")
	nodeType = strings.TrimLeft(nodeType, ">")
	nodeType = strings.TrimSpace(nodeType)
	if nodeType == "" {
		return Path{}, false
	}

	return Path{Direction: direction, EdgeType: edgeType, NodeType: nodeType}, true
}
