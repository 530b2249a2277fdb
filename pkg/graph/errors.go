package graph

import "errors"

// Sentinel errors for graph operations
var (
	ErrNodeNotFound = errors.New("node not found in graph")
	ErrEdgeNotFound = errors.New("edge not found in graph")
)
