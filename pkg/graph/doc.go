// Package graph implements the typed directed property multigraph used by
// the ripple executor.
//
// # Graph Representation
//
// Nodes are identified by opaque string ids and carry an open attribute
// map; the reserved "type" key holds the ontology type tag. Edges are
// directed (source → target), typed the same way, and may carry their own
// properties (for example traversal weights). Multiple edges between the
// same pair of nodes are allowed, including edges of the same type.
//
// # Ordering
//
// Node and edge iteration follow insertion order. The ripple executor
// depends on stable in-order traversal within a direction so repeated
// executions of the same action produce identical deltas.
//
// # Thread Safety
//
// The graph is not safe for concurrent use. The engine guards it with a
// single mutex, which is the required concurrency contract for the whole
// simulation core.
package graph
