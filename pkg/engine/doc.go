// Package engine implements the ontology-driven graph simulation core.
//
// # Overview
//
// An Engine holds one loaded workspace: a typed property graph, an action
// catalog, an effect registry, an initial snapshot, and a chronological
// event history. The lifecycle is
//
//	LoadWorkspace → ExecuteAction* → Reset | History
//
// # Ripple Execution
//
// ExecuteAction applies the action's direct effect to the target node,
// then processes ripple rules in declaration order. Each rule selects
// neighbors through its propagation path (direction, edge type, node
// type), optionally filters them with a condition expression, and applies
// a secondary effect resolved from the registry. The executor performs
// exactly one pass over the rules and never re-enters ripple processing on
// newly updated nodes, which bounds total work and guarantees termination
// under arbitrary rule sets.
//
// Unknown effect functions degrade to warning insights; malformed
// propagation paths and erroring conditions select no neighbors. Setup
// errors (bad documents, limit violations) surface loudly from
// LoadWorkspace instead.
//
// # Snapshot and Reset
//
// The snapshot is a deep copy of every node's attribute map captured after
// graph construction and before any execution. Reset restores the live
// property maps from it and clears the history; edges are not snapshotted
// and not reset. The node set is fixed after load, so a reset can never
// orphan state.
//
// # Concurrency
//
// All public operations except History serialize on one internal mutex;
// History returns copies of the event log under the history queue's own
// lock. Execution is pure
// CPU and in-memory; the contract is serialization, not parallelism. Two
// concurrent ExecuteAction calls are safe but run one after the other.
package engine
