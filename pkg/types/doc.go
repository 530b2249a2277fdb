// Package types defines the workspace document model and shared value helpers.
//
// # Overview
//
// A workspace document describes four things:
//
//   - Metadata: domain name, version, and description
//   - OntologyDef: declared node and edge types with display metadata
//   - GraphData: the typed property graph (nodes and directed edges)
//   - ActionEngine: the catalog of actions and their ripple rules
//
// The package also defines the structured records produced by a simulation:
// Insight, DeltaGraph, and SimulationResult.
//
// # Value Domain
//
// Node, edge, and parameter property values are JSON-domain values: string,
// float64, bool, nil, map[string]interface{}, and []interface{}. DeepCopyMap
// and DeepCopyValue provide the deep-copy contract the snapshot manager and
// the condition evaluator rely on.
package types
