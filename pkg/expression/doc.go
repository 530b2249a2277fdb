// Package expression provides the sandboxed condition evaluator for ripple
// rules.
//
// # Expression Language
//
// Conditions are boolean expressions over two bound variables:
//
//   - source: attribute snapshot of the rule's source node
//   - target: attribute snapshot of the candidate neighbor
//
// Attribute lookup (source.valuation or source["valuation"]), comparison
// operators (==, !=, <, <=, >, >=), arithmetic, and boolean and/or/not are
// supported through expr-lang/expr. The environment contains nothing else:
// no graph handle, no writes, no host functions.
//
// # Failure Semantics
//
// The executor treats any compilation or evaluation error as the condition
// evaluating to false, so one malformed rule never aborts an action. The
// error returns here exist for logging and tests.
//
// # Caching
//
// Compiled programs are cached by expression text. A workspace typically
// declares a handful of conditions evaluated once per matching edge, so
// the cache keeps repeated executions cheap.
package expression
