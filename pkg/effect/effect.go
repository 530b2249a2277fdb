// Package effect defines the effect function model and the registry that
// resolves effect names for the ripple executor.
package effect

import "github.com/tomhans2/poc-palantir/pkg/graph"

// Context carries everything an effect function may consult.
// SourceNode and TargetNode are attribute snapshots; writing to them has
// no effect on the graph. The graph handle is for read-only traversal.
type Context struct {
	SourceNode map[string]interface{}
	TargetNode map[string]interface{}
	SourceID   string
	TargetID   string
	Params     map[string]interface{}
	Graph      *graph.Graph
}

// Result is returned by every effect function. The executor writes
// UpdatedProperties back to the target node and records OldValues in the
// delta under `_old_<prop>` keys.
type Result struct {
	UpdatedProperties map[string]interface{}
	OldValues         map[string]interface{}
}

// Func is the uniform effect function signature
type Func func(ctx *Context) (*Result, error)

// Entry is one named effect inside a module
type Entry struct {
	Name string
	Fn   Func
}

// Module is an explicit, compile-time list of registrable effects.
// This is the static-registration counterpart of scanning a module for
// decorated callables: a module author lists each effect once, and the
// registry registers them all under one provenance label.
type Module struct {
	name    string
	entries []Entry
}

// NewModule creates an empty effect module with the given name
func NewModule(name string) *Module {
	return &Module{name: name}
}

// Name returns the module name
func (m *Module) Name() string {
	return m.name
}

// Add appends a named effect to the module and returns the module for chaining
func (m *Module) Add(name string, fn Func) *Module {
	m.entries = append(m.entries, Entry{Name: name, Fn: fn})
	return m
}

// Entries returns the module's effects in declaration order
func (m *Module) Entries() []Entry {
	return m.entries
}
