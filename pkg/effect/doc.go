// Package effect defines effect functions, effect modules, and the
// registry the ripple executor resolves effect names against.
//
// # Effect Functions
//
// An effect function has the uniform signature
//
//	func(ctx *effect.Context) (*effect.Result, error)
//
// It receives attribute snapshots of the source and target nodes, the
// rule's parameters, and a read-only graph handle, and returns the
// properties to write to the target plus the old values to record in the
// execution delta. Effect functions must not mutate the graph directly or
// spawn background work.
//
// # Modules and Provenance
//
// Effects are grouped into Modules: explicit, compile-time lists built
// with NewModule().Add(...). The registry tags every entry with a
// provenance label: "builtin" for the generic effect library, "custom"
// for domain modules linked into the host. Custom modules register after
// builtins, so a custom effect sharing a builtin's name wins.
package effect
