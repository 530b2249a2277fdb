package effect

import (
	"sort"
	"sync"

	"github.com/tomhans2/poc-palantir/pkg/types"
)

// Provenance labels for registered effects
const (
	SourceBuiltin = "builtin"
	SourceCustom  = "custom"
)

// Registry maps effect-function names to callable implementations tagged
// by provenance. Registration order matters: custom modules register after
// builtins so a custom effect sharing a name overwrites the builtin.
type Registry struct {
	funcs   map[string]Func
	sources map[string]string
	mu      sync.RWMutex
}

// NewRegistry creates an empty effect registry
func NewRegistry() *Registry {
	return &Registry{
		funcs:   make(map[string]Func),
		sources: make(map[string]string),
	}
}

// Register adds an effect under the given name with a provenance label.
// Registering an existing name overwrites the previous entry.
func (r *Registry) Register(name string, fn Func, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
	r.sources[name] = source
}

// RegisterModule registers every effect of a module under one provenance label
func (r *Registry) RegisterModule(m *Module, source string) {
	for _, entry := range m.Entries() {
		r.Register(entry.Name, entry.Fn, source)
	}
}

// Get returns the effect registered under name, or nil
func (r *Registry) Get(name string) Func {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.funcs[name]
}

// Has reports whether an effect is registered under name
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.funcs[name]
	return ok
}

// List returns all registered effects with their provenance, sorted by name
func (r *Registry) List() []types.RegisteredFunction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.RegisteredFunction, 0, len(r.funcs))
	for name := range r.funcs {
		out = append(out, types.RegisteredFunction{Name: name, Source: r.sources[name]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
