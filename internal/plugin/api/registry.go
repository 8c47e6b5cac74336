// Package api provides the Lua modules available to treesel scripts.
//
// Each module installs one global table:
//
//	selection  init_selection, node_incremental, node_decremental,
//	           visual_inner, range, reset
//	editor     cursor, set_cursor, mode, escape, line, line_count, text
//
// Functions raise a Lua error only for bad arguments; operations that
// have nothing to do return false.
package api

import (
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	luastate "github.com/dshills/treesel/internal/plugin/lua"
)

// Module is a Lua API module.
type Module interface {
	// Name returns the global the module is installed as.
	Name() string

	// Register installs the module into the Lua state.
	Register(L *lua.LState) error
}

// Registry holds API modules.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds a module.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns the registered module names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InjectAll installs every module into the state.
func (r *Registry) InjectAll(s *luastate.State) error {
	names := r.List()

	r.mu.RLock()
	defer r.mu.RUnlock()

	return s.Register(func(L *lua.LState) error {
		for _, name := range names {
			if err := r.modules[name].Register(L); err != nil {
				return fmt.Errorf("registering module %q: %w", name, err)
			}
		}
		return nil
	})
}
