package keymap

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// parsedBinding is a binding with its keys split and its precedence.
type parsedBinding struct {
	Binding
	keys     []string
	priority int
	seq      int
}

// outranks reports whether b takes precedence over other for the same keys.
func (b *parsedBinding) outranks(other *parsedBinding) bool {
	if b.priority != other.priority {
		return b.priority > other.priority
	}
	return b.seq > other.seq
}

type registered struct {
	keymap   *Keymap
	bindings []parsedBinding
}

// Registry manages all keymaps and resolves input against them.
type Registry struct {
	mu      sync.RWMutex
	keymaps map[string]*registered
	seq     int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{keymaps: make(map[string]*registered)}
}

// Register adds a keymap. A keymap with the same name is replaced.
func (r *Registry) Register(km *Keymap) error {
	if km == nil {
		return fmt.Errorf("cannot register nil keymap")
	}
	if err := km.Validate(); err != nil {
		return fmt.Errorf("keymap %q: %w", km.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	reg := &registered{keymap: km, bindings: make([]parsedBinding, 0, len(km.Bindings))}
	for _, b := range km.Bindings {
		keys, _ := ParseKeys(b.Keys)
		b.Mode = km.Mode
		reg.bindings = append(reg.bindings, parsedBinding{
			Binding:  b,
			keys:     keys,
			priority: km.Priority,
			seq:      r.seq,
		})
	}
	r.keymaps[km.Name] = reg
	return nil
}

// Unregister removes a keymap by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.keymaps, name)
}

// Get returns a keymap by name.
func (r *Registry) Get(name string) (*Keymap, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.keymaps[name]
	if !ok {
		return nil, false
	}
	return reg.keymap, true
}

// Modes returns the modes that have bindings, sorted.
func (r *Registry) Modes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var modes []string
	for _, reg := range r.keymaps {
		if !slices.Contains(modes, reg.keymap.Mode) {
			modes = append(modes, reg.keymap.Mode)
		}
	}
	sort.Strings(modes)
	return modes
}

// Bindings returns the effective bindings of a mode sorted by keys.
// Bindings shadowed by a higher priority keymap are left out.
func (r *Registry) Bindings(mode string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := make(map[string]*parsedBinding)
	r.each(mode, func(pb *parsedBinding) {
		k := strings.Join(pb.keys, "")
		if cur, ok := best[k]; !ok || pb.outranks(cur) {
			best[k] = pb
		}
	})

	out := make([]Binding, 0, len(best))
	for _, pb := range best {
		out = append(out, pb.Binding)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Keys < out[j].Keys })
	return out
}

// Lookup returns the binding for an exact key sequence.
func (r *Registry) Lookup(mode, keys string) (Binding, bool) {
	parsed, err := ParseKeys(keys)
	if err != nil {
		return Binding{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, _ := r.match(mode, parsed)
	if b == nil {
		return Binding{}, false
	}
	return b.Binding, true
}

// Resolve parses an optional count and a key sequence and returns the
// binding and count. It returns ErrPrefix if the input is a strict prefix
// of a binding (or only a count) and ErrNoBinding otherwise.
func (r *Registry) Resolve(mode, input string) (Binding, int, error) {
	count, rest := splitCount(input)
	if rest == "" {
		if input == "" {
			return Binding{}, 0, ErrNoBinding
		}
		return Binding{}, count, ErrPrefix
	}

	keys, err := ParseKeys(rest)
	if err != nil {
		// An unterminated "<" may still become a named key.
		if strings.Contains(rest, "<") && !strings.Contains(rest[strings.LastIndexByte(rest, '<'):], ">") {
			return Binding{}, count, ErrPrefix
		}
		return Binding{}, count, fmt.Errorf("%w: %v", ErrNoBinding, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, prefix := r.match(mode, keys)
	switch {
	case b != nil:
		return b.Binding, count, nil
	case prefix:
		return Binding{}, count, ErrPrefix
	default:
		return Binding{}, count, ErrNoBinding
	}
}

// match returns the winning exact binding for keys and whether keys is a
// strict prefix of some binding. Caller holds the read lock.
func (r *Registry) match(mode string, keys []string) (*parsedBinding, bool) {
	var best *parsedBinding
	prefix := false
	r.each(mode, func(pb *parsedBinding) {
		switch {
		case slices.Equal(pb.keys, keys):
			if best == nil || pb.outranks(best) {
				best = pb
			}
		case len(pb.keys) > len(keys) && slices.Equal(pb.keys[:len(keys)], keys):
			prefix = true
		}
	})
	return best, prefix
}

func (r *Registry) each(mode string, fn func(*parsedBinding)) {
	for _, reg := range r.keymaps {
		if reg.keymap.Mode != mode {
			continue
		}
		for i := range reg.bindings {
			fn(&reg.bindings[i])
		}
	}
}
