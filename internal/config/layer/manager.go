package layer

import (
	"sort"
	"sync"
)

// Manager holds the layers of one configuration and caches their merge.
type Manager struct {
	mu     sync.RWMutex
	layers []*Layer // ascending priority
	merged map[string]any
	dirty  bool
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{dirty: true}
}

// Put adds a layer, replacing any layer with the same name.
func (m *Manager) Put(l *Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.layers {
		if existing.Name == l.Name {
			m.layers[i] = l
			m.sort()
			return
		}
	}
	m.layers = append(m.layers, l)
	m.sort()
}

func (m *Manager) sort() {
	sort.SliceStable(m.layers, func(i, j int) bool {
		return m.layers[i].Priority < m.layers[j].Priority
	})
	m.dirty = true
}

// Remove drops a layer by name and reports whether it existed.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, l := range m.layers {
		if l.Name == name {
			m.layers = append(m.layers[:i], m.layers[i+1:]...)
			m.dirty = true
			return true
		}
	}
	return false
}

// Layer returns a layer by name.
func (m *Manager) Layer(name string) (*Layer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.layers {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}

// Names returns the layer names from lowest to highest priority.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.layers))
	for i, l := range m.layers {
		names[i] = l.Name
	}
	return names
}

// Set stores a value in the named layer, creating the layer from source
// if it does not exist.
func (m *Manager) Set(name string, source Source, path string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.layers {
		if l.Name == name {
			SetByPath(l.Data, path, value)
			m.dirty = true
			return
		}
	}
	l := New(name, source)
	SetByPath(l.Data, path, value)
	m.layers = append(m.layers, l)
	m.sort()
}

// Merge returns a copy of all layers merged by priority.
func (m *Manager) Merge() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dirty || m.merged == nil {
		merged := make(map[string]any)
		for _, l := range m.layers {
			merged = DeepMerge(merged, l.Data)
		}
		m.merged = merged
		m.dirty = false
	}
	return cloneMap(m.merged)
}

// Get returns the leaf value at path and the name of the layer it came
// from. Sections (nested maps) are not leaves; read them from Merge.
func (m *Manager) Get(path string) (any, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.layers) - 1; i >= 0; i-- {
		if v, ok := GetByPath(m.layers[i].Data, path); ok {
			if _, isMap := v.(map[string]any); isMap {
				break
			}
			return v, m.layers[i].Name, true
		}
	}
	return nil, "", false
}
