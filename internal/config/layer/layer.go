// Package layer merges configuration sources by priority.
//
// Each source (built-in defaults, the config file, the environment, runtime
// overrides) is one Layer holding a nested map. Higher priority layers
// override lower ones key by key; nested maps merge recursively.
package layer

import "time"

// Source indicates where a layer came from.
type Source uint8

const (
	// SourceBuiltin is the built-in defaults.
	SourceBuiltin Source = iota
	// SourceFile is a configuration file.
	SourceFile
	// SourceEnv is environment variables.
	SourceEnv
	// SourceSession is runtime overrides, e.g. command-line flags.
	SourceSession
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceSession:
		return "session"
	default:
		return "unknown"
	}
}

// Priority returns the default merge priority of the source.
func (s Source) Priority() int {
	switch s {
	case SourceFile:
		return 100
	case SourceEnv:
		return 500
	case SourceSession:
		return 1000
	default:
		return 0
	}
}

// Layer is one configuration source.
type Layer struct {
	// Name identifies the layer, e.g. "defaults".
	Name string

	// Priority determines merge order; higher overrides lower.
	Priority int

	Source Source

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the values as a nested map.
	Data map[string]any

	// LoadedAt is when the layer was last (re)loaded.
	LoadedAt time.Time
}

// New creates an empty layer with the source's default priority.
func New(name string, source Source) *Layer {
	return NewWithData(name, source, make(map[string]any))
}

// NewWithData creates a layer holding data.
func NewWithData(name string, source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Name:     name,
		Priority: source.Priority(),
		Source:   source,
		Data:     data,
		LoadedAt: time.Now(),
	}
}

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = cloneMap(l.Data)
	return &c
}
