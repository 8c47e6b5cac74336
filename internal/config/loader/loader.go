// Package loader reads configuration sources into nested maps.
//
// File loaders parse TOML and YAML; EnvLoader maps prefixed environment
// variables onto setting paths. A missing file is not an error: Load
// returns a nil map.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Loader reads one configuration source.
type Loader interface {
	// Load returns the configuration, or nil, nil if the source is absent.
	Load() (map[string]any, error)
}

// FileSystem is the file access a file loader needs.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the operating system.
type OSFS struct{}

// ReadFile implements FileSystem.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// decodeFunc parses file contents into a map.
type decodeFunc func(data []byte) (map[string]any, error)

// FileLoader loads one configuration file.
type FileLoader struct {
	fs     FileSystem
	path   string
	format string
	decode decodeFunc
}

// Path returns the file path.
func (l *FileLoader) Path() string {
	return l.path
}

// Format returns the file format name, "toml" or "yaml".
func (l *FileLoader) Format() string {
	return l.format
}

// Load reads and parses the file.
func (l *FileLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
	return l.Parse(data)
}

// Parse parses file contents as if read from the loader's path.
func (l *FileLoader) Parse(data []byte) (map[string]any, error) {
	m, err := l.decode(data)
	if err != nil {
		pe := &ParseError{Path: l.path, Format: l.format, Err: err}
		if l.format == "toml" {
			pe.Line, pe.Column = tomlPosition(err)
		}
		return nil, pe
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// ForPath returns a loader for path chosen by its extension.
func ForPath(path string) (*FileLoader, error) {
	return ForPathWithFS(OSFS{}, path)
}

// ForPathWithFS is ForPath reading from fsys.
func ForPathWithFS(fsys FileSystem, path string) (*FileLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLLoaderWithFS(fsys, path), nil
	case ".yaml", ".yml":
		return NewYAMLLoaderWithFS(fsys, path), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseError is returned when a file cannot be parsed.
type ParseError struct {
	Path   string
	Format string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %v", e.Path, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
