package syntax

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/css"
	"github.com/smacker/go-tree-sitter/dockerfile"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/sql"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/yaml"
)

// Language describes a tree-sitter grammar and the files it handles.
type Language struct {
	// Name is the filetype, e.g. "go" or "python".
	Name string

	// Extensions lists file extensions including the leading dot.
	Extensions []string

	// Filenames lists exact base names, e.g. "Dockerfile".
	Filenames []string

	Grammar *sitter.Language
}

// Registry maps filetypes, extensions and file names to grammars.
// It is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	byName      map[string]*Language
	byExtension map[string]*Language
	byFilename  map[string]*Language
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:      make(map[string]*Language),
		byExtension: make(map[string]*Language),
		byFilename:  make(map[string]*Language),
	}
}

// DefaultRegistry creates a Registry with every bundled grammar.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, lang := range builtinLanguages() {
		r.Register(lang)
	}
	return r
}

func builtinLanguages() []Language {
	return []Language{
		{Name: "go", Extensions: []string{".go"}, Grammar: golang.GetLanguage()},
		{Name: "python", Extensions: []string{".py", ".pyi"}, Grammar: python.GetLanguage()},
		{Name: "javascript", Extensions: []string{".js", ".jsx", ".mjs", ".cjs"}, Grammar: javascript.GetLanguage()},
		{Name: "typescript", Extensions: []string{".ts", ".mts", ".cts"}, Grammar: typescript.GetLanguage()},
		{Name: "tsx", Extensions: []string{".tsx"}, Grammar: tsx.GetLanguage()},
		{Name: "rust", Extensions: []string{".rs"}, Grammar: rust.GetLanguage()},
		{Name: "c", Extensions: []string{".c", ".h"}, Grammar: c.GetLanguage()},
		{Name: "cpp", Extensions: []string{".cc", ".cpp", ".cxx", ".hh", ".hpp"}, Grammar: cpp.GetLanguage()},
		{Name: "bash", Extensions: []string{".sh", ".bash"}, Grammar: bash.GetLanguage()},
		{Name: "css", Extensions: []string{".css"}, Grammar: css.GetLanguage()},
		{Name: "html", Extensions: []string{".html", ".htm"}, Grammar: html.GetLanguage()},
		{Name: "yaml", Extensions: []string{".yaml", ".yml"}, Grammar: yaml.GetLanguage()},
		{Name: "toml", Extensions: []string{".toml"}, Grammar: toml.GetLanguage()},
		{Name: "sql", Extensions: []string{".sql"}, Grammar: sql.GetLanguage()},
		{Name: "dockerfile", Filenames: []string{"Dockerfile", "Containerfile"}, Grammar: dockerfile.GetLanguage()},
	}
}

// Register adds a language, replacing any earlier registration of the same
// name, extension or file name.
func (r *Registry) Register(lang Language) {
	if lang.Name == "" || lang.Grammar == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	l := lang
	r.byName[l.Name] = &l
	for _, ext := range l.Extensions {
		r.byExtension[strings.ToLower(ext)] = &l
	}
	for _, name := range l.Filenames {
		r.byFilename[name] = &l
	}
}

// Lookup returns the language registered for a filetype.
func (r *Registry) Lookup(fileType string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.byName[fileType]
	return l, ok
}

// DetectFileType returns the filetype for a path, or "" if no grammar
// handles it.
func (r *Registry) DetectFileType(path string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	base := filepath.Base(path)
	if l, ok := r.byFilename[base]; ok {
		return l.Name
	}
	if l, ok := r.byExtension[strings.ToLower(filepath.Ext(base))]; ok {
		return l.Name
	}
	return ""
}

// FileTypes returns the registered filetypes in sorted order.
func (r *Registry) FileTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
