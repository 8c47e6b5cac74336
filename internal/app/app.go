// Package app wires configuration, logging, parsing, selection and key
// bindings into one host that opens documents and runs actions on them.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dshills/treesel/internal/config"
	"github.com/dshills/treesel/internal/editor"
	"github.com/dshills/treesel/internal/input/keymap"
	"github.com/dshills/treesel/internal/selection"
	"github.com/dshills/treesel/internal/syntax"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty uses no file.
	ConfigPath string

	// LogLevel and LogFormat override the configured logging when set.
	LogLevel  string
	LogFormat string

	// LogOutput defaults to os.Stderr.
	LogOutput io.Writer

	// Watch reloads the configuration file when it changes.
	Watch bool

	// EnvPrefix overrides the TREESEL_ environment prefix.
	EnvPrefix string
}

// App owns the components shared by all open documents.
type App struct {
	mu sync.RWMutex

	config     *config.Config
	logger     *slog.Logger
	level      *slog.LevelVar
	provider   *syntax.TreeSitter
	selections *selection.Manager
	keymaps    *keymap.Registry
	documents  map[string]*Document
}

// New loads the configuration and builds the application.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	if opts.LogLevel != "" {
		level.Set(ParseLogLevel(opts.LogLevel))
	}
	bootLogger := NewLogger(LoggerConfig{Level: level, Format: opts.LogFormat, Output: opts.LogOutput})

	cfgOpts := []config.Option{
		config.WithFile(opts.ConfigPath),
		config.WithWatcher(opts.Watch),
		config.WithLogger(bootLogger),
	}
	if opts.EnvPrefix != "" {
		cfgOpts = append(cfgOpts, config.WithEnvPrefix(opts.EnvPrefix))
	}
	cfg := config.New(cfgOpts...)
	if err := cfg.Load(ctx); err != nil {
		return nil, NewOperationError("load config", opts.ConfigPath, err)
	}

	// Flags override the file and environment for the whole session.
	if opts.LogLevel != "" {
		if err := cfg.Set("logging.level", opts.LogLevel); err != nil {
			_ = cfg.Close()
			return nil, NewOperationError("set", "--log-level", err)
		}
	}
	if opts.LogFormat != "" {
		if err := cfg.Set("logging.format", opts.LogFormat); err != nil {
			_ = cfg.Close()
			return nil, NewOperationError("set", "--log-format", err)
		}
	}

	logging := cfg.Logging()
	level.Set(ParseLogLevel(logging.Level))
	logger := NewLogger(LoggerConfig{Level: level, Format: logging.Format, Output: opts.LogOutput})

	provider := syntax.NewTreeSitter(
		syntax.WithCacheTTL(cfg.Parser().CacheTTL),
		syntax.WithLogger(logger),
	)

	sel := cfg.Selection()
	selections := selection.NewManager(provider,
		selection.WithLogger(logger),
		selection.WithPairs(sel.Pairs...),
		selection.WithDisabled(sel.Disabled...),
	)

	keymaps := keymap.NewRegistry()
	if err := keymap.LoadDefaults(keymaps, cfg.Keymaps()); err != nil {
		_ = cfg.Close()
		return nil, NewOperationError("load keymaps", "", err)
	}

	a := &App{
		config:     cfg,
		logger:     logger.With("component", "app"),
		level:      level,
		provider:   provider,
		selections: selections,
		keymaps:    keymaps,
		documents:  make(map[string]*Document),
	}
	cfg.OnChange(a.applyConfig)

	a.logger.Debug("started", "config", opts.ConfigPath, "filetypes", provider.Registry().FileTypes())
	return a, nil
}

// applyConfig pushes reloaded settings into the running components.
func (a *App) applyConfig(cfg *config.Config) {
	a.level.Set(ParseLogLevel(cfg.Logging().Level))

	sel := cfg.Selection()
	a.selections.SetPairs(sel.Pairs)
	a.selections.SetDisabled(sel.Disabled)

	for _, km := range keymap.SelectionKeymaps(cfg.Keymaps()) {
		if err := a.keymaps.Register(km); err != nil {
			a.logger.Warn("keymap not applied", "keymap", km.Name, "error", err)
		}
	}
	a.logger.Info("configuration applied", "pairs", len(sel.Pairs), "disabled", sel.Disabled)
}

// Config returns the configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Keymaps returns the key binding registry.
func (a *App) Keymaps() *keymap.Registry {
	return a.keymaps
}

// Selections returns the selection manager.
func (a *App) Selections() *selection.Manager {
	return a.selections
}

// Open reads a file into a new document. The filetype is detected from
// the file name.
func (a *App) Open(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	buf := editor.NewBuffer(string(content),
		editor.WithPath(abs),
		editor.WithFileType(a.provider.Registry().DetectFileType(path)),
	)
	return a.add(buf), nil
}

// OpenContent creates a document from text. name is used for display and
// filetype detection.
func (a *App) OpenContent(name, content string) *Document {
	buf := editor.NewBuffer(content,
		editor.WithPath(name),
		editor.WithFileType(a.provider.Registry().DetectFileType(name)),
	)
	return a.add(buf)
}

func (a *App) add(buf *editor.Buffer) *Document {
	doc := &Document{
		Buffer:  buf,
		Window:  editor.NewWindow(buf),
		Session: a.selections.Session(buf),
		keys:    keymap.NewSequencer(a.keymaps),
	}

	a.mu.Lock()
	a.documents[doc.ID()] = doc
	a.mu.Unlock()

	a.logger.Debug("document opened", "id", doc.ID(), "name", buf.Name(), "filetype", buf.FileType())
	return doc
}

// Document returns an open document by id.
func (a *App) Document(id string) (*Document, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	doc, ok := a.documents[id]
	return doc, ok
}

// Documents returns the open documents sorted by name.
func (a *App) Documents() []*Document {
	a.mu.RLock()
	defer a.mu.RUnlock()

	docs := make([]*Document, 0, len(a.documents))
	for _, d := range a.documents {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name() < docs[j].Name() })
	return docs
}

// CloseDocument closes a document and drops its selection state.
func (a *App) CloseDocument(id string) error {
	a.mu.Lock()
	_, ok := a.documents[id]
	delete(a.documents, id)
	a.mu.Unlock()

	if !ok {
		return NewOperationError("close", id, ErrDocumentNotFound)
	}
	a.selections.Close(id)
	return nil
}

// Close closes all documents and stops watching the configuration.
func (a *App) Close() error {
	a.mu.Lock()
	ids := make([]string, 0, len(a.documents))
	for id := range a.documents {
		ids = append(ids, id)
	}
	a.documents = make(map[string]*Document)
	a.mu.Unlock()

	for _, id := range ids {
		a.selections.Close(id)
	}
	return a.config.Close()
}
