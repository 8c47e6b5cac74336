package selection

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dshills/treesel/internal/editor"
	"github.com/dshills/treesel/internal/selection/span"
	"github.com/dshills/treesel/internal/selection/trim"
	"github.com/dshills/treesel/internal/syntax"
)

// Buffer is the text a session selects in.
type Buffer interface {
	syntax.Source
	trim.TextSource
	LineCount() int
	LineLen(line int) int
}

// Window is the view whose visual selection a session drives.
type Window interface {
	Cursor() (line, col int)
	VisualRange() (span.Range, bool)
	SetVisualRange(r span.Range)
	EnterVisual(kind editor.VisualKind)
}

// evictor is implemented by providers that cache trees per buffer.
type evictor interface {
	Evict(id string)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithPairs sets the delimiter pairs checked when trimming.
func WithPairs(pairs ...trim.Pair) Option {
	return func(m *Manager) {
		m.trimmer.Store(trim.New(pairs))
	}
}

// WithDisabled sets the filetypes for which selection is disabled.
func WithDisabled(fileTypes ...string) Option {
	return func(m *Manager) {
		m.disabled.Store(toSet(fileTypes))
	}
}

// Manager owns the selection sessions of all open buffers.
// It is safe for concurrent use; each Session is not.
type Manager struct {
	provider syntax.Provider
	logger   *slog.Logger

	trimmer  atomic.Pointer[trim.Trimmer]
	disabled atomic.Pointer[map[string]struct{}]

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a Manager that reads syntax trees from provider.
func NewManager(provider syntax.Provider, opts ...Option) *Manager {
	m := &Manager{
		provider: provider,
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
	}
	m.trimmer.Store(trim.Default())
	m.disabled.Store(toSet(nil))
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "selection")
	return m
}

func toSet(fileTypes []string) *map[string]struct{} {
	set := make(map[string]struct{}, len(fileTypes))
	for _, ft := range fileTypes {
		ft = strings.TrimSpace(ft)
		if ft != "" {
			set[ft] = struct{}{}
		}
	}
	return &set
}

// Session returns the session for buf, creating it on first use.
func (m *Manager) Session(buf Buffer) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[buf.ID()]; ok {
		return s
	}
	s := newSession(m, buf)
	m.sessions[buf.ID()] = s
	return s
}

// Close drops the session of a buffer and any tree cached for it.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if e, ok := m.provider.(evictor); ok {
		e.Evict(id)
	}
}

// SessionCount returns the number of live sessions.
func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Trimmer returns the current delimiter trimmer.
func (m *Manager) Trimmer() *trim.Trimmer {
	return m.trimmer.Load()
}

// SetPairs replaces the delimiter pairs. Sessions pick them up on their
// next operation.
func (m *Manager) SetPairs(pairs []trim.Pair) {
	m.trimmer.Store(trim.New(pairs))
}

// SetDisabled replaces the set of disabled filetypes.
func (m *Manager) SetDisabled(fileTypes []string) {
	m.disabled.Store(toSet(fileTypes))
}

// Disabled reports whether selection is disabled for a filetype.
func (m *Manager) Disabled(fileType string) bool {
	_, ok := (*m.disabled.Load())[fileType]
	return ok
}

// root returns the root of the primary tree of buf.
func (m *Manager) root(ctx context.Context, buf Buffer) (syntax.Node, bool) {
	trees, err := m.provider.Trees(ctx, buf)
	if err != nil {
		m.logger.Debug("no syntax tree", "buffer", buf.ID(), "error", err)
		return nil, false
	}
	if len(trees) == 0 || trees[0] == nil {
		m.logger.Debug("no syntax tree", "buffer", buf.ID())
		return nil, false
	}
	root := trees[0].Root()
	return root, root != nil
}
