package syntax

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/treesel/internal/selection/span"
)

// DefaultCacheTTL is how long an unused parse stays cached.
const DefaultCacheTTL = 10 * time.Minute

// TreeSitter implements Provider using tree-sitter grammars.
//
// Trees are cached per buffer ID and reused while the buffer revision is
// unchanged. A new parser is created for every parse, so TreeSitter is safe
// for concurrent use.
type TreeSitter struct {
	registry *Registry
	cache    *cache.Cache
	logger   *slog.Logger
}

// Option configures a TreeSitter provider.
type Option func(*options)

type options struct {
	registry *Registry
	ttl      time.Duration
	logger   *slog.Logger
}

// WithRegistry sets the grammar registry. Defaults to DefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithCacheTTL sets how long an unused parse stays cached.
func WithCacheTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.ttl = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewTreeSitter creates a tree-sitter backed Provider.
func NewTreeSitter(opts ...Option) *TreeSitter {
	o := options{ttl: DefaultCacheTTL, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}

	return &TreeSitter{
		registry: o.registry,
		cache:    cache.New(o.ttl, 2*o.ttl),
		logger:   o.logger.With("component", "syntax"),
	}
}

// Registry returns the grammar registry.
func (p *TreeSitter) Registry() *Registry {
	return p.registry
}

type cacheEntry struct {
	revision uint64
	language string
	tree     *tsTree
}

// Trees parses src, or returns the cached tree for its current revision.
func (p *TreeSitter) Trees(ctx context.Context, src Source) ([]Tree, error) {
	lang, ok := p.registry.Lookup(src.FileType())
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoLanguage, src.FileType())
	}

	if v, found := p.cache.Get(src.ID()); found {
		entry := v.(*cacheEntry)
		if entry.revision == src.Revision() && entry.language == lang.Name {
			// Reset the sliding expiration.
			p.cache.SetDefault(src.ID(), entry)
			return []Tree{entry.tree}, nil
		}
	}

	start := time.Now()
	parser := sitter.NewParser()
	parser.SetLanguage(lang.Grammar)

	tree, err := parser.ParseCtx(ctx, nil, src.Content())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	root := tree.RootNode()
	if root == nil || root.IsNull() {
		return nil, ErrNoTree
	}

	t := &tsTree{tree: tree, language: lang.Name}
	p.cache.SetDefault(src.ID(), &cacheEntry{
		revision: src.Revision(),
		language: lang.Name,
		tree:     t,
	})

	p.logger.Debug("parsed buffer",
		"buffer", src.ID(),
		"language", lang.Name,
		"revision", src.Revision(),
		"elapsed", time.Since(start),
		"has_error", root.HasError())

	return []Tree{t}, nil
}

// Evict drops the cached tree for a buffer.
func (p *TreeSitter) Evict(id string) {
	p.cache.Delete(id)
}

// CachedCount returns the number of buffers with a cached tree.
func (p *TreeSitter) CachedCount() int {
	return p.cache.ItemCount()
}

// tsTree adapts a tree-sitter tree to Tree. Trees are never closed
// explicitly; cached nodes keep referencing them until the cache drops them.
type tsTree struct {
	tree     *sitter.Tree
	language string
}

func (t *tsTree) Root() Node {
	return tsNode{n: t.tree.RootNode()}
}

func (t *tsTree) Language() string {
	return t.language
}

// tsNode adapts a tree-sitter node to Node.
type tsNode struct {
	n *sitter.Node
}

func (t tsNode) Kind() string {
	return t.n.Type()
}

func (t tsNode) IsNamed() bool {
	return t.n.IsNamed()
}

func (t tsNode) StartPoint() span.Point {
	p := t.n.StartPoint()
	return span.Point{Row: p.Row, Column: p.Column}
}

func (t tsNode) EndPoint() span.Point {
	p := t.n.EndPoint()
	return span.Point{Row: p.Row, Column: p.Column}
}

func (t tsNode) Parent() (Node, bool) {
	p := t.n.Parent()
	if p == nil || p.IsNull() {
		return nil, false
	}
	return tsNode{n: p}, true
}

func (t tsNode) Equal(other Node) bool {
	o, ok := other.(tsNode)
	if !ok {
		return false
	}
	return o.n == t.n || t.n.Equal(o.n)
}

func (t tsNode) SmallestNamedDescendantForRange(start, end span.Point) (Node, bool) {
	d := t.n.NamedDescendantForPointRange(
		sitter.Point{Row: start.Row, Column: start.Column},
		sitter.Point{Row: end.Row, Column: end.Column},
	)
	if d == nil || d.IsNull() {
		return nil, false
	}
	return tsNode{n: d}, true
}

func (t tsNode) String() string {
	return fmt.Sprintf("%s%s", t.n.Type(), RangeOf(t))
}
