// Package syntax provides syntax trees for editor buffers.
//
// The selection engine only sees the small Node and Tree interfaces defined
// here. TreeSitter implements Provider on top of tree-sitter grammars and
// caches one parse per buffer revision.
package syntax

import (
	"context"

	"github.com/dshills/treesel/internal/selection/span"
)

// Node is a syntax tree node.
//
// Points are parser-native: 0-indexed rows and byte columns with an
// exclusive end. Use RangeOf to obtain editor coordinates.
type Node interface {
	// Kind returns the grammar type of the node, e.g. "call_expression".
	Kind() string

	// IsNamed returns true for named grammar nodes.
	IsNamed() bool

	StartPoint() span.Point
	EndPoint() span.Point

	// Parent returns the enclosing node, or false at the root.
	Parent() (Node, bool)

	// Equal reports whether other is the same node of the same tree.
	Equal(other Node) bool

	// SmallestNamedDescendantForRange returns the smallest named node at or
	// below this one that spans [start, end].
	SmallestNamedDescendantForRange(start, end span.Point) (Node, bool)
}

// Tree is a parsed syntax tree.
type Tree interface {
	Root() Node
	Language() string
}

// Source is a buffer that can be parsed.
type Source interface {
	ID() string
	FileType() string
	Revision() uint64
	Content() []byte
}

// Provider returns the syntax trees for a buffer. The first tree is the
// buffer's primary language tree.
type Provider interface {
	Trees(ctx context.Context, src Source) ([]Tree, error)
}

// RangeOf returns the editor range of n.
func RangeOf(n Node) span.Range {
	return span.FromPoints(n.StartPoint(), n.EndPoint())
}
