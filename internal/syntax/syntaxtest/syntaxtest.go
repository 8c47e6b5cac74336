// Package syntaxtest provides hand-built syntax trees for tests.
package syntaxtest

import (
	"context"
	"fmt"

	"github.com/dshills/treesel/internal/selection/span"
	"github.com/dshills/treesel/internal/syntax"
)

// Node is an in-memory syntax.Node.
type Node struct {
	kind     string
	named    bool
	start    span.Point
	end      span.Point
	parent   *Node
	children []*Node
}

// N creates a named node spanning [start, end) in parser coordinates.
func N(kind string, startRow, startCol, endRow, endCol uint32, children ...*Node) *Node {
	n := &Node{
		kind:  kind,
		named: true,
		start: span.Point{Row: startRow, Column: startCol},
		end:   span.Point{Row: endRow, Column: endCol},
	}
	n.Add(children...)
	return n
}

// Anon creates an anonymous (unnamed) node such as a punctuation token.
func Anon(kind string, startRow, startCol, endRow, endCol uint32) *Node {
	n := N(kind, startRow, startCol, endRow, endCol)
	n.named = false
	return n
}

// Add appends children in source order.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// Find returns the first node in pre-order with the given kind.
func (n *Node) Find(kind string) *Node {
	if n.kind == kind {
		return n
	}
	for _, c := range n.children {
		if f := c.Find(kind); f != nil {
			return f
		}
	}
	return nil
}

func (n *Node) Kind() string           { return n.kind }
func (n *Node) IsNamed() bool          { return n.named }
func (n *Node) StartPoint() span.Point { return n.start }
func (n *Node) EndPoint() span.Point   { return n.end }

func (n *Node) Parent() (syntax.Node, bool) {
	if n.parent == nil {
		return nil, false
	}
	return n.parent, true
}

func (n *Node) Equal(other syntax.Node) bool {
	o, ok := other.(*Node)
	return ok && o == n
}

// SmallestNamedDescendantForRange follows tree-sitter's descent rules: a
// child qualifies when it starts at or before start, ends at or after end,
// and ends strictly after start.
func (n *Node) SmallestNamedDescendantForRange(start, end span.Point) (syntax.Node, bool) {
	node, named := n, n
	for {
		next := (*Node)(nil)
		for _, c := range node.children {
			if less(c.end, end) || !less(start, c.end) {
				continue
			}
			if less(start, c.start) {
				break
			}
			next = c
			break
		}
		if next == nil {
			return named, true
		}
		node = next
		if node.named {
			named = node
		}
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s%s", n.kind, syntax.RangeOf(n))
}

func less(a, b span.Point) bool {
	return a.Row < b.Row || (a.Row == b.Row && a.Column < b.Column)
}

// Tree is an in-memory syntax.Tree.
type Tree struct {
	root *Node
	lang string
}

// NewTree wraps root as a tree of the given language.
func NewTree(lang string, root *Node) *Tree {
	return &Tree{root: root, lang: lang}
}

func (t *Tree) Root() syntax.Node { return t.root }
func (t *Tree) Language() string  { return t.lang }

// Provider returns fixed trees and counts calls.
type Provider struct {
	Tree  syntax.Tree
	Err   error
	Calls int
}

// Trees implements syntax.Provider.
func (p *Provider) Trees(_ context.Context, _ syntax.Source) ([]syntax.Tree, error) {
	p.Calls++
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Tree == nil {
		return nil, nil
	}
	return []syntax.Tree{p.Tree}, nil
}
