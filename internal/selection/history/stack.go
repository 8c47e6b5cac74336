// Package history records the selections made during one incremental
// selection session so they can be shrunk back in reverse order.
//
// A Stack holds two parallel sequences: every selection shown to the user
// (an Entry), and the syntax nodes the tree walker resumes from. Entries
// made from a trimmed range carry no node, so the node sequence is never
// longer than the entry sequence.
package history

import (
	"fmt"

	"github.com/dshills/treesel/internal/selection/span"
	"github.com/dshills/treesel/internal/selection/trim"
	"github.com/dshills/treesel/internal/syntax"
)

// EntryKind distinguishes the two Entry variants.
type EntryKind int

const (
	// EntryNone is the zero Entry.
	EntryNone EntryKind = iota
	// EntryNode is a raw syntax node selection.
	EntryNode
	// EntryRange is an explicit range, usually a delimiter-trimmed node.
	EntryRange
)

// String returns the kind name.
func (k EntryKind) String() string {
	switch k {
	case EntryNode:
		return "node"
	case EntryRange:
		return "range"
	default:
		return "none"
	}
}

// Entry is one recorded selection: either a node or an explicit range.
type Entry struct {
	kind EntryKind
	node syntax.Node
	rng  span.Range
}

// NodeEntry creates an entry for a syntax node.
func NodeEntry(n syntax.Node) Entry {
	return Entry{kind: EntryNode, node: n}
}

// RangeEntry creates an entry for an explicit range.
func RangeEntry(r span.Range) Entry {
	return Entry{kind: EntryRange, rng: r}
}

// Kind returns which variant e holds.
func (e Entry) Kind() EntryKind {
	return e.kind
}

// Node returns the node of a node entry.
func (e Entry) Node() (syntax.Node, bool) {
	if e.kind != EntryNode {
		return nil, false
	}
	return e.node, true
}

// Range returns the editor range of the entry.
func (e Entry) Range() span.Range {
	if e.kind == EntryNode {
		return syntax.RangeOf(e.node)
	}
	return e.rng
}

// String returns a description for logs.
func (e Entry) String() string {
	if e.kind == EntryNode {
		return fmt.Sprintf("node %s %s", e.node.Kind(), e.Range())
	}
	return fmt.Sprintf("%s %s", e.kind, e.rng)
}

// Stack is the selection history of one buffer. It is not safe for
// concurrent use.
type Stack struct {
	entries []Entry
	nodes   []syntax.Node
}

// NewStack creates an empty Stack.
func NewStack() *Stack {
	return &Stack{}
}

// Reset clears both sequences.
func (s *Stack) Reset() {
	s.entries = nil
	s.nodes = nil
}

// Len returns the number of recorded selections.
func (s *Stack) Len() int {
	return len(s.entries)
}

// NodeCount returns the number of tracked nodes.
func (s *Stack) NodeCount() int {
	return len(s.nodes)
}

// Last returns the most recent selection.
func (s *Stack) Last() (Entry, bool) {
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// LastNode returns the most recently tracked node.
func (s *Stack) LastNode() (syntax.Node, bool) {
	if len(s.nodes) == 0 {
		return nil, false
	}
	return s.nodes[len(s.nodes)-1], true
}

// Entries returns a copy of the recorded selections, oldest first.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Push records e. Node entries are tracked in the node sequence as well.
func (s *Stack) Push(e Entry) {
	switch e.kind {
	case EntryNode:
		s.entries = append(s.entries, e)
		s.nodes = append(s.nodes, e.node)
	case EntryRange:
		s.entries = append(s.entries, e)
	}
}

// Commit records the selection for node and returns the entry to show.
//
// When node is wrapped in delimiters its trimmed range is recorded instead,
// unless the trimmed range equals the previous selection: the user has
// already seen it, so the raw node is recorded and expansion can continue
// past it.
func (s *Stack) Commit(node syntax.Node, t *trim.Trimmer, src trim.TextSource) Entry {
	trimmed, ok := t.Unsurround(syntax.RangeOf(node), src)

	e := NodeEntry(node)
	if ok {
		last, has := s.Last()
		if !has || !span.Equal(last.Range(), trimmed) {
			e = RangeEntry(trimmed)
		}
	}

	s.Push(e)
	return e
}

// Pop removes the most recent selection and returns the one before it.
// The first selection of a session is never removed.
func (s *Stack) Pop() (Entry, bool) {
	if len(s.entries) < 2 {
		return Entry{}, false
	}

	removed := s.entries[len(s.entries)-1]
	s.entries = s.entries[:len(s.entries)-1]
	if removed.kind == EntryNode {
		s.nodes = s.nodes[:len(s.nodes)-1]
	}

	return s.entries[len(s.entries)-1], true
}
