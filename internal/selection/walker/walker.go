// Package walker finds the next syntax node for an expanding selection.
package walker

import (
	"github.com/dshills/treesel/internal/selection/span"
	"github.com/dshills/treesel/internal/syntax"
)

// Outcome tells the caller what to do with the node returned by Step.
type Outcome int

const (
	// OutcomeNone means nothing could be resolved; leave the selection alone.
	OutcomeNone Outcome = iota
	// OutcomeCommit means the node should be recorded and selected.
	OutcomeCommit
	// OutcomeFreeze means the walk is exhausted; reselect the node's range
	// without recording it.
	OutcomeFreeze
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCommit:
		return "commit"
	case OutcomeFreeze:
		return "freeze"
	default:
		return "none"
	}
}

// Step returns the nearest node whose range reaches past cmp.
//
// With no last node, the smallest named node spanning cmp is committed if
// it reaches past cmp; otherwise the climb starts from it.
//
// Step climbs from last through its ancestors, skipping those whose range
// does not grow past cmp. At the root, or at a degenerate ancestor that is
// the node itself, it re-resolves the smallest named node spanning cmp once;
// when that does not grow past the current node the walk freezes there.
func Step(root, last syntax.Node, cmp span.Range) (syntax.Node, Outcome) {
	if root == nil {
		return nil, OutcomeNone
	}
	resolved := false
	if last == nil {
		n, ok := resolve(root, cmp)
		if !ok {
			return nil, OutcomeNone
		}
		if span.IsLarger(syntax.RangeOf(n), cmp) {
			return n, OutcomeCommit
		}
		// cmp already covers n exactly, e.g. a trimmed selection: climb from n.
		last, resolved = n, true
	}

	node := last
	for {
		parent, ok := node.Parent()
		if !ok || parent.Equal(node) {
			if resolved {
				return node, OutcomeFreeze
			}
			resolved = true

			r, ok := resolve(root, cmp)
			if !ok || !span.IsLarger(syntax.RangeOf(r), syntax.RangeOf(node)) {
				return node, OutcomeFreeze
			}
			parent = r
		}

		if span.IsLarger(syntax.RangeOf(parent), cmp) {
			return parent, OutcomeCommit
		}
		node = parent
	}
}

// resolve returns the smallest named node under root spanning r.
func resolve(root syntax.Node, r span.Range) (syntax.Node, bool) {
	start, end := r.ToPoints()
	return root.SmallestNamedDescendantForRange(start, end)
}
