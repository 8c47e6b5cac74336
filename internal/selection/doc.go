// Package selection implements syntax-aware incremental selection.
//
// Starting from the cursor, InitSelection selects the smallest named syntax
// node. NodeIncremental grows the selection to the nearest enclosing node
// whose range is strictly larger, and NodeDecremental shrinks it back through
// the same history. When a node is wrapped in a delimiter pair, its inner
// range is selected first; the raw node follows on the next step.
// VisualInner strips one layer of delimiters from any visual selection.
//
// The Manager owns one Session per buffer:
//
//	m := selection.NewManager(provider, selection.WithDisabled("markdown"))
//	s := m.Session(buf)
//	s.InitSelection(ctx, win, 1)
//	s.NodeIncremental(ctx, win)
//	s.NodeDecremental(win)
//
// Operations never fail: when no syntax tree is available, or the selection
// cannot grow or shrink further, they leave the window unchanged and report
// false.
package selection
