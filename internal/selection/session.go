package selection

import (
	"context"

	"github.com/dshills/treesel/internal/editor"
	"github.com/dshills/treesel/internal/selection/history"
	"github.com/dshills/treesel/internal/selection/span"
	"github.com/dshills/treesel/internal/selection/walker"
	"github.com/dshills/treesel/internal/syntax"
)

// Session is the selection state of one buffer.
type Session struct {
	m        *Manager
	buf      Buffer
	stack    *history.Stack
	revision uint64
}

func newSession(m *Manager, buf Buffer) *Session {
	return &Session{
		m:     m,
		buf:   buf,
		stack: history.NewStack(),
	}
}

// Buffer returns the buffer the session selects in.
func (s *Session) Buffer() Buffer {
	return s.buf
}

// Entries returns the recorded selections, oldest first.
func (s *Session) Entries() []history.Entry {
	return s.stack.Entries()
}

// Reset clears the selection history.
func (s *Session) Reset() {
	s.stack.Reset()
}

func (s *Session) enabled() bool {
	if s.m.Disabled(s.buf.FileType()) {
		s.m.logger.Debug("selection disabled", "filetype", s.buf.FileType())
		return false
	}
	return true
}

// InitSelection selects the smallest named node at the cursor and then
// expands count-1 more times. It starts a new history.
func (s *Session) InitSelection(ctx context.Context, win Window, count int) (span.Range, bool) {
	if !s.enabled() {
		return span.Range{}, false
	}
	root, ok := s.m.root(ctx, s.buf)
	if !ok {
		return span.Range{}, false
	}

	line, col := win.Cursor()
	node, outcome := walker.Step(root, nil, span.At(line, col))
	if outcome != walker.OutcomeCommit {
		return span.Range{}, false
	}

	s.stack.Reset()
	s.revision = s.buf.Revision()
	r := s.commit(win, node)

	for i := 2; i <= count; i++ {
		last, _ := s.stack.Last()
		r, _ = s.expand(root, win, last.Range())
	}
	return r, true
}

// NodeIncremental grows the selection to the next enclosing node.
//
// When the visual selection no longer matches the last recorded one, or the
// buffer changed, the history is restarted from the visual selection.
func (s *Session) NodeIncremental(ctx context.Context, win Window) (span.Range, bool) {
	if !s.enabled() {
		return span.Range{}, false
	}
	root, ok := s.m.root(ctx, s.buf)
	if !ok {
		return span.Range{}, false
	}

	cmp, ok := win.VisualRange()
	if ok {
		cmp = s.clamp(cmp)
		s.sync(cmp)
	} else {
		line, col := win.Cursor()
		cmp = span.At(line, col)
	}

	return s.expand(root, win, cmp)
}

// sync resets the history when it no longer describes the visual
// selection. A reset history starts with the visual selection itself, so
// shrinking returns to it and a trimmed node equal to it is skipped.
func (s *Session) sync(visual span.Range) {
	if last, ok := s.stack.Last(); ok {
		switch {
		case s.revision != s.buf.Revision():
			s.m.logger.Debug("buffer changed, history reset", "buffer", s.buf.ID())
		case !span.Equal(s.clamp(last.Range()), visual):
			s.m.logger.Debug("selection moved, history reset", "buffer", s.buf.ID(), "visual", visual)
		default:
			return
		}
		s.stack.Reset()
	}

	if !visual.IsEmpty() {
		s.stack.Push(history.RangeEntry(visual))
		s.revision = s.buf.Revision()
	}
}

// expand runs one walker step against cmp and applies the result.
func (s *Session) expand(root syntax.Node, win Window, cmp span.Range) (span.Range, bool) {
	last, _ := s.stack.LastNode()
	node, outcome := walker.Step(root, last, cmp)

	switch outcome {
	case walker.OutcomeCommit:
		if s.stack.Len() == 0 {
			s.revision = s.buf.Revision()
		}
		return s.commit(win, node), true
	case walker.OutcomeFreeze:
		r := syntax.RangeOf(node)
		s.m.logger.Debug("selection frozen", "range", r)
		s.apply(win, r)
		return r, true
	default:
		return span.Range{}, false
	}
}

func (s *Session) commit(win Window, node syntax.Node) span.Range {
	e := s.stack.Commit(node, s.m.Trimmer(), s.buf)
	s.m.logger.Debug("selection committed", "entry", e.String(), "depth", s.stack.Len())
	r := e.Range()
	s.apply(win, r)
	return r
}

// NodeDecremental restores the previous selection. The first selection of
// a history is never removed.
func (s *Session) NodeDecremental(win Window) (span.Range, bool) {
	if !s.enabled() {
		return span.Range{}, false
	}
	e, ok := s.stack.Pop()
	if !ok {
		return span.Range{}, false
	}
	r := e.Range()
	s.apply(win, r)
	return r, true
}

// VisualInner strips one layer of delimiters from the visual selection.
// Without a match the selection is reapplied unchanged. It does not use or
// change the history.
func (s *Session) VisualInner(win Window) (span.Range, bool) {
	if !s.enabled() {
		return span.Range{}, false
	}
	r, ok := win.VisualRange()
	if !ok {
		return span.Range{}, false
	}
	inner, _ := s.m.Trimmer().Unsurround(r, s.buf)
	s.apply(win, inner)
	return inner, true
}

// apply makes r the window's charwise visual selection.
func (s *Session) apply(win Window, r span.Range) {
	win.EnterVisual(editor.VisualChar)
	win.SetVisualRange(s.clamp(r))
}

func (s *Session) clamp(r span.Range) span.Range {
	return r.Clamp(s.buf.LineCount(), s.buf.LineLen)
}
