package editor

import (
	"sync"

	"github.com/dshills/treesel/internal/selection/span"
)

// Mode names, matching the keymap modes.
const (
	ModeNormal = "normal"
	ModeVisual = "visual"
)

// VisualKind is the granularity of a visual selection.
type VisualKind uint8

const (
	// VisualChar is character-wise selection.
	VisualChar VisualKind = iota
	// VisualLine is line-wise selection.
	VisualLine
)

// String returns the kind name.
func (k VisualKind) String() string {
	if k == VisualLine {
		return "line"
	}
	return "char"
}

// Window is a view onto a Buffer with a cursor and visual marks.
//
// The cursor is (1-indexed line, 0-indexed byte column). The visual marks
// survive leaving visual mode, so VisualRange still reports the last
// selection in normal mode.
type Window struct {
	mu sync.Mutex

	buf        *Buffer
	line, col  int
	mode       string
	kind       VisualKind
	anchorLine int
	anchorCol  int
	visual     span.Range
	hasVisual  bool
}

// NewWindow creates a window on buf with the cursor at the first character.
func NewWindow(buf *Buffer) *Window {
	return &Window{
		buf:  buf,
		line: 1,
		mode: ModeNormal,
	}
}

// Buffer returns the displayed buffer.
func (w *Window) Buffer() *Buffer {
	return w.buf
}

// Mode returns the current mode name.
func (w *Window) Mode() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mode
}

// Kind returns the granularity of the visual selection.
func (w *Window) Kind() VisualKind {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.kind
}

// Cursor returns the cursor position.
func (w *Window) Cursor() (line, col int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.line, w.col
}

// SetCursor moves the cursor, clamped to the buffer. In visual mode the
// selection is extended from its anchor to the new cursor.
func (w *Window) SetCursor(line, col int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.line, w.col = w.clampCursor(line, col)
	if w.mode == ModeVisual {
		w.visual = w.spanFromAnchor()
		w.hasVisual = true
	}
}

func (w *Window) clampCursor(line, col int) (int, int) {
	n := w.buf.LineCount()
	switch {
	case line < 1:
		line = 1
	case line > n:
		line = n
	}
	maxCol := w.buf.LineLen(line) - 1
	if maxCol < 0 {
		maxCol = 0
	}
	switch {
	case col < 0:
		col = 0
	case col > maxCol:
		col = maxCol
	}
	return line, col
}

// spanFromAnchor covers anchor and cursor inclusively.
func (w *Window) spanFromAnchor() span.Range {
	sl, sc, el, ec := w.anchorLine, w.anchorCol, w.line, w.col
	if el < sl || (el == sl && ec < sc) {
		sl, sc, el, ec = el, ec, sl, sc
	}
	if w.kind == VisualLine {
		return span.New(sl, 0, el, w.buf.LineLen(el))
	}
	end := ec + 1
	if l := w.buf.LineLen(el); end > l {
		end = l
	}
	return span.New(sl, sc, el, end)
}

// EnterVisual switches to visual mode anchored at the cursor.
func (w *Window) EnterVisual(kind VisualKind) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.mode == ModeVisual && w.kind == kind {
		return
	}
	if w.mode != ModeVisual {
		w.anchorLine, w.anchorCol = w.line, w.col
	}
	w.mode = ModeVisual
	w.kind = kind
	w.visual = w.spanFromAnchor()
	w.hasVisual = true
}

// Escape returns to normal mode, keeping the visual marks.
func (w *Window) Escape() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mode = ModeNormal
}

// VisualRange returns the current or last visual selection.
func (w *Window) VisualRange() (span.Range, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visual, w.hasVisual
}

// SetVisualRange sets the visual marks to r, clamped to the buffer, and
// puts the cursor on the last selected character.
func (w *Window) SetVisualRange(r span.Range) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r = w.buf.Clamp(r)
	w.visual = r
	w.hasVisual = true
	w.anchorLine, w.anchorCol = r.StartLine, r.StartCol
	w.line, w.col = w.clampCursor(lastChar(r, w.buf))
}

// lastChar returns the position of the last character inside a half-open
// range. An empty range yields its start.
func lastChar(r span.Range, b *Buffer) (int, int) {
	switch {
	case r.IsEmpty():
		return r.StartLine, r.StartCol
	case r.EndCol > 0:
		return r.EndLine, r.EndCol - 1
	default:
		prev := r.EndLine - 1
		return prev, b.LineLen(prev) - 1
	}
}

// SelectedText returns the text under the visual marks.
func (w *Window) SelectedText() ([]string, error) {
	r, ok := w.VisualRange()
	if !ok {
		return nil, ErrNoSelection
	}
	return w.buf.Text(r)
}
