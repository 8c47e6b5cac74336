// Package ui is a terminal viewer for one document. It draws the buffer
// with the visual selection highlighted and feeds typed keys to the
// application's key bindings.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/treesel/internal/app"
	"github.com/dshills/treesel/internal/editor"
	"github.com/dshills/treesel/internal/selection/span"
)

// TabWidth is the number of cells a tab advances to.
const TabWidth = 4

// Styles used by the viewer.
var (
	styleText      = tcell.StyleDefault
	styleSelection = tcell.StyleDefault.Reverse(true)
	styleGutter    = tcell.StyleDefault.Dim(true)
	styleStatus    = tcell.StyleDefault.Reverse(true).Bold(true)
	styleError     = styleStatus.Foreground(tcell.ColorRed)
)

// Viewer draws a document on a screen and handles its keys.
type Viewer struct {
	app    *app.App
	doc    *app.Document
	screen tcell.Screen

	top     int // first visible line
	message string
	failed  bool
}

// NewViewer creates a viewer. The screen must be initialized.
func NewViewer(a *app.App, doc *app.Document, screen tcell.Screen) *Viewer {
	return &Viewer{app: a, doc: doc, screen: screen, top: 1}
}

// Run draws and handles events until the user quits, the context is
// canceled or the screen is finalized.
func (v *Viewer) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.Draw()

		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			if v.HandleKey(ctx, e) {
				return nil
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
	}
}

// HandleKey processes a key event and reports whether the viewer should
// quit.
func (v *Viewer) HandleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if isQuit(ev) && v.doc.PendingKeys() == "" {
		return true
	}
	key := KeyString(ev)
	if key == "" {
		return false
	}

	results, err := v.app.Feed(ctx, v.doc.ID(), key)
	switch {
	case err != nil:
		v.setMessage(err.Error(), true)
		v.app.Logger().Warn("key not handled", "key", key, "error", err)
	case len(results) > 0:
		last := results[len(results)-1]
		if strings.HasPrefix(last.Action, "selection.") && !last.Changed {
			v.setMessage("no selection", true)
		} else {
			v.setMessage("", false)
		}
	}
	return false
}

func (v *Viewer) setMessage(msg string, failed bool) {
	v.message = msg
	v.failed = failed
}

// Draw renders the document and the status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	width, height := v.screen.Size()
	rows := height - 1
	if rows < 1 || width < 1 {
		v.screen.Show()
		return
	}

	buf := v.doc.Buffer
	win := v.doc.Window
	curLine, curCol := win.Cursor()
	v.scrollTo(curLine, rows)

	visual, hasVisual := win.VisualRange()
	gutter := len(strconv.Itoa(buf.LineCount())) + 1

	for y := 0; y < rows; y++ {
		n := v.top + y
		if n > buf.LineCount() {
			v.put(0, y, "~", styleGutter, width)
			continue
		}
		v.put(0, y, fmt.Sprintf("%*d", gutter-1, n), styleGutter, width)

		line, _ := buf.Line(n)
		x := gutter
		for col, r := range line {
			style := styleText
			if hasVisual && covers(visual, n, col) {
				style = styleSelection
			}
			if n == curLine && col == curCol {
				v.screen.ShowCursor(x, y)
			}
			x = v.drawRune(x, y, r, style, gutter)
			if x >= width {
				break
			}
		}
		if n == curLine && curCol >= len(line) {
			v.screen.ShowCursor(min(x, width-1), y)
		}
	}

	v.drawStatus(width, height-1, curLine, curCol, visual, hasVisual)
	v.screen.Show()
}

// drawRune draws r at x and returns the next column. Tabs expand to the
// next tab stop measured from the text start.
func (v *Viewer) drawRune(x, y int, r rune, style tcell.Style, textStart int) int {
	if r == '\t' {
		next := textStart + ((x-textStart)/TabWidth+1)*TabWidth
		for ; x < next; x++ {
			v.screen.SetContent(x, y, ' ', nil, style)
		}
		return x
	}
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return x
	}
	v.screen.SetContent(x, y, r, nil, style)
	return x + w
}

func (v *Viewer) drawStatus(width, y, line, col int, visual span.Range, hasVisual bool) {
	mode := strings.ToUpper(v.doc.Window.Mode())
	if v.doc.Window.Mode() == editor.ModeVisual && v.doc.Window.Kind() == editor.VisualLine {
		mode = "V-LINE"
	}

	parts := []string{mode, v.doc.Name(), fmt.Sprintf("%d:%d", line, col)}
	if hasVisual {
		parts = append(parts, visual.String())
	}
	if pending := v.doc.PendingKeys(); pending != "" {
		parts = append(parts, pending)
	}
	status := " " + strings.Join(parts, "  ")

	style := styleStatus
	if v.message != "" {
		status += "  " + v.message
		if v.failed {
			style = styleError
		}
	}
	status = runewidth.FillRight(runewidth.Truncate(status, width, "…"), width)
	v.put(0, y, status, style, width)
}

// put writes s from x, stopping at width.
func (v *Viewer) put(x, y int, s string, style tcell.Style, width int) {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if x+w > width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x += w
	}
}

// scrollTo keeps line within the visible rows.
func (v *Viewer) scrollTo(line, rows int) {
	switch {
	case line < v.top:
		v.top = line
	case line >= v.top+rows:
		v.top = line - rows + 1
	}
	v.top = max(v.top, 1)
}

// covers reports whether the byte at line, col lies in r.
func covers(r span.Range, line, col int) bool {
	afterStart := line > r.StartLine || (line == r.StartLine && col >= r.StartCol)
	beforeEnd := line < r.EndLine || (line == r.EndLine && col < r.EndCol)
	return afterStart && beforeEnd
}

// Message returns the last status message.
func (v *Viewer) Message() string {
	return v.message
}

// Top returns the first visible line.
func (v *Viewer) Top() int {
	return v.top
}
