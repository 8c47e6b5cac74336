package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/treesel/internal/app"
	"github.com/dshills/treesel/internal/editor"
)

const goSource = `package main

func main() {
	fmt.Println(add(1, 2))
}
`

func newViewer(t *testing.T, content string, width, height int) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	a, err := app.New(context.Background(), app.Options{EnvPrefix: "TREESEL_TEST_", LogOutput: io.Discard})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(width, height)

	doc := a.OpenContent("main.go", content)
	return NewViewer(a, doc, screen), screen
}

func press(t *testing.T, v *Viewer, keys string) {
	t.Helper()
	for _, r := range keys {
		quit := v.HandleKey(context.Background(), tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
		require.False(t, quit, "key %q quit", r)
	}
}

func row(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

func reversed(screen tcell.Screen, x, y int) bool {
	_, _, style, _ := screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
	_, _, attrs := style.Decompose()
	return attrs&tcell.AttrReverse != 0
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want string
	}{
		{tcell.KeyRune, 'g', tcell.ModNone, "g"},
		{tcell.KeyRune, '<', tcell.ModNone, "<lt>"},
		{tcell.KeyRune, ' ', tcell.ModNone, "<Space>"},
		{tcell.KeyRune, 'x', tcell.ModAlt, "<M-x>"},
		{tcell.KeyEscape, 0, tcell.ModNone, "<Esc>"},
		{tcell.KeyEnter, 0, tcell.ModNone, "<CR>"},
		{tcell.KeyLeft, 0, tcell.ModNone, "h"},
		{tcell.KeyEnd, 0, tcell.ModNone, "$"},
		{tcell.KeyF5, 0, tcell.ModNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyString(tcell.NewEventKey(tt.key, tt.r, tt.mod)))
		})
	}
}

func TestDrawHighlightsSelection(t *testing.T) {
	v, screen := newViewer(t, goSource, 40, 10)
	v.doc.Window.SetCursor(4, 17)
	press(t, v, "gnn")
	v.Draw()

	// Gutter is two cells and the leading tab expands to the first stop,
	// so column c of line 4 is drawn at x = c+5.
	assert.Equal(t, "4     fmt.Println(add(1, 2))", row(screen, 3))
	assert.True(t, reversed(screen, 22, 3))
	assert.False(t, reversed(screen, 21, 3))
	assert.False(t, reversed(screen, 23, 3))

	status := row(screen, 9)
	assert.Contains(t, status, "VISUAL")
	assert.Contains(t, status, "main.go")
	assert.Contains(t, status, "[4:17-4:18)")
	assert.Equal(t, "~", row(screen, 7))

	press(t, v, "grn")
	v.Draw()
	for x := 22; x < 26; x++ {
		assert.True(t, reversed(screen, x, 3), "x=%d", x)
	}
	assert.False(t, reversed(screen, 26, 3))
}

func TestPendingKeysInStatus(t *testing.T) {
	v, screen := newViewer(t, goSource, 40, 10)
	press(t, v, "g")
	v.Draw()
	assert.True(t, strings.HasSuffix(row(screen, 9), "  g"), row(screen, 9))
}

func TestQuit(t *testing.T) {
	v, _ := newViewer(t, goSource, 40, 10)
	ctx := context.Background()

	press(t, v, "g")
	assert.False(t, v.HandleKey(ctx, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, v.HandleKey(ctx, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, v.HandleKey(ctx, tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
}

func TestNoSelectionMessage(t *testing.T) {
	v, screen := newViewer(t, goSource, 60, 10)
	require.NoError(t, v.app.Config().Set("selection.disabled", []any{"go"}))

	press(t, v, "gnn")
	assert.Equal(t, "no selection", v.Message())
	v.Draw()
	assert.Contains(t, row(screen, 9), "no selection")

	press(t, v, "l")
	assert.Empty(t, v.Message())
}

func TestScrollFollowsCursor(t *testing.T) {
	var sb strings.Builder
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	v, screen := newViewer(t, sb.String(), 40, 10)

	press(t, v, strings.Repeat("j", 20))
	v.Draw()
	assert.Equal(t, 13, v.Top())
	assert.Equal(t, "13 line 13", row(screen, 0))

	press(t, v, strings.Repeat("k", 15))
	v.Draw()
	assert.Equal(t, 6, v.Top())
}

func TestRun(t *testing.T) {
	v, screen := newViewer(t, goSource, 40, 10)
	v.doc.Window.SetCursor(4, 17)

	for _, r := range "gnnq" {
		require.NoError(t, screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)))
	}
	require.NoError(t, v.Run(context.Background()))
	assert.Equal(t, editor.ModeVisual, v.doc.Window.Mode())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, v.Run(ctx), context.Canceled)
}
