package selection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/treesel/internal/editor"
	"github.com/dshills/treesel/internal/selection/span"
	"github.com/dshills/treesel/internal/syntax"
)

const goSource = `package main

func main() {
	fmt.Println(add(1, 2))
}
`

func TestTreeSitterExpansion(t *testing.T) {
	ctx := context.Background()
	m := NewManager(syntax.NewTreeSitter())
	buf := editor.NewBuffer(goSource, editor.WithPath("main.go"), editor.WithFileType("go"))
	win := editor.NewWindow(buf)
	win.SetCursor(4, 17)

	s := m.Session(buf)
	r, ok := s.InitSelection(ctx, win, 1)
	require.True(t, ok)
	assert.Equal(t, span.New(4, 17, 4, 18), r, "1")

	want := []span.Range{
		span.New(4, 17, 4, 21), // 1, 2
		span.New(4, 16, 4, 22), // (1, 2)
		span.New(4, 13, 4, 22), // add(1, 2)
		span.New(4, 12, 4, 23), // (add(1, 2))
		span.New(4, 1, 4, 23),  // fmt.Println(add(1, 2))
		span.New(3, 12, 5, 1),  // block
		span.New(3, 0, 5, 1),   // function
		span.New(1, 0, 6, 0),   // file
	}
	for _, w := range want {
		r, ok = s.NodeIncremental(ctx, win)
		require.True(t, ok)
		assert.Equal(t, w, r)
	}

	r, ok = s.NodeIncremental(ctx, win)
	require.True(t, ok)
	assert.Equal(t, want[len(want)-1], r, "stays on the file")

	text, err := win.SelectedText()
	require.NoError(t, err)
	assert.Equal(t, "package main", text[0])

	for i := len(want) - 2; i >= 0; i-- {
		r, ok = s.NodeDecremental(win)
		require.True(t, ok)
		assert.Equal(t, want[i], r)
	}
	r, ok = s.NodeDecremental(win)
	require.True(t, ok)
	assert.Equal(t, span.New(4, 17, 4, 18), r)
}

func TestTreeSitterUnknownFileTypeIsNoop(t *testing.T) {
	m := NewManager(syntax.NewTreeSitter())
	buf := editor.NewBuffer("(a)", editor.WithFileType("nope"))
	win := editor.NewWindow(buf)

	_, ok := m.Session(buf).InitSelection(context.Background(), win, 1)
	assert.False(t, ok)
	assert.Equal(t, editor.ModeNormal, win.Mode())
}
