package api

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/treesel/internal/editor"
	"github.com/dshills/treesel/internal/selection/span"
)

// EditorModule exposes the cursor, mode and text of one window.
type EditorModule struct {
	win *editor.Window
}

// NewEditorModule creates the editor module.
func NewEditorModule(win *editor.Window) *EditorModule {
	return &EditorModule{win: win}
}

// Name returns the module name.
func (m *EditorModule) Name() string {
	return "editor"
}

// Register installs the editor table.
func (m *EditorModule) Register(L *lua.LState) error {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"cursor":     m.cursor,
		"set_cursor": m.setCursor,
		"mode":       m.mode,
		"escape":     m.escape,
		"line":       m.line,
		"line_count": m.lineCount,
		"text":       m.text,
	})
	L.SetGlobal(m.Name(), mod)
	return nil
}

// cursor() -> line, col
func (m *EditorModule) cursor(L *lua.LState) int {
	line, col := m.win.Cursor()
	L.Push(lua.LNumber(line))
	L.Push(lua.LNumber(col))
	return 2
}

// set_cursor(line, col) -> nil
// Lines are 1-based, columns 0-based bytes. Out of range values clamp.
func (m *EditorModule) setCursor(L *lua.LState) int {
	line := L.CheckInt(1)
	col := L.CheckInt(2)
	if line < 1 {
		L.ArgError(1, "line must be >= 1")
		return 0
	}
	if col < 0 {
		L.ArgError(2, "column must be >= 0")
		return 0
	}
	m.win.SetCursor(line, col)
	return 0
}

// mode() -> "normal" | "visual"
func (m *EditorModule) mode(L *lua.LState) int {
	L.Push(lua.LString(m.win.Mode()))
	return 1
}

// escape() -> nil
func (m *EditorModule) escape(L *lua.LState) int {
	m.win.Escape()
	return 0
}

// line(n) -> string or nil
func (m *EditorModule) line(L *lua.LState) int {
	s, ok := m.win.Buffer().Line(L.CheckInt(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(s))
	return 1
}

// line_count() -> n
func (m *EditorModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(m.win.Buffer().LineCount()))
	return 1
}

// text([start_line, start_col, end_line, end_col]) -> string or nil
// Without arguments returns the visual selection.
func (m *EditorModule) text(L *lua.LState) int {
	var (
		lines []string
		err   error
	)
	if L.GetTop() == 0 {
		lines, err = m.win.SelectedText()
	} else {
		r := span.New(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3), L.CheckInt(4))
		lines, err = m.win.Buffer().Text(r)
	}
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(strings.Join(lines, "\n")))
	return 1
}
