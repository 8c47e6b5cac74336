package api

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/treesel/internal/editor"
	"github.com/dshills/treesel/internal/selection"
	"github.com/dshills/treesel/internal/selection/span"
)

// SelectionModule exposes incremental selection on one window.
type SelectionModule struct {
	session *selection.Session
	win     *editor.Window
}

// NewSelectionModule creates the selection module.
func NewSelectionModule(s *selection.Session, win *editor.Window) *SelectionModule {
	return &SelectionModule{session: s, win: win}
}

// Name returns the module name.
func (m *SelectionModule) Name() string {
	return "selection"
}

// Register installs the selection table.
func (m *SelectionModule) Register(L *lua.LState) error {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"init_selection":   m.initSelection,
		"node_incremental": m.nodeIncremental,
		"node_decremental": m.nodeDecremental,
		"visual_inner":     m.visualInner,
		"range":            m.rangeOf,
		"reset":            m.reset,
	})
	L.SetGlobal(m.Name(), mod)
	return nil
}

func contextOf(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// init_selection([count]) -> bool
func (m *SelectionModule) initSelection(L *lua.LState) int {
	count := L.OptInt(1, 1)
	if count < 1 {
		L.ArgError(1, "count must be positive")
		return 0
	}
	_, ok := m.session.InitSelection(contextOf(L), m.win, count)
	L.Push(lua.LBool(ok))
	return 1
}

// node_incremental() -> bool
func (m *SelectionModule) nodeIncremental(L *lua.LState) int {
	_, ok := m.session.NodeIncremental(contextOf(L), m.win)
	L.Push(lua.LBool(ok))
	return 1
}

// node_decremental() -> bool
func (m *SelectionModule) nodeDecremental(L *lua.LState) int {
	_, ok := m.session.NodeDecremental(m.win)
	L.Push(lua.LBool(ok))
	return 1
}

// visual_inner() -> bool
func (m *SelectionModule) visualInner(L *lua.LState) int {
	_, ok := m.session.VisualInner(m.win)
	L.Push(lua.LBool(ok))
	return 1
}

// range() -> {start_line, start_col, end_line, end_col} or nil
func (m *SelectionModule) rangeOf(L *lua.LState) int {
	r, ok := m.win.VisualRange()
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(rangeTable(L, r))
	return 1
}

// reset() -> nil
func (m *SelectionModule) reset(L *lua.LState) int {
	m.session.Reset()
	return 0
}

func rangeTable(L *lua.LState, r span.Range) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "start_line", lua.LNumber(r.StartLine))
	L.SetField(t, "start_col", lua.LNumber(r.StartCol))
	L.SetField(t, "end_line", lua.LNumber(r.EndLine))
	L.SetField(t, "end_col", lua.LNumber(r.EndCol))
	return t
}
