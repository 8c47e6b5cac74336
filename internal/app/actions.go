package app

import (
	"context"
	"io"

	"github.com/dshills/treesel/internal/editor"
	"github.com/dshills/treesel/internal/input/keymap"
	"github.com/dshills/treesel/internal/plugin/api"
	luastate "github.com/dshills/treesel/internal/plugin/lua"
	"github.com/dshills/treesel/internal/selection/span"
)

// Actions lists the selection actions.
var Actions = []string{
	keymap.ActionInitSelection,
	keymap.ActionNodeIncremental,
	keymap.ActionNodeDecremental,
	keymap.ActionVisualInner,
}

// Result is the state of a document after an action.
type Result struct {
	Action string
	Count  int

	// Changed reports whether the selection operation did anything.
	Changed bool

	Mode      string
	Selection span.Range
	HasVisual bool
}

type handler func(ctx context.Context, d *Document, count int) bool

func (a *App) handlers() map[string]handler {
	return map[string]handler{
		keymap.ActionInitSelection: func(ctx context.Context, d *Document, count int) bool {
			_, ok := d.Session.InitSelection(ctx, d.Window, count)
			return ok
		},
		keymap.ActionNodeIncremental: func(ctx context.Context, d *Document, count int) bool {
			return repeat(count, func() bool {
				_, ok := d.Session.NodeIncremental(ctx, d.Window)
				return ok
			})
		},
		keymap.ActionNodeDecremental: func(_ context.Context, d *Document, count int) bool {
			return repeat(count, func() bool {
				_, ok := d.Session.NodeDecremental(d.Window)
				return ok
			})
		},
		keymap.ActionVisualInner: func(_ context.Context, d *Document, _ int) bool {
			_, ok := d.Session.VisualInner(d.Window)
			return ok
		},
		keymap.ActionCursorLeft:      moveBy(0, -1),
		keymap.ActionCursorRight:     moveBy(0, 1),
		keymap.ActionCursorUp:        moveBy(-1, 0),
		keymap.ActionCursorDown:      moveBy(1, 0),
		keymap.ActionCursorLineStart: func(_ context.Context, d *Document, _ int) bool {
			line, _ := d.Window.Cursor()
			d.Window.SetCursor(line, 0)
			return true
		},
		keymap.ActionCursorLineEnd: func(_ context.Context, d *Document, _ int) bool {
			line, _ := d.Window.Cursor()
			d.Window.SetCursor(line, d.Buffer.LineLen(line))
			return true
		},
		keymap.ActionModeVisual: func(_ context.Context, d *Document, _ int) bool {
			d.Window.EnterVisual(editor.VisualChar)
			return true
		},
		keymap.ActionModeVisualLine: func(_ context.Context, d *Document, _ int) bool {
			d.Window.EnterVisual(editor.VisualLine)
			return true
		},
		keymap.ActionModeNormal: func(_ context.Context, d *Document, _ int) bool {
			d.Window.Escape()
			return true
		},
	}
}

// repeat runs fn up to n times and reports whether the first run did
// anything. It stops at the first run that does nothing.
func repeat(n int, fn func() bool) bool {
	changed := false
	for i := 0; i < max(n, 1); i++ {
		if !fn() {
			break
		}
		changed = true
	}
	return changed
}

func moveBy(dLine, dCol int) handler {
	return func(_ context.Context, d *Document, count int) bool {
		line, col := d.Window.Cursor()
		n := max(count, 1)
		line = min(max(line+dLine*n, 1), d.Buffer.LineCount())
		d.Window.SetCursor(line, max(col+dCol*n, 0))
		return true
	}
}

// Dispatch runs an action on a document.
func (a *App) Dispatch(ctx context.Context, docID, action string, count int) (Result, error) {
	d, ok := a.Document(docID)
	if !ok {
		return Result{}, NewOperationError("dispatch", action, ErrDocumentNotFound)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return a.dispatch(ctx, d, action, count)
}

func (a *App) dispatch(ctx context.Context, d *Document, action string, count int) (Result, error) {
	h, ok := a.handlers()[action]
	if !ok {
		return Result{}, NewOperationError("dispatch", action, ErrUnknownAction)
	}

	changed := h(ctx, d, count)
	res := Result{Action: action, Count: count, Changed: changed, Mode: d.Window.Mode()}
	res.Selection, res.HasVisual = d.Window.VisualRange()

	a.logger.Debug("dispatched", "doc", d.Name(), "action", action, "count", count,
		"changed", changed, "selection", res.Selection)
	return res, nil
}

// Feed types keys into a document. Each completed binding is dispatched
// in the document's current mode; its results are returned in order.
// Keys left over towards an incomplete binding stay pending.
func (a *App) Feed(ctx context.Context, docID, keys string) ([]Result, error) {
	d, ok := a.Document(docID)
	if !ok {
		return nil, NewOperationError("feed", keys, ErrDocumentNotFound)
	}
	parsed, err := keymap.ParseKeys(keys)
	if err != nil {
		return nil, NewOperationError("feed", keys, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	var results []Result
	for _, k := range parsed {
		b, count, ok := d.keys.Feed(d.Window.Mode(), k)
		if !ok {
			continue
		}
		res, err := a.dispatch(ctx, d, b.Action, count)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunScript runs a Lua script file against a document with the selection
// and editor modules installed. print goes to out.
func (a *App) RunScript(ctx context.Context, docID, path string, out io.Writer) error {
	d, ok := a.Document(docID)
	if !ok {
		return NewOperationError("run", path, ErrDocumentNotFound)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	state := luastate.NewState(luastate.WithOutput(out), luastate.WithLogger(a.logger))
	defer state.Close()

	modules := api.NewRegistry()
	if err := modules.Register(api.NewSelectionModule(d.Session, d.Window)); err != nil {
		return err
	}
	if err := modules.Register(api.NewEditorModule(d.Window)); err != nil {
		return err
	}
	if err := modules.InjectAll(state); err != nil {
		return NewOperationError("run", path, err)
	}

	if err := state.DoFile(ctx, path); err != nil {
		return NewOperationError("run", path, err)
	}
	return nil
}
