package keymap

import (
	"github.com/dshills/treesel/internal/config"
	"github.com/dshills/treesel/internal/editor"
)

// Selection actions.
const (
	ActionInitSelection   = "selection.init"
	ActionNodeIncremental = "selection.nodeIncremental"
	ActionNodeDecremental = "selection.nodeDecremental"
	ActionVisualInner     = "selection.visualInner"
)

// Cursor and mode actions.
const (
	ActionCursorLeft      = "cursor.left"
	ActionCursorDown      = "cursor.down"
	ActionCursorUp        = "cursor.up"
	ActionCursorRight     = "cursor.right"
	ActionCursorLineStart = "cursor.lineStart"
	ActionCursorLineEnd   = "cursor.lineEnd"
	ActionModeVisual      = "mode.visual"
	ActionModeVisualLine  = "mode.visualLine"
	ActionModeNormal      = "mode.normal"
)

// Keymap names of the selection bindings. They are replaced when the
// configured keys change.
const (
	SelectionNormalKeymap = "selection-normal"
	SelectionVisualKeymap = "selection-visual"
)

// LoadDefaults registers the motion keymaps and the selection keymaps
// built from keys.
func LoadDefaults(r *Registry, keys config.KeymapConfig) error {
	keymaps := []*Keymap{
		DefaultNormalKeymap(),
		DefaultVisualKeymap(),
	}
	keymaps = append(keymaps, SelectionKeymaps(keys)...)

	for _, km := range keymaps {
		if err := r.Register(km); err != nil {
			return err
		}
	}
	return nil
}

// SelectionKeymaps returns the selection bindings for the configured keys.
// They outrank the motion keymaps.
func SelectionKeymaps(keys config.KeymapConfig) []*Keymap {
	normal := NewKeymap(SelectionNormalKeymap).
		ForMode(editor.ModeNormal).
		WithPriority(10).
		WithSource("config").
		AddBinding(NewBinding(keys.InitSelection, ActionInitSelection).
			WithDescription("Select the smallest node at the cursor"))

	visual := NewKeymap(SelectionVisualKeymap).
		ForMode(editor.ModeVisual).
		WithPriority(10).
		WithSource("config").
		AddBinding(NewBinding(keys.NodeIncremental, ActionNodeIncremental).
			WithDescription("Expand to the next larger node")).
		AddBinding(NewBinding(keys.NodeDecremental, ActionNodeDecremental).
			WithDescription("Shrink to the previous selection")).
		AddBinding(NewBinding(keys.VisualInner, ActionVisualInner).
			WithDescription("Strip surrounding delimiters"))

	return []*Keymap{normal, visual}
}

// DefaultNormalKeymap returns the normal mode motions.
func DefaultNormalKeymap() *Keymap {
	return &Keymap{
		Name:     "default-normal",
		Mode:     editor.ModeNormal,
		Source:   "default",
		Bindings: append(motionBindings(),
			Binding{Keys: "v", Action: ActionModeVisual, Description: "Start charwise visual mode"},
			Binding{Keys: "V", Action: ActionModeVisualLine, Description: "Start linewise visual mode"},
		),
	}
}

// DefaultVisualKeymap returns the visual mode motions.
func DefaultVisualKeymap() *Keymap {
	return &Keymap{
		Name:     "default-visual",
		Mode:     editor.ModeVisual,
		Source:   "default",
		Bindings: append(motionBindings(),
			Binding{Keys: "<Esc>", Action: ActionModeNormal, Description: "Leave visual mode"},
		),
	}
}

func motionBindings() []Binding {
	return []Binding{
		{Keys: "h", Action: ActionCursorLeft, Description: "Move left"},
		{Keys: "j", Action: ActionCursorDown, Description: "Move down"},
		{Keys: "k", Action: ActionCursorUp, Description: "Move up"},
		{Keys: "l", Action: ActionCursorRight, Description: "Move right"},
		{Keys: "0", Action: ActionCursorLineStart, Description: "Move to line start"},
		{Keys: "$", Action: ActionCursorLineEnd, Description: "Move to line end"},
	}
}
