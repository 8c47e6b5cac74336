package ui

import (
	"github.com/gdamore/tcell/v2"
)

// namedKeys maps special keys to their key-notation names.
var namedKeys = map[tcell.Key]string{
	tcell.KeyEscape:     "<Esc>",
	tcell.KeyEnter:      "<CR>",
	tcell.KeyTab:        "<Tab>",
	tcell.KeyBackspace:  "<BS>",
	tcell.KeyBackspace2: "<BS>",
	tcell.KeyDelete:     "<Del>",
	tcell.KeyHome:       "0",
	tcell.KeyEnd:        "$",

	// Arrows move like the motion keys.
	tcell.KeyLeft:  "h",
	tcell.KeyDown:  "j",
	tcell.KeyUp:    "k",
	tcell.KeyRight: "l",
}

// KeyString converts a key event to key notation. It returns "" for keys
// that have no notation.
func KeyString(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		switch r := ev.Rune(); r {
		case '<':
			return "<lt>"
		case ' ':
			return "<Space>"
		default:
			if ev.Modifiers()&tcell.ModAlt != 0 {
				return "<M-" + string(r) + ">"
			}
			return string(r)
		}
	}
	if name, ok := namedKeys[ev.Key()]; ok {
		return name
	}
	return ""
}

// isQuit reports whether the event closes the viewer.
func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' && ev.Modifiers() == tcell.ModNone
	}
	return false
}
