// Package keymap maps key sequences to actions.
//
// A Keymap is a named set of bindings for one mode. The Registry holds the
// keymaps of all modes and resolves typed input against them; when two
// keymaps bind the same keys in the same mode the higher priority wins.
//
// # Key Sequences
//
// A sequence is written as consecutive keys. Named keys use angle
// brackets and spaces are ignored, so these are equal:
//
//	"gnn"
//	"g n n"
//
// and "<Esc>" is a single key.
//
// # Counts
//
// Input may start with a count, as in Vim:
//
//	b, count, err := registry.Resolve("normal", "3gnn")
//	// b.Action == "selection.init", count == 3
//
// Resolve returns ErrPrefix while the input could still become a binding
// and ErrNoBinding once it cannot. Sequencer does that bookkeeping for
// callers that receive one key at a time.
package keymap
