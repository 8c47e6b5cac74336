package keymap

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by key resolution.
var (
	// ErrNoBinding indicates the input matches no binding.
	ErrNoBinding = errors.New("no binding")

	// ErrPrefix indicates the input is an incomplete binding.
	ErrPrefix = errors.New("incomplete key sequence")

	// ErrInvalidKeys indicates a key sequence that cannot be parsed.
	ErrInvalidKeys = errors.New("invalid key sequence")
)

// Binding represents a single key-to-action mapping.
type Binding struct {
	// Keys is the key sequence that triggers this binding, e.g. "gnn".
	Keys string

	// Action is the action name, e.g. "selection.init".
	Action string

	// Mode is the editor mode the binding applies in. Set from the keymap
	// on registration.
	Mode string

	// Description documents the binding.
	Description string
}

// NewBinding creates a new binding with the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{Keys: keys, Action: action}
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// String returns "keys -> action".
func (b Binding) String() string {
	return b.Keys + " -> " + b.Action
}

// ParseKeys splits a key sequence into keys. Named keys such as "<Esc>"
// are one key; spaces separate nothing and are dropped.
func ParseKeys(s string) ([]string, error) {
	var keys []string
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case c == ' ':
			i++
		case c == '<':
			end := strings.IndexByte(s[i:], '>')
			if end < 2 {
				return nil, fmt.Errorf("%w: %q", ErrInvalidKeys, s)
			}
			keys = append(keys, s[i:i+end+1])
			i += end + 1
		default:
			r := []rune(s[i:])[0]
			keys = append(keys, string(r))
			i += len(string(r))
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKeys)
	}
	return keys, nil
}

// maxCount bounds numeric prefixes.
const maxCount = 9999

// splitCount strips a leading count from input. A count never starts with
// zero and is capped at maxCount. Without a count the result is 1.
func splitCount(input string) (int, string) {
	n := 0
	i := 0
	for i < len(input) && input[i] >= '0' && input[i] <= '9' {
		if i == 0 && input[i] == '0' {
			break
		}
		n = min(n*10+int(input[i]-'0'), maxCount)
		i++
	}
	if i == 0 {
		return 1, input
	}
	return n, input[i:]
}
