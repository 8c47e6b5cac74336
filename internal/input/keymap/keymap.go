package keymap

import "fmt"

// Keymap holds key bindings for a mode.
type Keymap struct {
	// Name is the keymap identifier.
	Name string

	// Mode is the mode this keymap applies to.
	Mode string

	// Bindings are the key-to-action mappings.
	Bindings []Binding

	// Priority determines precedence when keymaps bind the same keys.
	// Higher priority wins.
	Priority int

	// Source indicates where this keymap was defined, e.g. "default",
	// "config" or "plugin".
	Source string
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{Name: name}
}

// ForMode sets the mode for this keymap.
func (k *Keymap) ForMode(mode string) *Keymap {
	k.Mode = mode
	return k
}

// WithPriority sets the priority for this keymap.
func (k *Keymap) WithPriority(priority int) *Keymap {
	k.Priority = priority
	return k
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add adds a binding to this keymap.
func (k *Keymap) Add(keys, action string) *Keymap {
	k.Bindings = append(k.Bindings, NewBinding(keys, action))
	return k
}

// AddBinding adds a fully configured binding to this keymap.
func (k *Keymap) AddBinding(b Binding) *Keymap {
	k.Bindings = append(k.Bindings, b)
	return k
}

// Validate checks that all bindings in the keymap are valid.
func (k *Keymap) Validate() error {
	if k.Mode == "" {
		return fmt.Errorf("keymap %q: empty mode", k.Name)
	}
	for i, b := range k.Bindings {
		if b.Action == "" {
			return fmt.Errorf("binding %d (%s): empty action", i, b.Keys)
		}
		keys, err := ParseKeys(b.Keys)
		if err != nil {
			return fmt.Errorf("binding %d: %w", i, err)
		}
		if _, rest := splitCount(keys[0]); rest == "" {
			return fmt.Errorf("binding %d (%s): %w: starts with a count", i, b.Keys, ErrInvalidKeys)
		}
	}
	return nil
}
