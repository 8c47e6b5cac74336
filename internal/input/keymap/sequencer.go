package keymap

import "errors"

// Sequencer accumulates keys typed one at a time until they resolve to a
// binding. It is not safe for concurrent use.
type Sequencer struct {
	registry *Registry
	pending  string
}

// NewSequencer creates a Sequencer resolving against r.
func NewSequencer(r *Registry) *Sequencer {
	return &Sequencer{registry: r}
}

// Feed adds one key and reports the binding and count once the pending
// input completes one. If the key breaks an incomplete sequence it is
// retried on its own.
func (s *Sequencer) Feed(mode, key string) (Binding, int, bool) {
	had := s.pending != ""
	s.pending += key

	b, count, err := s.registry.Resolve(mode, s.pending)
	switch {
	case err == nil:
		s.pending = ""
		return b, count, true
	case errors.Is(err, ErrPrefix):
		return Binding{}, 0, false
	}

	s.pending = ""
	if had {
		return s.Feed(mode, key)
	}
	return Binding{}, 0, false
}

// Pending returns the keys typed so far.
func (s *Sequencer) Pending() string {
	return s.pending
}

// Reset drops pending keys.
func (s *Sequencer) Reset() {
	s.pending = ""
}
