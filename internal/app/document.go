package app

import (
	"sync"

	"github.com/dshills/treesel/internal/editor"
	"github.com/dshills/treesel/internal/input/keymap"
	"github.com/dshills/treesel/internal/selection"
)

// Document is an open buffer with its window, selection session and
// pending keys. Actions on one document are serialized.
type Document struct {
	mu sync.Mutex

	Buffer  *editor.Buffer
	Window  *editor.Window
	Session *selection.Session

	keys *keymap.Sequencer
}

// ID returns the buffer id.
func (d *Document) ID() string {
	return d.Buffer.ID()
}

// Name returns the display name.
func (d *Document) Name() string {
	return d.Buffer.Name()
}

// PendingKeys returns keys typed towards an incomplete binding.
func (d *Document) PendingKeys() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.keys.Pending()
}
