// Package editor provides the in-memory text buffers and windows the
// selection engine operates on.
package editor

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/treesel/internal/selection/span"
)

// Buffer holds the text of one document as lines.
// Lines are 1-indexed; a trailing newline yields a final empty line, so
// Content always round-trips the original text.
type Buffer struct {
	mu sync.RWMutex

	id       string
	name     string
	path     string
	fileType string
	lines    []string
	revision uint64
}

// BufferOption configures a Buffer.
type BufferOption func(*Buffer)

// WithPath sets the file path and derives the display name from it.
func WithPath(path string) BufferOption {
	return func(b *Buffer) {
		b.path = path
		if path != "" {
			b.name = filepath.Base(path)
		}
	}
}

// WithFileType sets the buffer's filetype.
func WithFileType(ft string) BufferOption {
	return func(b *Buffer) {
		b.fileType = ft
	}
}

// NewBuffer creates a buffer with the given content and a fresh ID.
func NewBuffer(content string, opts ...BufferOption) *Buffer {
	b := &Buffer{
		id:       uuid.NewString(),
		name:     "Untitled",
		lines:    splitLines(content),
		revision: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// ID returns the buffer's unique identifier.
func (b *Buffer) ID() string {
	return b.id
}

// Name returns the display name.
func (b *Buffer) Name() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.name
}

// Path returns the file path, or "" for scratch buffers.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// FileType returns the filetype, e.g. "go".
func (b *Buffer) FileType() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fileType
}

// SetFileType changes the filetype.
func (b *Buffer) SetFileType(ft string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fileType != ft {
		b.fileType = ft
		b.revision++
	}
}

// Revision returns a counter that changes whenever the text changes.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Content returns the full text.
func (b *Buffer) Content() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return []byte(strings.Join(b.lines, "\n"))
}

// SetText replaces the full text.
func (b *Buffer) SetText(content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = splitLines(content)
	b.revision++
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Line returns a 1-indexed line.
func (b *Buffer) Line(n int) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n < 1 || n > len(b.lines) {
		return "", false
	}
	return b.lines[n-1], true
}

// LineLen returns the byte length of a 1-indexed line, or 0 if it does
// not exist.
func (b *Buffer) LineLen(n int) int {
	l, _ := b.Line(n)
	return len(l)
}

// Text returns the text covered by a half-open range, one string per line.
func (b *Buffer) Text(r span.Range) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !r.IsValid() || r.StartLine < 1 || r.EndLine > len(b.lines) {
		return nil, fmt.Errorf("%w: %s in %d lines", ErrOutOfBounds, r, len(b.lines))
	}
	first, last := b.lines[r.StartLine-1], b.lines[r.EndLine-1]
	if r.StartCol < 0 || r.StartCol > len(first) || r.EndCol < 0 || r.EndCol > len(last) {
		return nil, fmt.Errorf("%w: %s", ErrOutOfBounds, r)
	}

	if r.IsSingleLine() {
		return []string{first[r.StartCol:r.EndCol]}, nil
	}

	out := make([]string, 0, r.EndLine-r.StartLine+1)
	out = append(out, first[r.StartCol:])
	out = append(out, b.lines[r.StartLine:r.EndLine-1]...)
	out = append(out, last[:r.EndCol])
	return out, nil
}

// Clamp limits r to the buffer bounds.
func (b *Buffer) Clamp(r span.Range) span.Range {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return r.Clamp(len(b.lines), func(n int) int { return len(b.lines[n-1]) })
}
