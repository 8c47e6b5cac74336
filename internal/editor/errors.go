package editor

import "errors"

// Sentinel errors returned by buffers and windows.
var (
	// ErrOutOfBounds is returned when a range reaches past the buffer.
	ErrOutOfBounds = errors.New("range out of buffer bounds")

	// ErrNoSelection is returned when a window has no visual marks.
	ErrNoSelection = errors.New("no visual selection")
)
