package syntax

import "errors"

// Errors for syntax tree operations.
var (
	// ErrNoLanguage indicates no grammar is registered for a filetype.
	ErrNoLanguage = errors.New("no grammar for filetype")

	// ErrParseFailed indicates the parser could not produce a tree.
	ErrParseFailed = errors.New("parse failed")

	// ErrNoTree indicates the parser returned a tree without a root node.
	ErrNoTree = errors.New("no syntax tree")
)
