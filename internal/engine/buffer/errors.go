package buffer

import "errors"

// Errors returned by buffer operations.
var (
	// ErrInvalidState indicates a request the buffer's invariants rule out.
	ErrInvalidState = errors.New("invalid buffer state")

	// ErrOutOfRange indicates an index outside the editable range.
	ErrOutOfRange = errors.New("index out of range")

	// ErrCorruptHistory indicates a logged action that no longer matches the text.
	ErrCorruptHistory = errors.New("history does not match buffer text")
)
