package script

import (
	"errors"
	"fmt"
)

// Script errors.
var (
	// ErrClosed is returned when running a script on a closed Runner.
	ErrClosed = errors.New("script runner is closed")

	// ErrTimeout is returned when a script runs past its time limit.
	ErrTimeout = errors.New("script timed out")
)

// Error reports a failed script. Err is the editor error that stopped the
// script when there was one, otherwise the Lua error.
type Error struct {
	Chunk string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Chunk, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
