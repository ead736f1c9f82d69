package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNoActiveView indicates there is no view to send a command to.
	ErrNoActiveView = errors.New("no active view")

	// ErrUnsavedChanges indicates a buffer with unsaved changes would be lost.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrUnhandledAction indicates an action no layer handles.
	ErrUnhandledAction = errors.New("unhandled action")

	// ErrClosed indicates the application was closed.
	ErrClosed = errors.New("application closed")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "save", "open", "action")
	Target string // Target of the operation (e.g., file path, action name)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
