package filestore

import (
	"errors"
	"fmt"
)

// Errors returned by Store operations.
var (
	ErrIsDirectory   = errors.New("is a directory")
	ErrFileTooLarge  = errors.New("file too large")
	ErrModified      = errors.New("buffer has unsaved changes")
	ErrNoPath        = errors.New("buffer has no file path")
	ErrReleased      = errors.New("handle released")
	ErrAlreadyOpen   = errors.New("path already open")
	ErrUnknownHandle = errors.New("handle not owned by store")
)

// PathError records the operation and file path that failed.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}
