package language

import (
	"errors"
	"fmt"
)

// Errors returned by the language manager.
var (
	// ErrLanguageNotFound indicates no definition exists for a language name.
	ErrLanguageNotFound = errors.New("language not found")

	// ErrMalformedDefinition indicates a definition that cannot be used.
	ErrMalformedDefinition = errors.New("malformed language definition")
)

// DefinitionError describes a failure to load or resolve a language definition.
type DefinitionError struct {
	Language string
	Message  string
	Err      error
}

func (e *DefinitionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("language %q: %s: %v", e.Language, e.Message, e.Err)
	}
	return fmt.Sprintf("language %q: %v", e.Language, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}
