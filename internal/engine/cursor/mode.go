package cursor

import "fmt"

// Mode is the editing granularity of a view.
type Mode uint8

const (
	// ModeCharacter moves and edits one character at a time.
	ModeCharacter Mode = iota
	// ModeWord snaps selections to word boundaries.
	ModeWord
	// ModeLine forces selections to span whole lines.
	ModeLine
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeCharacter:
		return "character"
	case ModeWord:
		return "word"
	case ModeLine:
		return "line"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "character", "char":
		return ModeCharacter, nil
	case "word":
		return ModeWord, nil
	case "line":
		return ModeLine, nil
	default:
		return ModeCharacter, fmt.Errorf("unknown selection mode %q", s)
	}
}
