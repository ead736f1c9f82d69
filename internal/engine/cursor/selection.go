package cursor

import "fmt"

// Selection represents one cursor or range in a view.
// Primary is where motion happens; Secondary is the fixed end.
// The covered range [Smallest, Biggest] is inclusive.
// Selection is a value type.
type Selection struct {
	Primary   int // Index commands move
	Secondary int // Index that stays fixed while extending
	Offset    int // Remembered column for vertical motion
}

// NewSelection creates a collapsed selection at the given index.
func NewSelection(index int) Selection {
	return Selection{Primary: index, Secondary: index}
}

// NewRangeSelection creates a selection from secondary to primary.
func NewRangeSelection(secondary, primary int) Selection {
	return Selection{Primary: primary, Secondary: secondary}
}

// Smallest returns the lower end of the range.
func (s Selection) Smallest() int {
	if s.Primary < s.Secondary {
		return s.Primary
	}
	return s.Secondary
}

// Biggest returns the upper end of the range.
func (s Selection) Biggest() int {
	if s.Primary > s.Secondary {
		return s.Primary
	}
	return s.Secondary
}

// IsExtended returns true if the selection spans more than one character.
func (s Selection) IsExtended() bool {
	return s.Primary != s.Secondary
}

// IsInverted returns true if the primary index lies before the secondary one.
func (s Selection) IsInverted() bool {
	return s.Primary < s.Secondary
}

// Len returns the number of characters covered, always at least 1.
func (s Selection) Len() int {
	return s.Biggest() - s.Smallest() + 1
}

// Reset collapses the selection onto its primary index.
func (s Selection) Reset() Selection {
	s.Secondary = s.Primary
	return s
}

// Extend moves the primary index and keeps the secondary one.
func (s Selection) Extend(primary int) Selection {
	s.Primary = primary
	return s
}

// MoveTo returns a collapsed selection at index, keeping the offset.
func (s Selection) MoveTo(index int) Selection {
	s.Primary = index
	s.Secondary = index
	return s
}

// Flip swaps primary and secondary.
func (s Selection) Flip() Selection {
	s.Primary, s.Secondary = s.Secondary, s.Primary
	return s
}

// Contains returns true if index lies inside the inclusive range.
func (s Selection) Contains(index int) bool {
	return index >= s.Smallest() && index <= s.Biggest()
}

// Overlaps returns true if the two inclusive ranges share an index.
func (s Selection) Overlaps(other Selection) bool {
	return s.Smallest() <= other.Biggest() && other.Smallest() <= s.Biggest()
}

// Clamp keeps both indices inside [0, last].
func (s Selection) Clamp(last int) Selection {
	s.Primary = clamp(s.Primary, 0, last)
	s.Secondary = clamp(s.Secondary, 0, last)
	return s
}

// Valid returns true if both indices lie inside [0, last].
func (s Selection) Valid(last int) bool {
	return s.Primary >= 0 && s.Primary <= last && s.Secondary >= 0 && s.Secondary <= last
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if !s.IsExtended() {
		return fmt.Sprintf("Cursor(%d)", s.Primary)
	}
	dir := "→"
	if s.IsInverted() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Secondary, dir, s.Primary)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
