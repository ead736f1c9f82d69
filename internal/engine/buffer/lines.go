package buffer

// LineStart returns the index of the first character on the line holding index.
func (b *FileBuffer) LineStart(index int) int {
	index = min(max(index, 0), b.LastIndex())
	for index > 0 && b.text[index-1] != Terminator {
		index--
	}
	return index
}

// LineEnd returns the index of the '\n' ending the line holding index.
func (b *FileBuffer) LineEnd(index int) int {
	index = min(max(index, 0), b.LastIndex())
	for b.text[index] != Terminator {
		index++
	}
	return index
}

// LineOf returns the zero-based line number holding index.
func (b *FileBuffer) LineOf(index int) int {
	index = min(max(index, 0), b.LastIndex())
	line := 0
	for _, r := range b.text[:index] {
		if r == Terminator {
			line++
		}
	}
	return line
}

// LineCount returns the number of lines, counting one per '\n'.
func (b *FileBuffer) LineCount() int {
	n := 0
	for _, r := range b.text {
		if r == Terminator {
			n++
		}
	}
	return n
}

// LineStartOf returns the index of the first character on line.
// ok is false when line does not exist.
func (b *FileBuffer) LineStartOf(line int) (index int, ok bool) {
	if line < 0 {
		return 0, false
	}
	if line == 0 {
		return 0, true
	}
	for i, r := range b.text {
		if r != Terminator {
			continue
		}
		line--
		if line == 0 {
			if i+1 >= len(b.text) {
				return 0, false
			}
			return i + 1, true
		}
	}
	return 0, false
}

// Column returns the distance of index from its line start.
func (b *FileBuffer) Column(index int) int {
	return index - b.LineStart(index)
}

// Line returns the text of line without its '\n'.
func (b *FileBuffer) Line(line int) (string, bool) {
	start, ok := b.LineStartOf(line)
	if !ok {
		return "", false
	}
	return string(b.text[start:b.LineEnd(start)]), true
}
