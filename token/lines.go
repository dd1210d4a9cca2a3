package token

import "sort"

// LineIndex converts between byte offsets and line/column positions for one
// source text. It is immutable once built.
type LineIndex struct {
	starts []int // byte offset of the start of each line
	size   int
}

// NewLineIndex scans src for line breaks.
func NewLineIndex(src string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts, size: len(src)}
}

// LineCount returns the number of lines in the text.
func (li *LineIndex) LineCount() int {
	return len(li.starts)
}

// Position returns the position of the given byte offset. Offsets past the
// end of the text are clamped.
func (li *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > li.size {
		offset = li.size
	}
	line := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	}) - 1
	start := li.starts[line]
	return Position{
		Offset:    offset,
		LineStart: start,
		Line:      line,
		Column:    offset - start,
	}
}

// Offset returns the byte offset of a 0-indexed line and column, clamped to
// the text.
func (li *LineIndex) Offset(line, column int) int {
	if line < 0 {
		return 0
	}
	if line >= len(li.starts) {
		return li.size
	}
	off := li.starts[line] + column
	end := li.size
	if line+1 < len(li.starts) {
		end = li.starts[line+1]
	}
	if off > end {
		off = end
	}
	return off
}

// LineText returns the text of a 0-indexed line without its line break.
func (li *LineIndex) LineText(src string, line int) string {
	if line < 0 || line >= len(li.starts) {
		return ""
	}
	start := li.starts[line]
	end := li.size
	if line+1 < len(li.starts) {
		end = li.starts[line+1]
	}
	if end > len(src) {
		end = len(src)
	}
	text := src[start:end]
	for len(text) > 0 && (text[len(text)-1] == '\n' || text[len(text)-1] == '\r') {
		text = text[:len(text)-1]
	}
	return text
}
