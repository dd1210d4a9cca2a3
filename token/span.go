package token

import "fmt"

// FileID identifies a file consistently across a workspace. It is usually a
// path or URI chosen by the caller.
type FileID string

// Span is a half-open byte range [Start, End) within one file.
type Span struct {
	File  FileID `json:"file"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// NewSpan returns the span [start, end) in file.
func NewSpan(file FileID, start, end int) Span {
	return Span{File: file, Start: start, End: end}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Contains reports whether offset lies within the span. The end offset is
// included so that a cursor placed right after a token still hits it.
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset <= s.End
}

// Covers reports whether other lies entirely within s.
func (s Span) Covers(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Overlaps reports whether the two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

// At returns an empty span positioned at offset.
func (s Span) At(offset int) Span {
	return Span{File: s.File, Start: offset, End: offset}
}

// Text returns the source text covered by the span, clamped to src.
func (s Span) Text(src string) string {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(src) {
		end = len(src)
	}
	if start >= end {
		return ""
	}
	return src[start:end]
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("[%d,%d)", s.Start, s.End)
	}
	return fmt.Sprintf("%s[%d,%d)", s.File, s.Start, s.End)
}
