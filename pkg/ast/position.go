package ast

import (
	"sort"
	"unicode/utf8"
)

// Span locates a node in the source.
// Offsets are byte indices. Lines and columns are 1-based, and columns
// count characters.
type Span struct {
	// Start is the byte index where the span begins (inclusive).
	Start int

	// End is the byte index where the span ends (exclusive).
	End int

	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// IsEmpty returns true if the span has zero length.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// LineInfo holds the offsets of a single line.
type LineInfo struct {
	// StartOffset is the byte index of the line start.
	StartOffset int

	// EndOffset is the byte index just after the newline (or end of input).
	EndOffset int
}

// LineIndex maps byte offsets of a source string to line/column positions.
type LineIndex struct {
	content string
	lines   []LineInfo
}

// NewLineIndex builds the line table for content.
func NewLineIndex(content string) *LineIndex {
	idx := &LineIndex{content: content}

	lineStart := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			idx.lines = append(idx.lines, LineInfo{StartOffset: lineStart, EndOffset: i + 1})
			lineStart = i + 1
		}
	}

	// The last line may not end with a newline, and an empty trailing line
	// still has a position.
	idx.lines = append(idx.lines, LineInfo{StartOffset: lineStart, EndOffset: len(content)})

	return idx
}

// LineCount returns the number of lines.
func (idx *LineIndex) LineCount() int {
	return len(idx.lines)
}

// LineAt converts a byte offset to 1-based line and character column numbers.
// Offsets past the end are clamped to the end of the last line.
// Returns (0, 0) for negative offsets.
func (idx *LineIndex) LineAt(offset int) (int, int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > len(idx.content) {
		offset = len(idx.content)
	}

	lineIdx := sort.Search(len(idx.lines), func(i int) bool {
		return idx.lines[i].EndOffset > offset
	})
	if lineIdx >= len(idx.lines) {
		lineIdx = len(idx.lines) - 1
	}

	lineStart := idx.lines[lineIdx].StartOffset
	return lineIdx + 1, utf8.RuneCountInString(idx.content[lineStart:offset]) + 1
}

// Span builds a Span for the byte range [start, end).
func (idx *LineIndex) Span(start, end int) Span {
	startLine, startCol := idx.LineAt(start)
	endLine, endCol := idx.LineAt(end)
	return Span{
		Start:       start,
		End:         end,
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
	}
}
