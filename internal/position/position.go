package position

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Position is a location in a text document.
// Offset is a 0-based byte offset; Line and Column are 1-based, and Column
// counts characters (runes) since the preceding newline.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String renders the position as line:column.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Index resolves byte offsets in a text to line/column positions.
type Index struct {
	text       string
	lineStarts []int
}

// NewIndex builds a line index for text.
func NewIndex(text string) *Index {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Index{text: text, lineStarts: starts}
}

// At returns the position of the byte at offset.
// Offsets are clamped to [0, len(text)].
func (ix *Index) At(offset int) Position {
	offset = max(0, min(offset, len(ix.text)))

	// Last line start that is <= offset
	line := sort.Search(len(ix.lineStarts), func(i int) bool {
		return ix.lineStarts[i] > offset
	}) - 1

	lineStart := ix.lineStarts[line]
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: utf8.RuneCountInString(ix.text[lineStart:offset]) + 1,
	}
}

// Offset converts a 1-based line and column back to a byte offset.
// Columns past the end of the line clamp to the line end.
func (ix *Index) Offset(line, column int) int {
	if line < 1 {
		return 0
	}
	if line > len(ix.lineStarts) {
		return len(ix.text)
	}

	offset := ix.lineStarts[line-1]
	end := len(ix.text)
	if line < len(ix.lineStarts) {
		end = ix.lineStarts[line] - 1
	}

	for col := 1; col < column && offset < end; col++ {
		_, size := utf8.DecodeRuneInString(ix.text[offset:])
		offset += size
	}
	return offset
}
