package position

// Mapper translates positions between an embedded fragment and the document
// that contains it. Fragment positions are relative to the fragment's own
// text and start at line 1, column 1.
type Mapper struct {
	// Start is the outer-document position of the fragment's first character.
	Start Position
}

// NewMapper returns a mapper for a fragment starting at start.
func NewMapper(start Position) Mapper {
	return Mapper{Start: start}
}

// ToOuter maps a fragment-relative position to the outer document.
// Only the first fragment line is shifted horizontally; later lines keep
// their column because they begin at a newline in both texts.
func (m Mapper) ToOuter(p Position) Position {
	out := Position{Offset: m.Start.Offset + p.Offset}
	if p.Line <= 1 {
		out.Line = m.Start.Line
		out.Column = m.Start.Column + p.Column - 1
	} else {
		out.Line = m.Start.Line + p.Line - 1
		out.Column = p.Column
	}
	return out
}

// ToFragment is the inverse of ToOuter.
func (m Mapper) ToFragment(p Position) Position {
	out := Position{Offset: p.Offset - m.Start.Offset}
	if p.Line == m.Start.Line {
		out.Line = 1
		out.Column = p.Column - m.Start.Column + 1
	} else {
		out.Line = p.Line - m.Start.Line + 1
		out.Column = p.Column
	}
	return out
}
