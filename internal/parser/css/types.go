package css

import "bennypowers.dev/embedcss/internal/position"

// VariableType represents the type of CSS variable construct
type VariableType int

const (
	// VariableDeclaration represents a CSS custom property declaration (--var-name: value)
	VariableDeclaration VariableType = iota
	// VarReference represents a var() function call
	VarReference
)

func (t VariableType) String() string {
	if t == VarReference {
		return "reference"
	}
	return "declaration"
}

// Range is a span of scanned text, End exclusive.
type Range struct {
	Start position.Position
	End   position.Position
}

// Variable represents a CSS custom property declaration
type Variable struct {
	Name  string
	Value string
	Type  VariableType
	Range Range
}

// VarCall represents a var() function call
type VarCall struct {
	Name     string
	Fallback *string // Optional fallback value
	Type     VariableType
	Range    Range
}

// ParseResult contains the results of scanning CSS
type ParseResult struct {
	Variables []*Variable
	VarCalls  []*VarCall
}

// Map moves every range from fragment coordinates into the document the
// fragment was taken from.
func (r *ParseResult) Map(m position.Mapper) {
	for _, v := range r.Variables {
		v.Range = Range{Start: m.ToOuter(v.Range.Start), End: m.ToOuter(v.Range.End)}
	}
	for _, vc := range r.VarCalls {
		vc.Range = Range{Start: m.ToOuter(vc.Range.Start), End: m.ToOuter(vc.Range.End)}
	}
}
