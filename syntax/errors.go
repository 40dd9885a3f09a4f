package syntax

import (
	"fmt"

	"bennypowers.dev/embedcss/stylesheet"
)

// FragmentParseError reports a stylesheet syntax error inside a fragment.
// Offset, Line and Column point into the host document.
type FragmentParseError struct {
	File     string
	Reason   string
	Offset   int
	Line     int
	Column   int
	Fragment Fragment
	// Err is the error reported by the stylesheet parser, with positions
	// relative to the fragment.
	Err *stylesheet.SyntaxError
}

func newFragmentParseError(file string, frag *Fragment, pos stylesheet.Position, err *stylesheet.SyntaxError) *FragmentParseError {
	return &FragmentParseError{
		File:     file,
		Reason:   err.Reason,
		Offset:   pos.Offset,
		Line:     pos.Line,
		Column:   pos.Column,
		Fragment: *frag,
		Err:      err,
	}
}

func (e *FragmentParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Column, e.Reason)
}

func (e *FragmentParseError) Unwrap() error {
	return e.Err
}

// Position returns where in the host document the error occurred.
func (e *FragmentParseError) Position() stylesheet.Position {
	return stylesheet.Position{Offset: e.Offset, Line: e.Line, Column: e.Column}
}
