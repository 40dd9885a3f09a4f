package stylesheet

import "fmt"

// Reasons reported by SyntaxError.
const (
	ReasonUnclosedBlock   = "Unclosed block"
	ReasonUnexpectedClose = "Unexpected }"
	ReasonUnclosedString  = "Unclosed string"
	ReasonUnclosedComment = "Unclosed comment"
	ReasonUnclosedURL     = "Unclosed url"
	ReasonUnknownWord     = "Unknown word"
)

// SyntaxError reports malformed stylesheet source. Offset, Line and Column
// are relative to the parsed text.
type SyntaxError struct {
	File   string
	Reason string
	Offset int
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	file := e.File
	if file == "" {
		file = "<css input>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, e.Line, e.Column, e.Reason)
}

// Position returns where the error occurred.
func (e *SyntaxError) Position() Position {
	return Position{Offset: e.Offset, Line: e.Line, Column: e.Column}
}
