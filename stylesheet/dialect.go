package stylesheet

import (
	"fmt"
	"strings"
)

// Dialect selects the stylesheet grammar.
type Dialect int

const (
	// CSS is plain CSS
	CSS Dialect = iota
	// SCSS adds // line comments and #{} interpolation
	SCSS
	// Less adds // line comments, @{} interpolation, @variables and mixin calls
	Less
)

func (d Dialect) String() string {
	switch d {
	case SCSS:
		return "scss"
	case Less:
		return "less"
	default:
		return "css"
	}
}

// ParseDialect resolves a dialect name.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "css", "":
		return CSS, nil
	case "scss":
		return SCSS, nil
	case "less":
		return Less, nil
	default:
		return CSS, fmt.Errorf("unknown stylesheet dialect %q", name)
	}
}

func (d Dialect) lineComments() bool {
	return d == SCSS || d == Less
}
