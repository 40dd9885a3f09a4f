// Package color rewrites the colors inside stylesheet values.
package color

import (
	"fmt"
	"math"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Format is a notation colors can be written in.
type Format int

const (
	// Hex writes #rrggbb, or #rrggbbaa for translucent colors
	Hex Format = iota
	// RGB writes rgb(r, g, b), or rgba(r, g, b, a) for translucent colors
	RGB
)

// ParseFormat resolves a format name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "hex":
		return Hex, nil
	case "rgb":
		return RGB, nil
	default:
		return Hex, fmt.Errorf("unknown color format %q", name)
	}
}

var colorFunctions = map[string]bool{
	"rgb(":  true,
	"rgba(": true,
	"hsl(":  true,
	"hsla(": true,
	"hwb(":  true,
}

// ToCSS writes c in format f.
func ToCSS(c csscolorparser.Color, f Format) string {
	if f == Hex {
		return c.HexString()
	}

	r := channel(c.R)
	g := channel(c.G)
	b := channel(c.B)
	if c.A >= 0.999 {
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %.2f)", r, g, b, math.Max(0, c.A))
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Normalize rewrites every color in a declaration value: hex colors, color
// functions and named colors. Anything else, including custom property
// names and functions with unresolved arguments, is kept byte for byte.
// The second result reports whether the value changed.
func Normalize(value string, f Format) (string, bool) {
	var b strings.Builder
	changed := false
	lexer := css.NewLexer(parse.NewInputString(value))

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			break
		}
		text := string(data)

		switch {
		case tt == css.HashToken || tt == css.IdentToken:
			text, changed = convert(text, f, changed)

		case tt == css.FunctionToken && colorFunctions[strings.ToLower(text)]:
			// Collect the arguments up to the matching parenthesis
			depth := 1
			for depth > 0 {
				tt, data = lexer.Next()
				if tt == css.ErrorToken {
					break
				}
				switch tt {
				case css.FunctionToken, css.LeftParenthesisToken:
					depth++
				case css.RightParenthesisToken:
					depth--
				}
				text += string(data)
			}
			if depth == 0 {
				text, changed = convert(text, f, changed)
			}
		}
		b.WriteString(text)
	}

	if !changed {
		return value, false
	}
	return b.String(), true
}

func convert(text string, f Format, changed bool) (string, bool) {
	c, err := csscolorparser.Parse(text)
	if err != nil {
		return text, changed
	}
	out := ToCSS(c, f)
	return out, changed || out != text
}
