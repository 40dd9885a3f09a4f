package transform

import (
	"strings"

	"bennypowers.dev/embedcss/internal/color"
	"bennypowers.dev/embedcss/internal/log"
	"bennypowers.dev/embedcss/stylesheet"
	"bennypowers.dev/embedcss/syntax"
)

// colorProperties take color values. Shorthands are included because their
// other components never parse as colors.
var colorProperties = map[string]bool{
	"color":                 true,
	"background":            true,
	"background-color":      true,
	"border":                true,
	"border-color":          true,
	"border-top":            true,
	"border-right":          true,
	"border-bottom":         true,
	"border-left":           true,
	"border-top-color":      true,
	"border-right-color":    true,
	"border-bottom-color":   true,
	"border-left-color":     true,
	"outline":               true,
	"outline-color":         true,
	"box-shadow":            true,
	"text-shadow":           true,
	"text-decoration-color": true,
	"caret-color":           true,
	"accent-color":          true,
	"column-rule-color":     true,
	"fill":                  true,
	"stroke":                true,
}

// ColorNormalizer rewrites colors in color-valued declarations, including
// custom properties, into one notation.
type ColorNormalizer struct {
	Format color.Format
}

func (c ColorNormalizer) Root(root *stylesheet.Root, frag syntax.Fragment) error {
	return root.WalkDecls(func(d *stylesheet.Declaration) error {
		prop := strings.ToLower(d.Prop)
		if !colorProperties[prop] && !strings.HasPrefix(prop, "--") {
			return nil
		}
		if value, changed := color.Normalize(d.Value, c.Format); changed {
			log.Debug("Normalized %s: %s to %s", d.Prop, d.Value, value)
			d.Value = value
		}
		return nil
	})
}
