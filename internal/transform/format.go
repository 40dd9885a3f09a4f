package transform

import (
	"strings"

	"bennypowers.dev/embedcss/stylesheet"
	"bennypowers.dev/embedcss/syntax"
)

// Formatter rewrites the whitespace of stylesheet fragments into one rule
// per block, one declaration per line, and a blank line between rules.
// Style attributes are left alone.
type Formatter struct {
	// Indent is one level of indentation. Empty means a tab.
	Indent string
}

func (f Formatter) Root(root *stylesheet.Root, frag syntax.Fragment) error {
	if frag.Kind == syntax.StyleAttribute {
		return nil
	}
	indent := f.Indent
	if indent == "" {
		indent = "\t"
	}

	root.Raws.Before = lineBreakIf(root.Raws.Before)
	root.Raws.After = lineBreakIf(root.Raws.After)
	root.Raws.Semicolon = true
	formatChildren(root, indent, 0)
	return nil
}

// lineBreakIf keeps a single line break where the fragment had one, so
// fragments written inline stay inline at their edges.
func lineBreakIf(s string) string {
	if strings.ContainsAny(s, "\n") {
		return "\n"
	}
	return ""
}

func formatChildren(c stylesheet.Container, indent string, depth int) {
	prefix := strings.Repeat(indent, depth)
	var prev stylesheet.Node
	for _, n := range c.Nodes() {
		var before string
		switch {
		case prev == nil && depth == 0:
			before = ""
		case prev != nil && (isBlock(n) || isBlock(prev)):
			before = "\n\n" + prefix
		default:
			before = "\n" + prefix
		}
		formatNode(n, before, indent, depth)
		prev = n
	}
}

func isBlock(n stylesheet.Node) bool {
	switch n := n.(type) {
	case *stylesheet.Rule:
		return true
	case *stylesheet.AtRule:
		return n.HasBlock()
	}
	return false
}

func formatNode(n stylesheet.Node, before, indent string, depth int) {
	closing := "\n" + strings.Repeat(indent, depth)

	switch n := n.(type) {
	case *stylesheet.Rule:
		n.Raws.Before = before
		n.Selector = formatSelector(n.Selector, strings.Repeat(indent, depth))
		n.Raws.Between = " "
		n.Raws.After = closing
		n.Raws.Semicolon = true
		formatChildren(n, indent, depth+1)

	case *stylesheet.AtRule:
		n.Raws.Before = before
		n.Params = collapse(n.Params)
		n.Raws.AfterName = ""
		if n.Params != "" && !n.Mixin {
			n.Raws.AfterName = " "
		}
		n.Raws.Between = ""
		if n.HasBlock() {
			n.Raws.Between = " "
			n.Raws.After = closing
			n.Raws.Semicolon = true
			formatChildren(n, indent, depth+1)
		}

	case *stylesheet.Declaration:
		n.Raws.Before = before
		n.Raws.Between = ": "
		if n.Important {
			n.Raws.Important = " !important"
		}

	case *stylesheet.Comment:
		n.Raws.Before = before
	}
}

// formatSelector puts each selector of a list on its own line.
func formatSelector(selector, prefix string) string {
	parts := splitTopLevel(selector)
	for i, p := range parts {
		parts[i] = collapse(p)
	}
	return strings.Join(parts, ",\n"+prefix)
}

// splitTopLevel splits on commas outside parentheses, brackets and quotes.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// collapse trims s and squeezes runs of whitespace outside quotes into one
// space.
func collapse(s string) string {
	var b strings.Builder
	var quote byte
	space := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote == 0 && strings.IndexByte(" \t\r\n\f", c) >= 0 {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteByte(c)
		switch {
		case quote != 0 && c == '\\' && i+1 < len(s):
			i++
			b.WriteByte(s[i])
		case quote != 0 && c == quote:
			quote = 0
		case quote == 0 && (c == '"' || c == '\''):
			quote = c
		}
	}
	return b.String()
}
