package common

import (
	"regexp"
	"strings"
)

// TemplateSyntaxRegexp matches host-template syntax that never occurs in a
// plain declaration list: braces (JSX bindings, {{mustache}}, ${}) and
// <% %> tags.
var TemplateSyntaxRegexp = regexp.MustCompile(`[{}]|<%|%>`)

// DeclarationItemRegexp matches the start of one "property: value" item,
// including vendor-prefixed and custom properties.
var DeclarationItemRegexp = regexp.MustCompile(`^\s*-{0,2}[A-Za-z_][-\w]*\s*:`)

// IsDeclarationList reports whether an attribute value reads as literal CSS
// declarations, e.g. "color: red; margin: 0". Empty values qualify.
func IsDeclarationList(value string) bool {
	if TemplateSyntaxRegexp.MatchString(value) {
		return false
	}
	for _, item := range SplitDeclarations(value) {
		if strings.TrimSpace(item) == "" {
			continue
		}
		if !DeclarationItemRegexp.MatchString(item) {
			return false
		}
	}
	return true
}

// SplitDeclarations splits a declaration list at top-level semicolons,
// ignoring those inside quotes or parentheses.
func SplitDeclarations(s string) []string {
	var items []string
	var quote byte
	depth, start := 0, 0
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
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ';' && depth == 0:
			items = append(items, s[start:i])
			start = i + 1
		}
	}
	return append(items, s[start:])
}

// NormalizeLang reduces a lang or MIME type attribute to a dialect tag:
// "text/x-scss" becomes "scss".
func NormalizeLang(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "text/")
	return strings.TrimPrefix(s, "x-")
}
