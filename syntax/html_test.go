package syntax_test

import (
	"strings"
	"testing"

	"bennypowers.dev/embedcss/stylesheet"
	"bennypowers.dev/embedcss/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}

func parse(t *testing.T, text, from string) *syntax.Document {
	t.Helper()
	doc, err := syntax.Parse(text, syntax.Options{From: from})
	require.NoError(t, err)
	return doc
}

// eachRoot runs fn on every stylesheet root, the way a plugin sees them.
func eachRoot(doc *syntax.Document, fn func(root *stylesheet.Root)) {
	for _, root := range doc.Roots() {
		fn(root)
	}
}

func parseNodes(t *testing.T, css string) []stylesheet.Node {
	t.Helper()
	root, err := stylesheet.Parse(css, stylesheet.Options{})
	require.NoError(t, err)
	return root.Nodes()
}

var flexStyle = lines(
	"<html>",
	"<style>",
	"a {",
	"\tdisplay: flex;",
	"}",
	"</style>",
	"</html>",
)

var twoFlexStyles = lines(
	"<html>",
	"<style>",
	"a {",
	"\tdisplay: flex;",
	"}",
	"</style>",
	"<style>",
	"a {",
	"\tdisplay: flex;",
	"}",
	"</style>",
	"</html>",
)

func TestHTMLRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		nodes int
	}{
		{name: "invalid html", html: "<", nodes: 0},
		{name: "empty", html: "", nodes: 0},
		{
			name: "less",
			html: lines(
				"<html>",
				"<head>",
				`<style type="text/less">`,
				"a {",
				"\tdisplay: flex;",
				"}",
				"</style>",
				"</head>",
				"<body>",
				`<div style="font-family: serif, serif;">`,
				"</div>",
				"</body>",
				"</html>",
			),
			nodes: 2,
		},
		{
			name: "react inline styles",
			html: `
			<div style={divStyle}/>
			<div style={{ height: '10%' }}/>
			<div style={{height: '10%'}}/>
			<div style={createMarkup()}/>
			<div style = {divStyle} />
			<div style = {{ height: '10%' }} />
			<div style = {{height: '10%'}} />
			<div style = {createMarkup()} />
		`,
			nodes: 0,
		},
		{name: "two styles", html: twoFlexStyles, nodes: 2},
		{name: "crlf", html: "<p>\r\n<style>\r\na {\r\n\tcolor: red;\r\n}\r\n</style>\r\n", nodes: 1},
		// Whether an unterminated element counts is up to the markup parser,
		// but the text must survive either way.
		{name: "unclosed style", html: "<style>a { color: red }", nodes: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.html, "test.html")
			assert.Equal(t, syntax.HTML, doc.Source().Lang)
			if tt.nodes >= 0 {
				assert.Len(t, doc.Nodes(), tt.nodes)
			}
			assert.Equal(t, tt.html, doc.String())
		})
	}
}

func TestHTMLLessDialect(t *testing.T) {
	doc := parse(t, `<style type="text/less">@c: red; a { color: @c; .m(); }</style>`, "less.html")
	frags := doc.Fragments()
	require.Len(t, frags, 1)
	assert.Equal(t, "less", frags[0].Lang)
	assert.Equal(t, stylesheet.Less, frags[0].Dialect)
	assert.Equal(t, syntax.StyleTag, frags[0].Kind)
}

func TestHTMLMutations(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		plugin func(t *testing.T, root *stylesheet.Root)
		want   string
	}{
		{
			name: "append",
			html: flexStyle,
			plugin: func(t *testing.T, root *stylesheet.Root) {
				root.Append(stylesheet.NewRule("b"))
			},
			want: lines("<html>", "<style>", "a {", "\tdisplay: flex;", "}", "b {}", "</style>", "</html>"),
		},
		{
			name: "prepend",
			html: flexStyle,
			plugin: func(t *testing.T, root *stylesheet.Root) {
				root.Prepend(stylesheet.NewRule("b"))
			},
			want: lines("<html>", "<style>", "b {}", "a {", "\tdisplay: flex;", "}", "</style>", "</html>"),
		},
		{
			name: "insert before last",
			html: twoFlexStyles,
			plugin: func(t *testing.T, root *stylesheet.Root) {
				root.InsertBefore(root.Last(), stylesheet.NewRule("b"))
			},
			want: lines(
				"<html>",
				"<style>", "b {}a {", "\tdisplay: flex;", "}", "</style>",
				"<style>", "b {}a {", "\tdisplay: flex;", "}", "</style>",
				"</html>",
			),
		},
		{
			name: "insert after first",
			html: twoFlexStyles,
			plugin: func(t *testing.T, root *stylesheet.Root) {
				root.InsertAfter(root.First(), stylesheet.NewRule("b"))
			},
			want: lines(
				"<html>",
				"<style>", "a {", "\tdisplay: flex;", "}b {}", "</style>",
				"<style>", "a {", "\tdisplay: flex;", "}b {}", "</style>",
				"</html>",
			),
		},
		{
			name: "unshift parsed nodes",
			html: flexStyle,
			plugin: func(t *testing.T, root *stylesheet.Root) {
				root.SetNodes(append(parseNodes(t, "b {}"), root.Nodes()...))
			},
			want: lines("<html>", "<style>", "b {}a {", "\tdisplay: flex;", "}", "</style>", "</html>"),
		},
		{
			name: "push parsed nodes",
			html: flexStyle,
			plugin: func(t *testing.T, root *stylesheet.Root) {
				root.SetNodes(append(root.Nodes(), parseNodes(t, "b {}")...))
			},
			want: lines("<html>", "<style>", "a {", "\tdisplay: flex;", "}b {}", "</style>", "</html>"),
		},
		{
			name: "replace nodes",
			html: lines("<html>", "<style>", "</style>", "</html>"),
			plugin: func(t *testing.T, root *stylesheet.Root) {
				root.SetNodes(parseNodes(t, "b {}"))
			},
			want: lines("<html>", "<style>", "b {}</style>", "</html>"),
		},
		{
			name: "replace nodes of empty tags",
			html: lines("<style></style>", "<style></style>"),
			plugin: func(t *testing.T, root *stylesheet.Root) {
				root.SetNodes(parseNodes(t, "b {}"))
			},
			want: lines("<style>b {}</style>", "<style>b {}</style>"),
		},
		{
			name: "edit style attribute",
			html: `<div style="color: red; margin: 0">x</div>`,
			plugin: func(t *testing.T, root *stylesheet.Root) {
				_ = root.WalkDecls(func(d *stylesheet.Declaration) error {
					if d.Prop == "color" {
						d.Value = "blue"
					}
					return nil
				})
			},
			want: `<div style="color: blue; margin: 0">x</div>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.html, "mutate.html")
			eachRoot(doc, func(root *stylesheet.Root) { tt.plugin(t, root) })
			assert.Equal(t, syntax.HTML, doc.Source().Lang)
			assert.Equal(t, tt.want, doc.String())
		})
	}
}

func TestHTMLStyleTagInLastLine(t *testing.T) {
	html := "\n<style>b{}</style>"
	doc := parse(t, html, "style_tag_in_last_line.html")

	require.Len(t, doc.Nodes(), 1)
	assert.Equal(t, html, doc.String())

	first := doc.First()
	assert.Equal(t, 2, first.Source().Start.Line)
	assert.Equal(t, 8, first.Source().Start.Column)

	rule := first.(*stylesheet.Root).First()
	assert.Equal(t, stylesheet.Position{Offset: 8, Line: 2, Column: 8}, rule.Source().Start)
	assert.Equal(t, stylesheet.Position{Offset: 11, Line: 2, Column: 11}, rule.Source().End)
}
