package syntax_test

import (
	"testing"

	"bennypowers.dev/embedcss/stylesheet"
	"bennypowers.dev/embedcss/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var markdownFixture = lines(
	"---",
	"title: Something Special",
	"---",
	"Here is some text.",
	"```css",
	".foo {}",
	"```",
	"And some other text.",
	"```css",
	"    .foo { color: pink; }",
	"      .bar {}",
	"```",
	"<style>",
	"a {",
	"\tdisplay: flex;",
	"}",
	"</style>",
	"```scss",
	"// Parser-breaking comment",
	"$foo: bar;",
	".foo {}",
	"```",
	"And the end.",
)

func TestMarkdownFixture(t *testing.T) {
	doc := parse(t, markdownFixture, "markdown.md")

	assert.Equal(t, syntax.Markdown, doc.Source().Lang)
	require.Len(t, doc.Nodes(), 4)
	assert.Equal(t, markdownFixture, doc.String())

	var kinds []syntax.Kind
	var dialects []stylesheet.Dialect
	for _, f := range doc.Fragments() {
		kinds = append(kinds, f.Kind)
		dialects = append(dialects, f.Dialect)
	}
	assert.Equal(t, []syntax.Kind{syntax.CodeFence, syntax.CodeFence, syntax.StyleTag, syntax.CodeFence}, kinds)
	assert.Equal(t, []stylesheet.Dialect{stylesheet.CSS, stylesheet.CSS, stylesheet.CSS, stylesheet.SCSS}, dialects)

	first := doc.First().(*stylesheet.Root).First()
	assert.Equal(t, 6, first.Source().Start.Line)
	assert.Equal(t, 1, first.Source().Start.Column)

	scss := doc.Last().(*stylesheet.Root)
	comment, ok := scss.First().(*stylesheet.Comment)
	require.True(t, ok)
	assert.True(t, comment.Inline)
	assert.Equal(t, 19, comment.Source().Start.Line)
}

func TestMarkdownWithoutCodeBlocks(t *testing.T) {
	doc := parse(t, "# Hi\n", "without_code_blocks.md")
	assert.Empty(t, doc.Nodes())
	assert.Equal(t, "# Hi\n", doc.String())
}

func TestMarkdownOpaqueBlocks(t *testing.T) {
	tests := []struct {
		name string
		md   string
	}{
		{"fence without language", "```\na { color: red\n```\n"},
		{"unknown language", "```js\nconst a = {\n```\n"},
		{"indented code", "text\n\n    <style>a {</style>\n"},
		{"style in code span", "Use `<style>a {</style>` here.\n"},
		{"style in fenced html", "```html\n<style>a {</style>\n```\n"},
		{"style in block quote", "> <style>\n> a{}\n> </style>\n"},
		{"fence in nested block quote", "- item\n\n  > ```css\n  > a {\n  > }\n  > ```\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parse(t, tt.md, "opaque.md")
			assert.Empty(t, doc.Nodes())
			assert.Equal(t, tt.md, doc.String())
		})
	}
}

func TestMarkdownMutations(t *testing.T) {
	md := lines("Intro", "```css", "a {}", "```", "```less", "@c: red;", "```", "Outro")

	doc := parse(t, md, "edit.md")
	require.Len(t, doc.Roots(), 2)

	css, less := doc.Roots()[0], doc.Roots()[1]
	css.First().(*stylesheet.Rule).Selector = "b"
	less.Append(stylesheet.NewDecl("@d", "blue"))

	assert.Equal(t, lines("Intro", "```css", "b {}", "```", "```less", "@c: red;@d: blue;", "```", "Outro"), doc.String())
}

func TestMarkdownLangOverride(t *testing.T) {
	md := "```css\na {}\n```\n"
	doc, err := syntax.Parse(md, syntax.Options{From: "README", Lang: syntax.Markdown})
	require.NoError(t, err)
	assert.Len(t, doc.Nodes(), 1)

	doc, err = syntax.Parse(md, syntax.Options{From: "README"})
	require.NoError(t, err)
	assert.Equal(t, syntax.HTML, doc.Source().Lang)
	assert.Empty(t, doc.Nodes())
}

func TestCustomDialects(t *testing.T) {
	md := "```sass-ish\na {}\n```\n```css\nb {}\n```\n"
	doc, err := syntax.Parse(md, syntax.Options{
		From:     "custom.md",
		Dialects: map[string]stylesheet.Dialect{"sass-ish": stylesheet.SCSS},
	})
	require.NoError(t, err)

	frags := doc.Fragments()
	require.Len(t, frags, 1)
	assert.Equal(t, "sass-ish", frags[0].Lang)
	assert.Equal(t, stylesheet.SCSS, frags[0].Dialect)
	assert.Equal(t, md, doc.String())
}
