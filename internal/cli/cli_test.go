package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/embedcss/internal/cli"
)

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := cli.NewRootCommand()
	assert.Equal(t, "embedcss", cmd.Use)
	for _, name := range []string{"fragments", "check", "fmt", "vars", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestFragments(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"index.html": "<style>a{}</style>\n<p style=\"color: red\"></p>\n",
		"docs/readme.md": "# Title\n\n```less\n@a: 1;\n```\n",
		"node_modules/dep/x.html": "<style>b{}</style>",
	})

	out, err := run(t, "fragments", dir)
	require.NoError(t, err)

	html := filepath.Join(dir, "index.html")
	md := filepath.Join(dir, "docs", "readme.md")
	assert.Equal(t, strings.Join([]string{
		md + ":4:1\tcode-fence\tless\t7",
		html + ":1:8\tstyle-tag\tcss\t3",
		html + ":2:11\tstyle-attribute\tcss\t10",
		"",
	}, "\n"), out)
}

func TestFragmentsJSON(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.html": "<style>a{}</style>"})

	out, err := run(t, "fragments", "--json", filepath.Join(dir, "a.html"))
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "style-tag", got[0]["kind"])
	assert.InDelta(t, 7, got[0]["offset"], 0)
}

func TestFragmentsGlob(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a/one.md": "```css\na{}\n```\n",
		"b/two.md": "```css\nb{}\n```\n",
		"c.html":   "<style>c{}</style>",
	})

	out, err := run(t, "fragments", filepath.Join(dir, "**", "*.md"))
	require.NoError(t, err)
	assert.Contains(t, out, "one.md")
	assert.Contains(t, out, "two.md")
	assert.NotContains(t, out, "c.html")

	_, err = run(t, "fragments", filepath.Join(dir, "*.vue"))
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	t.Run("clean files", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"ok.html": "<style>\na { color: red }\n</style>"})
		_, err := run(t, "check", dir)
		assert.NoError(t, err)
	})

	t.Run("syntax error at outer position", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"broken.html": "<p>\n<style>a {</style>"})
		out, err := run(t, "check", dir)
		require.ErrorIs(t, err, cli.ErrIssuesFound)
		assert.Contains(t, out, filepath.Join(dir, "broken.html")+":2:8: Unclosed block")
		assert.Contains(t, out, "1 of 1 files have issues")
	})
}

func TestFmt(t *testing.T) {
	const source = "<style>a{b:c}</style>\n"
	const want = "<style>a {\n\tb: c;\n}</style>\n"

	t.Run("prints", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"a.html": source})
		out, err := run(t, "fmt", filepath.Join(dir, "a.html"))
		require.NoError(t, err)
		assert.Equal(t, want, out)
	})

	t.Run("check", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"a.html": source, "b.html": want})
		out, err := run(t, "fmt", "--check", dir)
		require.ErrorIs(t, err, cli.ErrIssuesFound)
		assert.Equal(t, filepath.Join(dir, "a.html")+"\n", out)
	})

	t.Run("write", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"a.html": source})
		path := filepath.Join(dir, "a.html")
		_, err := run(t, "fmt", "--write", path)
		require.NoError(t, err)

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, string(got))
	})

	t.Run("normalize colors", func(t *testing.T) {
		dir := writeFiles(t, map[string]string{"a.html": "<style>a{color:red}</style>"})
		out, err := run(t, "fmt", "--normalize-colors", filepath.Join(dir, "a.html"))
		require.NoError(t, err)
		assert.Equal(t, "<style>a {\n\tcolor: #ff0000;\n}</style>", out)
	})
}

func TestFmtUsesConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		".embedcss.yaml": "format:\n  indent: \"  \"\n  normalizeColors: true\n  colorFormat: rgb\n",
		"a.html":         "<style>a{color:#fff}</style>",
	})

	out, err := run(t, "--config", filepath.Join(dir, ".embedcss.yaml"), "fmt", filepath.Join(dir, "a.html"))
	require.NoError(t, err)
	assert.Equal(t, "<style>a {\n  color: rgb(255, 255, 255);\n}</style>", out)
}

func TestLangFlag(t *testing.T) {
	dir := writeFiles(t, map[string]string{"notes.txt": "```css\na{}\n```\n"})
	path := filepath.Join(dir, "notes.txt")

	out, err := run(t, "fragments", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, "--lang", "markdown", "fragments", path)
	require.NoError(t, err)
	assert.Equal(t, path+":2:1\tcode-fence\tcss\t4\n", out)

	_, err = run(t, "--lang", "cobol", "fragments", path)
	assert.Error(t, err)
}

func TestVars(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.html": "<style>\n:root { --a: red; }\na { color: var(--a, blue); }\n</style>",
	})
	path := filepath.Join(dir, "a.html")

	out, err := run(t, "vars", path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		path + ":2:9\tdeclaration\t--a\tred",
		path + ":3:12\treference\t--a\tblue",
		"",
	}, "\n"), out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "embedcss "))
}
