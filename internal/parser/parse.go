package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/embedcss/internal/collections"
	"bennypowers.dev/embedcss/internal/parser/common"
	"bennypowers.dev/embedcss/internal/parser/css"
	"bennypowers.dev/embedcss/internal/parser/html"
	"bennypowers.dev/embedcss/internal/parser/js"
	"bennypowers.dev/embedcss/internal/parser/markdown"
)

// Lang is the language of a host document.
type Lang string

const (
	HTML     Lang = "html"
	Markdown Lang = "markdown"
	JS       Lang = "js"
)

// extensions maps file extensions to the locator they use. Anything else is
// read as HTML.
var extensions = map[string]Lang{
	".md":       Markdown,
	".markdown": Markdown,
	".mdown":    Markdown,
	".mkd":      Markdown,
	".mdx":      Markdown,
	".js":       JS,
	".jsx":      JS,
	".mjs":      JS,
	".cjs":      JS,
	".ts":       JS,
	".tsx":      JS,
	".mts":      JS,
	".cts":      JS,
}

// langNames accepts editor language IDs as well as the canonical names.
var langNames = map[string]Lang{
	"html":            HTML,
	"vue":             HTML,
	"svelte":          HTML,
	"markdown":        Markdown,
	"md":              Markdown,
	"js":              JS,
	"javascript":      JS,
	"javascriptreact": JS,
	"typescript":      JS,
	"typescriptreact": JS,
}

// LangFromFilename picks the host language from a file extension.
func LangFromFilename(name string) Lang {
	if lang, ok := extensions[strings.ToLower(filepath.Ext(name))]; ok {
		return lang
	}
	return HTML
}

// ParseLang resolves a host language name.
func ParseLang(name string) (Lang, error) {
	if lang, ok := langNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lang, nil
	}
	return "", fmt.Errorf("unknown host language %q", name)
}

var markdownParser = markdown.New()

// FindRegions locates the stylesheet regions of source with the locator for
// lang. langs holds the recognized dialect tags.
func FindRegions(source string, lang Lang, langs collections.Set[string]) []common.Region {
	switch lang {
	case Markdown:
		return markdownParser.FindRegions(source, langs)

	case JS:
		p := js.AcquireParser()
		defer js.ReleaseParser(p)
		return p.FindRegions(source, langs)

	default:
		p := html.AcquireParser()
		defer html.ReleaseParser(p)
		return p.FindRegions(source, langs)
	}
}

// ScanVariables lists the custom properties and var() calls of a region,
// with ranges relative to the region content.
func ScanVariables(region common.Region) (*css.ParseResult, error) {
	p := css.AcquireParser()
	defer css.ReleaseParser(p)

	if region.Kind == common.StyleAttribute {
		return p.ParseDeclarations(region.Content)
	}
	return p.Parse(region.Content)
}

// ClosePools releases the pooled tree-sitter parsers.
func ClosePools() {
	html.ClosePool()
	js.ClosePool()
	css.ClosePool()
}
