package js

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/embedcss/internal/collections"
	"bennypowers.dev/embedcss/internal/log"
	"bennypowers.dev/embedcss/internal/parser/common"
	htmlparser "bennypowers.dev/embedcss/internal/parser/html"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Parser locates stylesheets in css and html tagged template literals of JS/TS
type Parser struct {
	parser        *sitter.Parser
	templateQuery *sitter.Query
	genericQuery  *sitter.Query // matches css<Type>`...` (generic form parsed by JS grammar as binary_expression)
}

// Template is a tagged template literal. Start and End enclose the text
// between the backticks.
type Template struct {
	Tag   string
	Start int
	End   int
	// Segments are the literal runs between ${...} substitutions, as byte
	// ranges into the source.
	Segments [][2]int
}

// HasSubstitutions reports whether the template interpolates values.
func (t Template) HasSubstitutions() bool {
	return len(t.Segments) != 1 || t.Segments[0] != [2]int{t.Start, t.End}
}

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}

		templateQuery, qerr := sitter.NewQuery(jsLang, `
			(call_expression
				function: (identifier) @tag
				arguments: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile template query: %v", qerr))
		}

		// Generic form: css<Type>`...` is valid TypeScript but the JS grammar
		// reads it as nested binary expressions.
		genericQuery, qerr := sitter.NewQuery(jsLang, `
			(binary_expression
				left: (binary_expression
					left: (identifier) @tag)
				right: (template_string) @template)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile generic query: %v", qerr))
		}

		return &Parser{
			parser:        parser,
			templateQuery: templateQuery,
			genericQuery:  genericQuery,
		}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
	if p.templateQuery != nil {
		p.templateQuery.Close()
	}
	if p.genericQuery != nil {
		p.genericQuery.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// ParseTemplates finds css and html tagged template literals, in source order.
// Handles both standard form (css`...`) and generic form (css<Type>`...`).
func (p *Parser) ParseTemplates(source string) []Template {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	var templates []Template

	// Run both queries: standard tagged templates and generic form
	for _, query := range []*sitter.Query{p.templateQuery, p.genericQuery} {
		templates = p.runTemplateQuery(query, root, sourceBytes, templates)
	}

	return templates
}

// runTemplateQuery executes a single tree-sitter query against the parsed tree,
// appending matching css/html tagged templates.
func (p *Parser) runTemplateQuery(query *sitter.Query, root *sitter.Node, sourceBytes []byte, templates []Template) []Template {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(query, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tagName string
		var templateNode sitter.Node
		foundTemplate := false

		for _, capture := range match.Captures {
			switch query.CaptureNames()[capture.Index] {
			case "tag":
				tagName = string(sourceBytes[capture.Node.StartByte():capture.Node.EndByte()])
			case "template":
				templateNode = capture.Node
				foundTemplate = true
			}
		}

		if tagName != "css" && tagName != "html" {
			continue
		}
		if !foundTemplate {
			continue
		}

		if tmpl, ok := readTemplate(&templateNode, sourceBytes, tagName); ok {
			templates = append(templates, tmpl)
		}
	}

	return templates
}

// readTemplate splits a template_string node into the literal runs between
// its ${...} substitutions.
func readTemplate(templateNode *sitter.Node, sourceBytes []byte, tag string) (Template, bool) {
	start, end := int(templateNode.StartByte())+1, int(templateNode.EndByte())-1
	if end < start || sourceBytes[end] != '`' {
		log.Debug("Skipping unterminated %s template at byte %d", tag, templateNode.StartByte())
		return Template{}, false
	}

	tmpl := Template{Tag: tag, Start: start, End: end}
	segStart := start
	for i := uint(0); i < templateNode.ChildCount(); i++ {
		child := templateNode.Child(i)
		if child.Kind() != "template_substitution" {
			continue
		}
		tmpl.Segments = append(tmpl.Segments, [2]int{segStart, int(child.StartByte())})
		segStart = int(child.EndByte())
	}
	tmpl.Segments = append(tmpl.Segments, [2]int{segStart, end})
	return tmpl, true
}

// FindRegions returns the bodies of css templates without substitutions, and
// the HTML regions inside html templates. Regions are sorted by offset.
func (p *Parser) FindRegions(source string, langs collections.Set[string]) []common.Region {
	var regions []common.Region
	for _, tmpl := range p.ParseTemplates(source) {
		switch tmpl.Tag {
		case "css":
			if tmpl.HasSubstitutions() {
				log.Debug("Skipping css template with substitutions at byte %d", tmpl.Start)
				continue
			}
			if !langs.Has("css") {
				continue
			}
			regions = append(regions, common.Region{
				Content: source[tmpl.Start:tmpl.End],
				Start:   tmpl.Start,
				End:     tmpl.End,
				Kind:    common.TaggedTemplate,
				Lang:    "css",
			})
		case "html":
			regions = append(regions, htmlRegions(tmpl, source, langs)...)
		}
	}
	common.SortRegions(regions)
	return regions
}

// htmlRegions runs the HTML locator over each literal run of an html
// template. A <style> body cut short by a substitution is dropped.
func htmlRegions(tmpl Template, source string, langs collections.Set[string]) []common.Region {
	htmlParser := htmlparser.AcquireParser()
	defer htmlparser.ReleaseParser(htmlParser)

	var regions []common.Region
	for _, seg := range tmpl.Segments {
		text := source[seg[0]:seg[1]]
		for _, region := range htmlParser.FindRegions(text, langs) {
			if region.Kind == common.StyleTag && !strings.HasPrefix(text[region.End:], "</") {
				log.Debug("Skipping <style> interrupted by a substitution at byte %d", seg[0]+region.Start)
				continue
			}
			regions = append(regions, region.Shift(seg[0]))
		}
	}
	return regions
}
