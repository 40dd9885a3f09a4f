package html

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/embedcss/internal/collections"
	"bennypowers.dev/embedcss/internal/log"
	"bennypowers.dev/embedcss/internal/parser/common"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser locates stylesheet regions in HTML
type Parser struct {
	parser     *sitter.Parser
	styleQuery *sitter.Query
	attrQuery  *sitter.Query
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}

		styleQuery, qerr := sitter.NewQuery(htmlLang, `(style_element) @style`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile style query: %v", qerr))
		}

		// Unquoted values (style={binding}) are never literal CSS, so only
		// quoted values are captured. Names are compared in FindRegions
		// since HTML attribute names ignore case.
		attrQuery, qerr := sitter.NewQuery(htmlLang, `
			(attribute
				(attribute_name) @attr_name
				(quoted_attribute_value) @attr_value)
		`)
		if qerr != nil {
			panic(fmt.Sprintf("failed to compile attribute query: %v", qerr))
		}

		return &Parser{
			parser:     parser,
			styleQuery: styleQuery,
			attrQuery:  attrQuery,
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
	if p.styleQuery != nil {
		p.styleQuery.Close()
	}
	if p.attrQuery != nil {
		p.attrQuery.Close()
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

// FindRegions returns the bodies of <style> elements whose dialect is in
// langs, and the values of quoted style attributes that read as plain
// declarations. Regions are sorted by offset. Malformed markup yields fewer
// regions, never an error.
func (p *Parser) FindRegions(source string, langs collections.Set[string]) []common.Region {
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	var regions []common.Region

	// Find <style> element bodies
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(p.styleQuery, root, sourceBytes)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			node := capture.Node
			if region, ok := styleRegion(&node, source, langs); ok {
				regions = append(regions, region)
			}
		}
	}

	// Find style="..." attribute values
	cursor2 := sitter.NewQueryCursor()
	defer cursor2.Close()

	attrMatches := cursor2.Matches(p.attrQuery, root, sourceBytes)
	for match := attrMatches.Next(); match != nil; match = attrMatches.Next() {
		var name string
		var value *sitter.Node
		for _, capture := range match.Captures {
			switch p.attrQuery.CaptureNames()[capture.Index] {
			case "attr_name":
				name = source[capture.Node.StartByte():capture.Node.EndByte()]
			case "attr_value":
				node := capture.Node
				value = &node
			}
		}
		if value == nil || !strings.EqualFold(name, "style") {
			continue
		}
		if region, ok := attributeRegion(value, source); ok {
			regions = append(regions, region)
		}
	}

	common.SortRegions(regions)
	return regions
}

// styleRegion reads the body of a style_element. The body runs from the end
// of the start tag to the start of the end tag, or to the end of the element
// when the end tag is missing.
func styleRegion(node *sitter.Node, source string, langs collections.Set[string]) (common.Region, bool) {
	var startTag, endTag, rawText *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "start_tag":
			startTag = child
		case "end_tag":
			endTag = child
		case "raw_text":
			rawText = child
		}
	}
	if startTag == nil || startTag.IsMissing() {
		return common.Region{}, false
	}

	start := int(startTag.EndByte())
	if start == 0 || source[start-1] != '>' {
		log.Debug("Skipping unterminated <style> start tag at byte %d", startTag.StartByte())
		return common.Region{}, false
	}

	end := int(node.EndByte())
	switch {
	case endTag != nil && !endTag.IsMissing() && endTag.EndByte() > endTag.StartByte():
		end = int(endTag.StartByte())
	case rawText != nil:
		end = int(rawText.EndByte())
	}
	if end < start {
		return common.Region{}, false
	}

	lang := styleLang(startTag, source)
	if !langs.Has(lang) {
		log.Debug("Skipping <style> with unrecognized dialect %q at byte %d", lang, start)
		return common.Region{}, false
	}

	return common.Region{
		Content: source[start:end],
		Start:   start,
		End:     end,
		Kind:    common.StyleTag,
		Lang:    lang,
	}, true
}

// styleLang picks the dialect from the lang attribute, then the type
// attribute, defaulting to css.
func styleLang(startTag *sitter.Node, source string) string {
	attrs := map[string]string{}
	for i := uint(0); i < startTag.NamedChildCount(); i++ {
		attr := startTag.NamedChild(i)
		if attr.Kind() != "attribute" {
			continue
		}
		var name, value string
		for j := uint(0); j < attr.NamedChildCount(); j++ {
			part := attr.NamedChild(j)
			switch part.Kind() {
			case "attribute_name":
				name = strings.ToLower(source[part.StartByte():part.EndByte()])
			case "attribute_value":
				value = source[part.StartByte():part.EndByte()]
			case "quoted_attribute_value":
				value = strings.Trim(source[part.StartByte():part.EndByte()], `"'`)
			}
		}
		attrs[name] = value
	}

	for _, name := range []string{"lang", "type"} {
		if lang := common.NormalizeLang(attrs[name]); lang != "" {
			return lang
		}
	}
	return "css"
}

// attributeRegion reads the text between the quotes of a style attribute.
func attributeRegion(node *sitter.Node, source string) (common.Region, bool) {
	start, end := int(node.StartByte()), int(node.EndByte())
	if end-start < 2 {
		return common.Region{}, false
	}
	quote := source[start]
	if (quote != '"' && quote != '\'') || source[end-1] != quote {
		return common.Region{}, false
	}
	start, end = start+1, end-1

	value := source[start:end]
	if !common.IsDeclarationList(value) {
		log.Debug("Skipping style attribute that is not a declaration list at byte %d", start)
		return common.Region{}, false
	}

	return common.Region{
		Content: value,
		Start:   start,
		End:     end,
		Kind:    common.StyleAttribute,
		Lang:    "css",
	}, true
}
