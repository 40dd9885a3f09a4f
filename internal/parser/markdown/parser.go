// Package markdown locates stylesheets in Markdown: fenced code blocks tagged
// with a stylesheet dialect, and <style> elements written directly in the
// document.
package markdown

import (
	"strings"

	"bennypowers.dev/embedcss/internal/collections"
	"bennypowers.dev/embedcss/internal/log"
	"bennypowers.dev/embedcss/internal/parser/common"
	"bennypowers.dev/embedcss/internal/parser/html"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Parser locates stylesheet regions in Markdown. It is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// New returns a CommonMark parser.
func New() *Parser {
	return &Parser{md: goldmark.New()}
}

// span is a byte range of the document.
type span struct{ start, end int }

// FindRegions returns the bodies of fences whose info string starts with a
// tag in langs, plus the HTML regions of the document that are not inside
// code or block quotes. Regions are sorted by offset.
func (p *Parser) FindRegions(source string, langs collections.Set[string]) []common.Region {
	src := []byte(source)
	doc := p.md.Parser().Parse(text.NewReader(src))

	var regions []common.Region
	// code and quoted text hide <style> elements
	var opaque []span

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Blockquote:
			// Quoted HTML keeps its "> " markers in the source
			if s, ok := blockSpan(node, src); ok {
				opaque = append(opaque, s)
			}
		case *ast.FencedCodeBlock:
			if s, ok := linesSpan(node.Lines()); ok {
				opaque = append(opaque, s)
			}
			if region, ok := fenceRegion(node, src, langs); ok {
				regions = append(regions, region)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			if s, ok := linesSpan(node.Lines()); ok {
				opaque = append(opaque, s)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeSpan:
			if s, ok := inlineSpan(node); ok {
				opaque = append(opaque, s)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	htmlParser := html.AcquireParser()
	defer html.ReleaseParser(htmlParser)

	for _, region := range htmlParser.FindRegions(source, langs) {
		if overlapsAny(region, opaque) {
			log.Debug("Skipping %s inside code or a block quote at byte %d", region.Kind, region.Start)
			continue
		}
		regions = append(regions, region)
	}

	common.SortRegions(regions)
	return regions
}

// fenceRegion reads the body of a fenced code block. The body runs from the
// start of its first line, so the indentation of a list item stays part of
// the stylesheet. Bodies whose lines are separated by anything but
// indentation, such as block quote markers, stay opaque.
func fenceRegion(node *ast.FencedCodeBlock, src []byte, langs collections.Set[string]) (common.Region, bool) {
	if node.Info == nil {
		return common.Region{}, false
	}
	lang := strings.ToLower(string(node.Language(src)))
	if !langs.Has(lang) {
		return common.Region{}, false
	}

	lines := node.Lines()
	var start, end int
	if lines.Len() == 0 {
		// Empty body: an empty region right after the opening fence line
		start = node.Info.Segment.Stop
		if nl := strings.IndexByte(string(src[start:]), '\n'); nl >= 0 {
			start += nl + 1
		} else {
			start = len(src)
		}
		end = start
	} else {
		start = lineStart(src, lines.At(0).Start)
		prev := start
		for i := range lines.Len() {
			line := lines.At(i)
			if !isIndent(src[prev:line.Start]) {
				log.Debug("Skipping %s fence with non-contiguous body at byte %d", lang, lines.At(0).Start)
				return common.Region{}, false
			}
			prev = line.Stop
		}
		end = lines.At(lines.Len() - 1).Stop
	}

	return common.Region{
		Content: string(src[start:end]),
		Start:   start,
		End:     end,
		Kind:    common.CodeFence,
		Lang:    lang,
	}, true
}

func lineStart(src []byte, offset int) int {
	for offset > 0 && src[offset-1] != '\n' {
		offset--
	}
	return offset
}

func isIndent(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' {
			return false
		}
	}
	return true
}

// blockSpan covers every line of a container block, from the start of its
// first line.
func blockSpan(n ast.Node, src []byte) (span, bool) {
	s := span{start: -1, end: -1}
	grow := func(seg text.Segment) {
		if seg.Start < 0 || seg.Stop < seg.Start {
			return
		}
		if s.start == -1 || seg.Start < s.start {
			s.start = seg.Start
		}
		if seg.Stop > s.end {
			s.end = seg.Stop
		}
	}
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			grow(c.Segment)
		case *ast.HTMLBlock:
			if c.HasClosure() {
				grow(c.ClosureLine)
			}
		}
		if c.Type() == ast.TypeBlock {
			lines := c.Lines()
			for i := range lines.Len() {
				grow(lines.At(i))
			}
		}
		return ast.WalkContinue, nil
	})
	if s.start < 0 {
		return span{}, false
	}
	s.start = lineStart(src, s.start)
	return s, true
}

func linesSpan(lines *text.Segments) (span, bool) {
	if lines.Len() == 0 {
		return span{}, false
	}
	return span{lines.At(0).Start, lines.At(lines.Len() - 1).Stop}, true
}

func inlineSpan(node *ast.CodeSpan) (span, bool) {
	s := span{start: -1, end: -1}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		t, ok := child.(*ast.Text)
		if !ok {
			continue
		}
		if s.start == -1 || t.Segment.Start < s.start {
			s.start = t.Segment.Start
		}
		if t.Segment.Stop > s.end {
			s.end = t.Segment.Stop
		}
	}
	return s, s.start >= 0
}

func overlapsAny(region common.Region, spans []span) bool {
	for _, s := range spans {
		if region.Overlaps(s.start, s.end) {
			return true
		}
	}
	return false
}
