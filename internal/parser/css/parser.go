// Package css scans stylesheet text with tree-sitter for custom property
// declarations and var() references.
package css

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/embedcss/internal/position"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// Parser handles parsing CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return &Parser{parser: parser}
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
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// declarationWrapper turns a bare declaration list into a rule the grammar accepts
const declarationWrapper = "x{"

// Parse scans a stylesheet for custom property declarations and var() calls.
// Ranges are relative to source.
func (p *Parser) Parse(source string) (*ParseResult, error) {
	return p.scan(source, source, 0)
}

// ParseDeclarations scans a bare declaration list such as a style attribute
// value. Ranges are relative to source.
func (p *Parser) ParseDeclarations(source string) (*ParseResult, error) {
	return p.scan(declarationWrapper+source+"}", source, len(declarationWrapper))
}

func (p *Parser) scan(text, source string, shift int) (*ParseResult, error) {
	sourceBytes := []byte(text)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	s := &scanner{
		source: sourceBytes,
		index:  position.NewIndex(source),
		shift:  shift,
		result: &ParseResult{
			Variables: []*Variable{},
			VarCalls:  []*VarCall{},
		},
	}
	s.walk(tree.RootNode())
	return s.result, nil
}

type scanner struct {
	source []byte
	index  *position.Index
	shift  int
	result *ParseResult
}

func (s *scanner) text(node *sitter.Node) string {
	return string(s.source[node.StartByte():node.EndByte()])
}

// rangeOf converts a node's byte span into positions in the unwrapped source.
func (s *scanner) rangeOf(node *sitter.Node) Range {
	return Range{
		Start: s.index.At(int(node.StartByte()) - s.shift),
		End:   s.index.At(int(node.EndByte()) - s.shift),
	}
}

// walk recursively walks the tree to find CSS variables and var() calls
func (s *scanner) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "declaration":
		s.handleDeclaration(node)
	case "call_expression":
		s.handleCallExpression(node)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		s.walk(node.Child(i))
	}
}

// handleDeclaration records declarations of custom properties
func (s *scanner) handleDeclaration(node *sitter.Node) {
	var propertyNode *sitter.Node
	var valueStart, valueEnd uint
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_name":
			propertyNode = child
		case ":", ";", "important":
		default:
			if propertyNode == nil {
				continue
			}
			if valueStart == 0 {
				valueStart = child.StartByte()
			}
			valueEnd = child.EndByte()
		}
	}
	if propertyNode == nil {
		return
	}

	name := s.text(propertyNode)
	if !strings.HasPrefix(name, "--") {
		return
	}

	var value string
	if valueEnd > valueStart {
		value = strings.TrimSpace(string(s.source[valueStart:valueEnd]))
	}

	s.result.Variables = append(s.result.Variables, &Variable{
		Name:  name,
		Value: value,
		Type:  VariableDeclaration,
		Range: s.rangeOf(node),
	})
}

// handleCallExpression records var() calls and their fallback
func (s *scanner) handleCallExpression(node *sitter.Node) {
	var functionNameNode, argumentsNode *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "function_name":
			functionNameNode = child
		case "arguments":
			argumentsNode = child
		}
	}
	if functionNameNode == nil || argumentsNode == nil || s.text(functionNameNode) != "var" {
		return
	}

	// Everything after the first comma is the fallback, commas included
	args := strings.TrimSuffix(strings.TrimPrefix(s.text(argumentsNode), "("), ")")
	name, fallback, hasFallback := strings.Cut(args, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	call := &VarCall{
		Name:  name,
		Type:  VarReference,
		Range: s.rangeOf(node),
	}
	if hasFallback {
		fb := strings.TrimSpace(fallback)
		call.Fallback = &fb
	}
	s.result.VarCalls = append(s.result.VarCalls, call)
}
