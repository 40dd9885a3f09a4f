package stylesheet

import (
	"regexp"
	"strings"

	"bennypowers.dev/embedcss/internal/position"
	"github.com/tdewolff/parse/v2/css"
)

// Options configure Parse.
type Options struct {
	Dialect Dialect
	// File names the input in errors and node sources.
	File string
}

var importantRe = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)

const spaceChars = " \t\r\n\f"

// Parse reads text into a tree. Every byte of text is kept in the raws of
// the returned root, so Root.String returns text until the tree is edited.
// Malformed input yields a *SyntaxError.
func Parse(text string, opts Options) (*Root, error) {
	p := &parser{
		text:  text,
		opts:  opts,
		input: &Input{File: opts.File, Dialect: opts.Dialect},
		index: position.NewIndex(text),
		root:  NewRoot(),
	}
	p.current = p.root
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.root, nil
}

type parser struct {
	text   string
	opts   Options
	input  *Input
	index  *position.Index
	tokens []token
	pos    int

	root    *Root
	current Container
	// open holds the start offsets of the blocks enclosing current
	open []int
	// spaces is raw text waiting to become the next node's Before, or the
	// current container's After
	spaces string
}

func (p *parser) parse() error {
	tokens, terr := tokenize(p.text, p.opts.Dialect)
	if terr != nil {
		return p.errorAt(terr.reason, terr.offset)
	}
	p.tokens = tokens
	p.root.source = Source{Input: p.input, Start: p.index.At(0)}

	for p.pos < len(p.tokens) {
		t := p.tokens[p.pos]
		switch t.kind {
		case css.WhitespaceToken, css.CDOToken, css.CDCToken, css.SemicolonToken:
			p.spaces += p.textOf(t)
			p.pos++
		case css.CommentToken:
			p.comment(t)
			p.pos++
		case css.RightBraceToken:
			if err := p.closeBlock(t); err != nil {
				return err
			}
			p.pos++
		default:
			if err := p.statement(); err != nil {
				return err
			}
		}
	}
	return p.endFile()
}

func (p *parser) textOf(t token) string {
	return p.text[t.start:t.end]
}

func (p *parser) errorAt(reason string, offset int) error {
	pos := p.index.At(offset)
	return &SyntaxError{
		File:   p.opts.File,
		Reason: reason,
		Offset: pos.Offset,
		Line:   pos.Line,
		Column: pos.Column,
	}
}

func (p *parser) source(start, end int) Source {
	return Source{Input: p.input, Start: p.index.At(start), End: p.index.At(end)}
}

// add attaches n to the current container, handing it the pending spaces.
func (p *parser) add(n Node, start, end int) {
	setBefore(n, p.spaces)
	p.spaces = ""
	n.SetSource(p.source(start, end))
	p.current.body().Append(n)
}

func (p *parser) comment(t token) {
	raw := p.textOf(t)
	var inner string
	if t.inline {
		inner = raw[2:]
	} else {
		inner = raw[2 : len(raw)-2]
	}

	c := &Comment{Inline: t.inline}
	text := strings.TrimLeft(inner, spaceChars)
	if text == "" {
		c.Raws.Left = inner
	} else {
		c.Raws.Left = inner[:len(inner)-len(text)]
		c.Text = strings.TrimRight(text, spaceChars)
		c.Raws.Right = text[len(c.Text):]
	}
	p.add(c, t.start, t.end)
}

// statement consumes everything up to the next '{', ';' or '}' at the top
// nesting level and turns it into a rule, at-rule or declaration.
func (p *parser) statement() error {
	start := p.pos
	end := p.terminator(start)

	if end < len(p.tokens) && p.tokens[end].kind == css.LeftBraceToken {
		p.block(start, end)
		p.pos = end + 1
		return nil
	}

	semicolon := end < len(p.tokens) && p.tokens[end].kind == css.SemicolonToken
	if err := p.simple(start, end, semicolon); err != nil {
		return err
	}
	if semicolon {
		p.pos = end + 1
	} else {
		p.pos = end
	}
	return nil
}

// terminator returns the index of the token ending the statement at start,
// or len(tokens) when it runs to the end of input.
func (p *parser) terminator(start int) int {
	depth, interpolation := 0, 0
	for i := start; i < len(p.tokens); i++ {
		switch p.tokens[i].kind {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.LeftBraceToken:
			if p.interpolates(i) {
				interpolation++
				continue
			}
			if depth == 0 && interpolation == 0 {
				return i
			}
		case css.RightBraceToken:
			if interpolation > 0 {
				interpolation--
				continue
			}
			return i
		case css.SemicolonToken:
			if depth == 0 && interpolation == 0 {
				return i
			}
		}
	}
	return len(p.tokens)
}

// interpolates reports whether the '{' at i opens #{} in SCSS or @{} in Less.
func (p *parser) interpolates(i int) bool {
	if i == 0 || p.tokens[i-1].kind != css.DelimToken {
		return false
	}
	switch p.textOf(p.tokens[i-1]) {
	case "#":
		return p.opts.Dialect == SCSS
	case "@":
		return p.opts.Dialect == Less
	}
	return false
}

// lastSolid returns the index of the last non-whitespace token in [start, end).
func (p *parser) lastSolid(start, end int) int {
	for j := end - 1; j >= start; j-- {
		if p.tokens[j].kind != css.WhitespaceToken {
			return j
		}
	}
	return start
}

// nextSolid returns the index of the first non-whitespace token in [from, end),
// or end.
func (p *parser) nextSolid(from, end int) int {
	for from < end && p.tokens[from].kind == css.WhitespaceToken {
		from++
	}
	return from
}

func (p *parser) block(start, brace int) {
	first := p.tokens[start]
	last := p.lastSolid(start, brace)
	braceStart := p.tokens[brace].start

	var n Container
	if first.kind == css.AtKeywordToken {
		a := &AtRule{Name: p.textOf(first)[1:]}
		a.self = a
		a.nodes = []Node{}
		if k := p.nextSolid(start+1, brace); k < brace {
			a.Raws.AfterName = p.text[first.end:p.tokens[k].start]
			a.Params = p.text[p.tokens[k].start:p.tokens[last].end]
			a.Raws.Between = p.text[p.tokens[last].end:braceStart]
		} else {
			a.Raws.Between = p.text[first.end:braceStart]
		}
		n = a
	} else {
		r := &Rule{}
		r.self = r
		r.nodes = []Node{}
		if start < brace {
			r.Selector = p.text[first.start:p.tokens[last].end]
			r.Raws.Between = p.text[p.tokens[last].end:braceStart]
		}
		n = r
	}

	p.add(n, first.start, p.tokens[brace].end)
	p.current = n
	p.open = append(p.open, first.start)
}

// simple builds a statement without a block. When it was not ended by ';',
// its trailing whitespace is left pending for the next node or the
// container's After.
func (p *parser) simple(start, end int, semicolon bool) error {
	first := p.tokens[start]
	last := p.lastSolid(start, end)

	stmtEnd := p.tokens[last].end
	if semicolon {
		stmtEnd = p.tokens[end].start
	}

	var n Node
	switch {
	case first.kind == css.AtKeywordToken && !p.lessVariable(start, end):
		n = p.atRule(start, end, last, stmtEnd)
	default:
		colon := p.colon(start, end)
		switch {
		case colon > start:
			n = p.decl(start, colon, end, stmtEnd)
		case p.opts.Dialect == Less && p.mixinStart(first):
			n = p.mixin(first, stmtEnd)
		default:
			return p.errorAt(ReasonUnknownWord, first.start)
		}
	}

	p.add(n, first.start, stmtEnd)
	setSemicolon(p.current, semicolon)
	if !semicolon {
		p.spaces += p.text[stmtEnd:p.endOffset(end)]
	}
	return nil
}

// endOffset is the byte offset where the token at i starts, or the end of
// the text.
func (p *parser) endOffset(i int) int {
	if i < len(p.tokens) {
		return p.tokens[i].start
	}
	return len(p.text)
}

// lessVariable reports whether an at-keyword statement is a Less
// "@name: value" variable declaration.
func (p *parser) lessVariable(start, end int) bool {
	return p.opts.Dialect == Less && start+1 < end && p.tokens[start+1].kind == css.ColonToken
}

func (p *parser) mixinStart(t token) bool {
	if t.kind == css.HashToken {
		return true
	}
	return t.kind == css.DelimToken && p.textOf(t) == "."
}

// colon returns the index of the first top-level ':' in [start, end), or -1.
func (p *parser) colon(start, end int) int {
	depth := 0
	for i := start; i < end; i++ {
		switch p.tokens[i].kind {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.ColonToken:
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (p *parser) atRule(start, end, last, stmtEnd int) *AtRule {
	first := p.tokens[start]
	a := &AtRule{Name: p.textOf(first)[1:]}
	a.self = a
	if k := p.nextSolid(start+1, end); k < end && k <= last {
		a.Raws.AfterName = p.text[first.end:p.tokens[k].start]
		a.Params = p.text[p.tokens[k].start:p.tokens[last].end]
		a.Raws.Between = p.text[p.tokens[last].end:stmtEnd]
	} else {
		a.Raws.Between = p.text[first.end:stmtEnd]
	}
	return a
}

func (p *parser) decl(start, colon, end, stmtEnd int) *Declaration {
	propEnd := p.tokens[p.lastSolid(start, colon)].end

	valueStart := stmtEnd
	if k := p.nextSolid(colon+1, end); k < end && p.tokens[k].start < stmtEnd {
		valueStart = p.tokens[k].start
	}

	d := &Declaration{Prop: p.text[p.tokens[start].start:propEnd]}
	d.Raws.Between = p.text[propEnd:valueStart]

	raw := p.text[valueStart:stmtEnd]
	if loc := importantRe.FindStringIndex(raw); loc != nil {
		d.Important = true
		d.Raws.Important = raw[loc[0]:]
		raw = raw[:loc[0]]
	}
	d.Value = strings.TrimSpace(raw)
	d.Raws.Value = &RawValue{Value: d.Value, Raw: raw}
	return d
}

// mixin builds a Less mixin call such as ".bordered(4px);".
func (p *parser) mixin(first token, stmtEnd int) *AtRule {
	text := p.text[first.start:stmtEnd]
	nameEnd := 1
	for nameEnd < len(text) && isNameByte(text[nameEnd]) {
		nameEnd++
	}

	a := &AtRule{Name: text[:nameEnd], Mixin: true}
	a.self = a
	rest := text[nameEnd:]
	params := strings.TrimLeft(rest, spaceChars)
	a.Raws.AfterName = rest[:len(rest)-len(params)]
	a.Params = strings.TrimRight(params, spaceChars)
	a.Raws.Between = params[len(a.Params):]
	return a
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (p *parser) closeBlock(t token) error {
	if p.current == Container(p.root) {
		return p.errorAt(ReasonUnexpectedClose, t.start)
	}
	setAfter(p.current, p.spaces)
	p.spaces = ""

	src := p.current.Source()
	src.End = p.index.At(t.end)
	p.current.SetSource(src)

	p.open = p.open[:len(p.open)-1]
	p.current = p.current.Parent()
	return nil
}

func (p *parser) endFile() error {
	if len(p.open) > 0 {
		return p.errorAt(ReasonUnclosedBlock, p.open[len(p.open)-1])
	}

	// The root owns the text around its children, so new first or last
	// children are printed flush against the surrounding text.
	if first := p.root.First(); first != nil {
		p.root.Raws.Before = first.before()
		setBefore(first, "")
		p.root.Raws.After = p.spaces
	} else {
		p.root.Raws.Before = p.spaces
	}
	p.spaces = ""
	p.root.source.End = p.index.At(len(p.text))
	return nil
}

func setBefore(n Node, s string) {
	switch n := n.(type) {
	case *Rule:
		n.Raws.Before = s
	case *AtRule:
		n.Raws.Before = s
	case *Declaration:
		n.Raws.Before = s
	case *Comment:
		n.Raws.Before = s
	case *Root:
		n.Raws.Before = s
	}
}

func setAfter(c Container, s string) {
	switch c := c.(type) {
	case *Root:
		c.Raws.After = s
	case *Rule:
		c.Raws.After = s
	case *AtRule:
		c.Raws.After = s
	}
}

func setSemicolon(c Container, v bool) {
	switch c := c.(type) {
	case *Root:
		c.Raws.Semicolon = v
	case *Rule:
		c.Raws.Semicolon = v
	case *AtRule:
		c.Raws.Semicolon = v
	}
}
