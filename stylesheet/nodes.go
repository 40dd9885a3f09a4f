package stylesheet

import (
	"strings"
	"unicode"
)

// RootRaws holds the formatting of a root.
type RootRaws struct {
	// Before is the text ahead of the first child.
	Before string
	// After is the text behind the last child.
	After string
	// Semicolon records whether the last declaration ends with ';'.
	Semicolon bool
}

// Root is the top of a parsed stylesheet.
type Root struct {
	base
	container
	Raws RootRaws
}

// NewRoot returns an empty root.
func NewRoot(nodes ...Node) *Root {
	r := &Root{}
	r.self = r
	r.SetNodes(nodes)
	return r
}

func (r *Root) Type() NodeType { return RootNode }
func (r *Root) String() string { return stringify(r) }
func (r *Root) before() string { return "" }

func (r *Root) write(b *strings.Builder, _ bool) {
	b.WriteString(r.Raws.Before)
	writeBody(b, &r.container, r.Raws.Semicolon)
	b.WriteString(r.Raws.After)
}

func (r *Root) Clone() Node {
	c := &Root{base: base{source: r.source}, Raws: r.Raws}
	c.self = c
	r.cloneInto(&c.container)
	return c
}

// Append adds nodes after the last child. Unlike SetNodes, a node with no
// leading whitespace of its own takes the whitespace in front of the current
// last child.
func (r *Root) Append(nodes ...Node) {
	sample, ok := r.sampleBefore()
	r.container.Append(nodes...)
	if !ok {
		return
	}
	for _, n := range nodes {
		if n.Parent() == Container(r) && n.Type() != RootNode && n.before() == "" {
			setBefore(n, sample)
		}
	}
}

// Prepend adds nodes before the first child. The previous first child keeps
// the whitespace the root printed in front of it.
func (r *Root) Prepend(nodes ...Node) {
	first := r.First()
	r.container.Prepend(nodes...)
	if first == nil || r.First() == first || first.Parent() != Container(r) || first.before() != "" {
		return
	}
	setBefore(first, whitespace(r.Raws.Before))
}

func (r *Root) sampleBefore() (string, bool) {
	if len(r.nodes) == 0 {
		return "", false
	}
	if len(r.nodes) == 1 {
		return whitespace(r.Raws.Before), true
	}
	return whitespace(r.Last().before()), true
}

func whitespace(s string) string {
	return strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) {
			return c
		}
		return -1
	}, s)
}

// RuleRaws holds the formatting of a rule.
type RuleRaws struct {
	Before string
	// Between separates the selector from '{'.
	Between string
	// After is the text between the last child and '}'.
	After     string
	Semicolon bool
}

// Rule is a selector with a block of children.
type Rule struct {
	base
	container
	Selector string
	Raws     RuleRaws
}

// NewRule returns a rule printed as "selector {}" until it gets children.
func NewRule(selector string, nodes ...Node) *Rule {
	r := &Rule{Selector: selector, Raws: RuleRaws{Between: " "}}
	r.self = r
	r.SetNodes(nodes)
	return r
}

func (r *Rule) Type() NodeType { return RuleNode }
func (r *Rule) String() string { return stringify(r) }
func (r *Rule) before() string { return r.Raws.Before }

func (r *Rule) write(b *strings.Builder, _ bool) {
	b.WriteString(r.Selector)
	b.WriteString(r.Raws.Between)
	b.WriteByte('{')
	writeBody(b, &r.container, r.Raws.Semicolon)
	b.WriteString(r.Raws.After)
	b.WriteByte('}')
}

func (r *Rule) Clone() Node {
	c := &Rule{base: base{source: r.source}, Selector: r.Selector, Raws: r.Raws}
	c.self = c
	r.cloneInto(&c.container)
	return c
}

// AtRuleRaws holds the formatting of an at-rule.
type AtRuleRaws struct {
	Before string
	// AfterName separates the name from the params.
	AfterName string
	// Between separates the params from '{' or ';'.
	Between   string
	After     string
	Semicolon bool
}

// AtRule is an @-rule such as @media or @import. A Less mixin call is an
// AtRule with Mixin set, whose Name keeps its '.' or '#' and prints without '@'.
type AtRule struct {
	base
	container
	Name   string
	Params string
	Mixin  bool
	Raws   AtRuleRaws
}

// NewAtRule returns an at-rule. It has a block only when nodes are given;
// call SetNodes to give it an empty one.
func NewAtRule(name, params string, nodes ...Node) *AtRule {
	a := &AtRule{Name: name, Params: params}
	a.self = a
	if params != "" {
		a.Raws.AfterName = " "
	}
	if len(nodes) > 0 {
		a.Raws.Between = " "
		a.SetNodes(nodes)
	}
	return a
}

// HasBlock reports whether the at-rule has a body.
func (a *AtRule) HasBlock() bool { return a.nodes != nil }

func (a *AtRule) Type() NodeType { return AtRuleNode }
func (a *AtRule) String() string { return stringify(a) }
func (a *AtRule) before() string { return a.Raws.Before }

func (a *AtRule) write(b *strings.Builder, semicolon bool) {
	if !a.Mixin {
		b.WriteByte('@')
	}
	b.WriteString(a.Name)
	b.WriteString(a.Raws.AfterName)
	b.WriteString(a.Params)
	b.WriteString(a.Raws.Between)
	if !a.HasBlock() {
		if semicolon {
			b.WriteByte(';')
		}
		return
	}
	b.WriteByte('{')
	writeBody(b, &a.container, a.Raws.Semicolon)
	b.WriteString(a.Raws.After)
	b.WriteByte('}')
}

func (a *AtRule) Clone() Node {
	c := &AtRule{
		base:   base{source: a.source},
		Name:   a.Name,
		Params: a.Params,
		Mixin:  a.Mixin,
		Raws:   a.Raws,
	}
	c.self = c
	a.cloneInto(&c.container)
	return c
}

// RawValue keeps the exact text of a value next to the value it was read as.
type RawValue struct {
	Value string
	Raw   string
}

// DeclRaws holds the formatting of a declaration.
type DeclRaws struct {
	Before string
	// Between spans from the end of the property to the start of the value,
	// colon included.
	Between string
	// Important is the exact "!important" text, leading space included.
	Important string
	Value     *RawValue
}

// Declaration is a property and its value.
type Declaration struct {
	base
	Prop      string
	Value     string
	Important bool
	Raws      DeclRaws
}

// NewDecl returns a declaration printed as "prop: value".
func NewDecl(prop, value string) *Declaration {
	return &Declaration{Prop: prop, Value: value, Raws: DeclRaws{Between: ": "}}
}

func (d *Declaration) Type() NodeType { return DeclNode }
func (d *Declaration) String() string { return stringify(d) }
func (d *Declaration) before() string { return d.Raws.Before }

func (d *Declaration) write(b *strings.Builder, semicolon bool) {
	b.WriteString(d.Prop)
	b.WriteString(d.Raws.Between)
	if raw := d.Raws.Value; raw != nil && raw.Value == d.Value {
		b.WriteString(raw.Raw)
	} else {
		b.WriteString(d.Value)
	}
	if d.Important {
		if d.Raws.Important != "" {
			b.WriteString(d.Raws.Important)
		} else {
			b.WriteString(" !important")
		}
	}
	if semicolon {
		b.WriteByte(';')
	}
}

func (d *Declaration) Clone() Node {
	c := *d
	c.parent = nil
	c.holder = nil
	if d.Raws.Value != nil {
		v := *d.Raws.Value
		c.Raws.Value = &v
	}
	return &c
}

// CommentRaws holds the whitespace inside a comment's delimiters.
type CommentRaws struct {
	Before string
	Left   string
	Right  string
}

// Comment is a /* block */ comment, or a // line comment in SCSS and Less.
type Comment struct {
	base
	Text   string
	Inline bool
	Raws   CommentRaws
}

// NewComment returns a block comment printed as "/* text */".
func NewComment(text string) *Comment {
	return &Comment{Text: text, Raws: CommentRaws{Left: " ", Right: " "}}
}

func (c *Comment) Type() NodeType { return CommentNode }
func (c *Comment) String() string { return stringify(c) }
func (c *Comment) before() string { return c.Raws.Before }

func (c *Comment) write(b *strings.Builder, _ bool) {
	if c.Inline {
		b.WriteString("//")
	} else {
		b.WriteString("/*")
	}
	b.WriteString(c.Raws.Left)
	b.WriteString(c.Text)
	b.WriteString(c.Raws.Right)
	if !c.Inline {
		b.WriteString("*/")
	}
}

func (c *Comment) Clone() Node {
	clone := *c
	clone.parent = nil
	clone.holder = nil
	return &clone
}

// writeBody prints children with their leading raws. Statements get a ';'
// unless they are the last non-comment child of a container that did not
// end with one.
func writeBody(b *strings.Builder, c *container, semicolon bool) {
	last := len(c.nodes) - 1
	for last >= 0 && c.nodes[last].Type() == CommentNode {
		last--
	}
	for i, n := range c.nodes {
		b.WriteString(n.before())
		n.write(b, i != last || semicolon)
	}
}
