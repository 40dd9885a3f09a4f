// Package stylesheet is a lossless stylesheet syntax tree.
//
// Parse turns CSS, SCSS or Less source into a tree of nodes that keeps every
// byte of the input in typed raws, so String reproduces the source exactly
// until a node is edited. Containers support the usual tree mutations and
// new nodes are printed with compact default separators.
package stylesheet

import (
	"strings"

	"bennypowers.dev/embedcss/internal/position"
)

// Position is a location in parsed text. See position.Position.
type Position = position.Position

// NodeType identifies the kind of a node.
type NodeType int

const (
	// RootNode is the top of a parsed stylesheet
	RootNode NodeType = iota
	// RuleNode is a selector followed by a block
	RuleNode
	// AtRuleNode is an @-rule, with or without a block
	AtRuleNode
	// DeclNode is a property: value pair
	DeclNode
	// CommentNode is a block or line comment
	CommentNode
)

func (t NodeType) String() string {
	switch t {
	case RootNode:
		return "root"
	case RuleNode:
		return "rule"
	case AtRuleNode:
		return "atrule"
	case DeclNode:
		return "decl"
	case CommentNode:
		return "comment"
	default:
		return "unknown"
	}
}

// Input describes the text a tree was parsed from.
type Input struct {
	File    string
	Dialect Dialect
}

// Source locates a node in its input. End is exclusive.
// Nodes created by constructors have a nil Input and zero positions.
type Source struct {
	Input *Input
	Start Position
	End   Position
}

// Node is implemented by every node in a tree.
type Node interface {
	Type() NodeType
	// Parent returns the container holding the node, or nil.
	Parent() Container
	Source() Source
	SetSource(Source)
	// String prints the node. Its leading raw whitespace (Raws.Before) is
	// owned by the parent and not included.
	String() string
	// Clone returns a detached deep copy.
	Clone() Node

	setParent(Container)
	owner() Owner
	setOwner(Owner)
	before() string
	write(b *strings.Builder, semicolon bool)
}

// Owner holds nodes outside of any container, such as a host document
// holding the roots of its embedded stylesheets.
type Owner interface {
	RemoveChild(child Node) bool
}

type base struct {
	parent Container
	holder Owner
	source Source
}

func (n *base) Parent() Container     { return n.parent }
func (n *base) Source() Source        { return n.source }
func (n *base) SetSource(s Source)    { n.source = s }
func (n *base) setParent(p Container) { n.parent = p }
func (n *base) owner() Owner          { return n.holder }
func (n *base) setOwner(o Owner)      { n.holder = o }

// SetOwner records o as the holder of a node that has no parent.
// Detach removes the node from o. Pass nil when o lets go of the node.
func SetOwner(n Node, o Owner) { n.setOwner(o) }

// OwnerOf returns the owner recorded by SetOwner, or nil.
func OwnerOf(n Node) Owner { return n.owner() }

// Detach removes n from its parent or owner, if any.
func Detach(n Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
		return
	}
	if o := n.owner(); o != nil {
		o.RemoveChild(n)
		n.setOwner(nil)
	}
}

func stringify(n Node) string {
	var b strings.Builder
	n.write(&b, false)
	return b.String()
}
