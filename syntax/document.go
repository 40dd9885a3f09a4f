package syntax

import (
	"errors"
	"slices"
	"strings"

	"bennypowers.dev/embedcss/internal/position"
	"bennypowers.dev/embedcss/stylesheet"
)

// Source is the host document a Document was parsed from.
type Source struct {
	Lang Lang
	File string
	Text string
}

// Fragment describes a stylesheet found in the host document.
type Fragment struct {
	// Index is the position of the fragment in discovery order.
	Index   int
	Kind    Kind
	Lang    string
	Dialect stylesheet.Dialect
	// Start is where the fragment content begins in the host document.
	Start stylesheet.Position
	// End is the byte offset just past the fragment content.
	End     int
	Content string
	// CodeBefore is the host text between the previous fragment, or the
	// start of the document, and this one.
	CodeBefore string
}

// Document is a host document whose children are the roots of its embedded
// stylesheets. Children can be edited, added, removed or reordered; String
// prints each child that came from a fragment after the host text that
// preceded it, new children as they are, and the rest of the host text last.
//
// A Document is not safe for concurrent mutation.
type Document struct {
	source    Source
	nodes     []stylesheet.Node
	frags     map[*stylesheet.Root]*Fragment
	fragments []*Fragment
	codeAfter string
	index     *position.Index
}

func (d *Document) Source() Source { return d.source }

// Nodes returns a copy of the children.
func (d *Document) Nodes() []stylesheet.Node {
	return slices.Clone(d.nodes)
}

func (d *Document) First() stylesheet.Node {
	if len(d.nodes) == 0 {
		return nil
	}
	return d.nodes[0]
}

func (d *Document) Last() stylesheet.Node {
	if len(d.nodes) == 0 {
		return nil
	}
	return d.nodes[len(d.nodes)-1]
}

// Index returns the position of child, or -1.
func (d *Document) Index(child stylesheet.Node) int {
	return slices.Index(d.nodes, child)
}

// claim takes nodes out of their current container or document, dropping
// nils and repeats, and records d as their owner.
func (d *Document) claim(nodes []stylesheet.Node) []stylesheet.Node {
	out := make([]stylesheet.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || slices.Contains(out, n) {
			continue
		}
		stylesheet.Detach(n)
		stylesheet.SetOwner(n, d)
		out = append(out, n)
	}
	return out
}

func (d *Document) Append(nodes ...stylesheet.Node) {
	d.nodes = append(d.nodes, d.claim(nodes)...)
}

func (d *Document) Prepend(nodes ...stylesheet.Node) {
	d.nodes = slices.Insert(d.nodes, 0, d.claim(nodes)...)
}

// InsertBefore inserts nodes before ref, or appends them when ref is not a
// child.
func (d *Document) InsertBefore(ref stylesheet.Node, nodes ...stylesheet.Node) {
	nodes = d.claim(nodes)
	i := d.Index(ref)
	if i < 0 {
		i = len(d.nodes)
	}
	d.nodes = slices.Insert(d.nodes, i, nodes...)
}

// InsertAfter inserts nodes after ref, or appends them when ref is not a
// child.
func (d *Document) InsertAfter(ref stylesheet.Node, nodes ...stylesheet.Node) {
	nodes = d.claim(nodes)
	i := d.Index(ref)
	if i < 0 {
		i = len(d.nodes) - 1
	}
	d.nodes = slices.Insert(d.nodes, i+1, nodes...)
}

// RemoveChild removes child and reports whether it was present. The host
// text in front of a removed fragment is dropped with it.
func (d *Document) RemoveChild(child stylesheet.Node) bool {
	i := d.Index(child)
	if i < 0 {
		return false
	}
	d.nodes = slices.Delete(d.nodes, i, i+1)
	stylesheet.SetOwner(child, nil)
	return true
}

// SetNodes replaces every child.
func (d *Document) SetNodes(nodes []stylesheet.Node) {
	for _, n := range d.nodes {
		stylesheet.SetOwner(n, nil)
	}
	d.nodes = nil
	d.nodes = d.claim(nodes)
}

// Roots returns the children that are stylesheet roots, in order.
func (d *Document) Roots() []*stylesheet.Root {
	var roots []*stylesheet.Root
	for _, n := range d.nodes {
		if root, ok := n.(*stylesheet.Root); ok {
			roots = append(roots, root)
		}
	}
	return roots
}

// Fragments returns every fragment found by Parse in discovery order,
// including those whose roots have since been removed.
func (d *Document) Fragments() []Fragment {
	out := make([]Fragment, len(d.fragments))
	for i, f := range d.fragments {
		out[i] = *f
	}
	return out
}

// FragmentOf returns the fragment root was parsed from.
func (d *Document) FragmentOf(root *stylesheet.Root) (Fragment, bool) {
	f, ok := d.frags[root]
	if !ok {
		return Fragment{}, false
	}
	return *f, true
}

// Locate finds the fragment holding the host position line:column and
// returns that position relative to the fragment text. The offset just past
// a fragment still belongs to it.
func (d *Document) Locate(line, column int) (Fragment, stylesheet.Position, bool) {
	if d.index == nil {
		return Fragment{}, stylesheet.Position{}, false
	}
	offset := d.index.Offset(line, column)
	for _, f := range d.fragments {
		if offset < f.Start.Offset || offset > f.End {
			continue
		}
		pos := position.NewMapper(f.Start).ToFragment(d.index.At(offset))
		return *f, pos, true
	}
	return Fragment{}, stylesheet.Position{}, false
}

// CodeAfter returns the host text behind the last fragment.
func (d *Document) CodeAfter() string { return d.codeAfter }

// Walk calls fn for every child and its descendants, depth first.
// Returning stylesheet.ErrStop ends the walk without an error.
func (d *Document) Walk(fn func(stylesheet.Node) error) error {
	for _, n := range slices.Clone(d.nodes) {
		if err := fn(n); err != nil {
			if errors.Is(err, stylesheet.ErrStop) {
				return nil
			}
			return err
		}
		c, ok := n.(stylesheet.Container)
		if !ok {
			continue
		}
		stopped := false
		err := c.Walk(func(n stylesheet.Node) error {
			if err := fn(n); err != nil {
				stopped = errors.Is(err, stylesheet.ErrStop)
				return err
			}
			return nil
		})
		if err != nil {
			return err
		}
		if stopped {
			return nil
		}
	}
	return nil
}

// String prints the document.
func (d *Document) String() string {
	var b strings.Builder
	for _, n := range d.nodes {
		if root, ok := n.(*stylesheet.Root); ok {
			if f, ok := d.frags[root]; ok {
				b.WriteString(f.CodeBefore)
			}
		}
		b.WriteString(n.String())
	}
	b.WriteString(d.codeAfter)
	return b.String()
}
