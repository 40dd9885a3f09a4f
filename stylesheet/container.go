package stylesheet

import (
	"errors"
	"slices"
)

// ErrStop can be returned from a walk callback to end the walk early.
var ErrStop = errors.New("stop walking")

// Container is a node that holds child nodes.
type Container interface {
	Node

	// Nodes returns a copy of the children.
	Nodes() []Node
	First() Node
	Last() Node
	// Index returns the position of child, or -1.
	Index(child Node) int
	Append(nodes ...Node)
	Prepend(nodes ...Node)
	// InsertBefore inserts nodes before ref. When ref is not a child,
	// the nodes are appended.
	InsertBefore(ref Node, nodes ...Node)
	// InsertAfter inserts nodes after ref. When ref is not a child,
	// the nodes are appended.
	InsertAfter(ref Node, nodes ...Node)
	// RemoveChild removes child and reports whether it was present.
	RemoveChild(child Node) bool
	// SetNodes replaces every child.
	SetNodes(nodes []Node)
	// Walk calls fn for every descendant, depth first.
	Walk(fn func(Node) error) error
	// WalkDecls calls fn for every descendant declaration.
	WalkDecls(fn func(*Declaration) error) error

	body() *container
}

type container struct {
	self  Container
	nodes []Node
}

func (c *container) body() *container { return c }

func (c *container) Nodes() []Node {
	return slices.Clone(c.nodes)
}

func (c *container) First() Node {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[0]
}

func (c *container) Last() Node {
	if len(c.nodes) == 0 {
		return nil
	}
	return c.nodes[len(c.nodes)-1]
}

func (c *container) Index(child Node) int {
	for i, n := range c.nodes {
		if n == child {
			return i
		}
	}
	return -1
}

// adopt detaches each node from its previous parent and claims it.
func (c *container) adopt(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || slices.Contains(out, n) {
			continue
		}
		Detach(n)
		n.setParent(c.self)
		out = append(out, n)
	}
	return out
}

func (c *container) insertAt(i int, nodes []Node) {
	nodes = c.adopt(nodes)
	// Detaching may have shifted the insertion point
	i = max(0, min(i, len(c.nodes)))
	if c.nodes == nil {
		c.nodes = []Node{}
	}
	c.nodes = slices.Insert(c.nodes, i, nodes...)
}

func (c *container) Append(nodes ...Node) {
	adopted := c.adopt(nodes)
	if c.nodes == nil {
		c.nodes = []Node{}
	}
	c.nodes = append(c.nodes, adopted...)
}

func (c *container) Prepend(nodes ...Node) {
	c.insertAt(0, nodes)
}

func (c *container) InsertBefore(ref Node, nodes ...Node) {
	adopted := c.adopt(nodes)
	i := c.Index(ref)
	if i < 0 {
		i = len(c.nodes)
	}
	if c.nodes == nil {
		c.nodes = []Node{}
	}
	c.nodes = slices.Insert(c.nodes, i, adopted...)
}

func (c *container) InsertAfter(ref Node, nodes ...Node) {
	adopted := c.adopt(nodes)
	i := c.Index(ref)
	if i < 0 {
		i = len(c.nodes) - 1
	}
	if c.nodes == nil {
		c.nodes = []Node{}
	}
	c.nodes = slices.Insert(c.nodes, i+1, adopted...)
}

func (c *container) RemoveChild(child Node) bool {
	i := c.Index(child)
	if i < 0 {
		return false
	}
	c.nodes = slices.Delete(c.nodes, i, i+1)
	child.setParent(nil)
	return true
}

func (c *container) SetNodes(nodes []Node) {
	for _, n := range c.nodes {
		n.setParent(nil)
	}
	c.nodes = []Node{}
	c.Append(nodes...)
}

func (c *container) Walk(fn func(Node) error) error {
	err := walk(c, fn)
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func walk(c *container, fn func(Node) error) error {
	for _, n := range slices.Clone(c.nodes) {
		if err := fn(n); err != nil {
			return err
		}
		if child, ok := n.(Container); ok {
			if err := walk(child.body(), fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *container) WalkDecls(fn func(*Declaration) error) error {
	return c.Walk(func(n Node) error {
		if d, ok := n.(*Declaration); ok {
			return fn(d)
		}
		return nil
	})
}

func (c *container) cloneInto(dst *container) {
	if c.nodes == nil {
		return
	}
	dst.nodes = make([]Node, 0, len(c.nodes))
	for _, n := range c.nodes {
		clone := n.Clone()
		clone.setParent(dst.self)
		dst.nodes = append(dst.nodes, clone)
	}
}
