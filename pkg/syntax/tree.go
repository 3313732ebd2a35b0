// Package syntax parses Typst source into an immutable, lossless syntax tree.
//
// The tree is stored as an arena of nodes addressed by index. Each node
// records its kind, its byte span in the source, its parent, and its ordered
// children. Concatenating the text of all leaves in order reproduces the
// source exactly, including whitespace, comments, and unparseable input.
package syntax

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// ErrSourceTooLarge is returned when the source exceeds the addressable span.
var ErrSourceTooLarge = errors.New("source too large")

// NodeID addresses a node inside its tree's arena.
type NodeID uint32

// noParent is the parent of the root node.
const noParent = ^NodeID(0)

type node struct {
	kind     Kind
	start    uint32
	end      uint32
	parent   NodeID
	children []NodeID
}

// Tree is a parsed document.
type Tree struct {
	// Source is the text the tree was parsed from.
	Source string

	nodes []node
}

// Parse parses a Typst document in markup mode.
func Parse(src string) (*Tree, error) {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceTooLarge, err)
	}

	p := newParser(src, modeMarkup)
	markup(p, true, 0, func(*parser) bool { return false })
	nodes := p.finish()

	var root *green
	if len(nodes) == 1 && nodes[0].kind == Markup {
		root = nodes[0]
	} else {
		root = &green{kind: Markup, children: nodes}
	}

	tree := &Tree{Source: src}
	tree.build(root, noParent, 0)
	return tree, nil
}

// ParseCode parses source as the body of a code block.
func ParseCode(src string) (*Tree, error) {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceTooLarge, err)
	}

	p := newParser(src, modeCode)
	p.enterNewlineMode(newlineContinue)
	code(p, func(*parser) bool { return false })
	for !p.eof() {
		p.unexpected()
	}

	tree := &Tree{Source: src}
	tree.build(&green{kind: Code, children: p.finish()}, noParent, 0)
	return tree, nil
}

// build appends g and its descendants to the arena and returns the id of g.
// Offsets fit in uint32 because Parse checked the source length.
func (t *Tree) build(g *green, parent NodeID, offset uint32) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{kind: g.kind, start: offset, parent: parent})

	if len(g.children) == 0 {
		t.nodes[id].end = offset + uint32(len(g.text)) //nolint:gosec // bounded by the source length
		return id
	}

	children := make([]NodeID, 0, len(g.children))
	pos := offset
	for _, child := range g.children {
		cid := t.build(child, id, pos)
		children = append(children, cid)
		pos = t.nodes[cid].end
	}
	t.nodes[id].children = children
	t.nodes[id].end = pos
	return id
}

// Root returns the root node.
func (t *Tree) Root() Node {
	return Node{tree: t, id: 0}
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) Node {
	return Node{tree: t, id: id}
}

// Node is a lightweight handle to a node of a Tree. The zero value is an
// invalid node; navigation methods return it when there is no such node.
type Node struct {
	tree *Tree
	id   NodeID
}

// Valid reports whether the handle refers to a node.
func (n Node) Valid() bool {
	return n.tree != nil
}

// ID returns the arena index of the node.
func (n Node) ID() NodeID {
	return n.id
}

// Tree returns the tree the node belongs to.
func (n Node) Tree() *Tree {
	return n.tree
}

func (n Node) raw() *node {
	return &n.tree.nodes[n.id]
}

// Kind returns the node kind.
func (n Node) Kind() Kind {
	if !n.Valid() {
		return Error
	}
	return n.raw().kind
}

// Text returns the verbatim source covered by the node.
func (n Node) Text() string {
	if !n.Valid() {
		return ""
	}
	r := n.raw()
	return n.tree.Source[r.start:r.end]
}

// Span returns the byte offsets covered by the node.
func (n Node) Span() (start, end int) {
	r := n.raw()
	return int(r.start), int(r.end)
}

// Len returns the number of children.
func (n Node) Len() int {
	if !n.Valid() {
		return 0
	}
	return len(n.raw().children)
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool {
	return n.Len() == 0
}

// Child returns the i-th child.
func (n Node) Child(i int) Node {
	if i < 0 || i >= n.Len() {
		return Node{}
	}
	return Node{tree: n.tree, id: n.raw().children[i]}
}

// Children returns all children in order.
func (n Node) Children() []Node {
	if !n.Valid() {
		return nil
	}
	ids := n.raw().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{tree: n.tree, id: id}
	}
	return out
}

// Parent returns the parent, or an invalid node for the root.
func (n Node) Parent() Node {
	if !n.Valid() || n.raw().parent == noParent {
		return Node{}
	}
	return Node{tree: n.tree, id: n.raw().parent}
}

// Index returns the position of the node among its siblings.
func (n Node) Index() int {
	parent := n.Parent()
	if !parent.Valid() {
		return 0
	}
	for i, id := range parent.raw().children {
		if id == n.id {
			return i
		}
	}
	return 0
}

// NextSibling returns the following sibling, if any.
func (n Node) NextSibling() Node {
	return n.Parent().Child(n.Index() + 1)
}

// PrevSibling returns the preceding sibling, if any.
func (n Node) PrevSibling() Node {
	return n.Parent().Child(n.Index() - 1)
}

// FirstChild returns the first child of the given kind.
func (n Node) FirstChild(kind Kind) Node {
	for i := range n.Len() {
		if c := n.Child(i); c.Kind() == kind {
			return c
		}
	}
	return Node{}
}

// Contains reports whether n has a direct child of the given kind.
func (n Node) Contains(kind Kind) bool {
	return n.FirstChild(kind).Valid()
}

func (n Node) String() string {
	if !n.Valid() {
		return "<invalid>"
	}
	start, end := n.Span()
	return fmt.Sprintf("%s@%d..%d", n.Kind(), start, end)
}
