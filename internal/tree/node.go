package tree

import (
	"slices"
	"sync/atomic"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

var lastNodeID atomic.Uint64

// Node wraps a represented object in the tree projection.
// A parent owns its children; the parent field is a back-reference only.
type Node struct {
	uniqueID          uint64
	object            Object
	parent            *Node
	children          []*Node
	canHaveChildNodes bool
}

// NewNode creates a node with a fresh unique id.
func NewNode(object Object, parent *Node) *Node {
	return &Node{
		uniqueID: lastNodeID.Add(1),
		object:   object,
		parent:   parent,
	}
}

// UniqueID is assigned at construction and never reused.
func (n *Node) UniqueID() uint64 { return n.uniqueID }

func (n *Node) Object() Object { return n.object }

func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the ordered child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

func (n *Node) NumChildren() int { return len(n.children) }

// ChildAt returns the i-th child, or nil when out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// IndexOf returns the position of child, or -1.
func (n *Node) IndexOf(child *Node) int {
	return slices.Index(n.children, child)
}

func (n *Node) CanHaveChildNodes() bool { return n.canHaveChildNodes }

func (n *Node) IsRoot() bool { return n.parent == nil }

// Level is the distance to the root; the root is at level 0.
func (n *Node) Level() int {
	level := 0
	for p := n.parent; p != nil; p = p.parent {
		level++
	}
	return level
}

// IsAncestor reports whether n lies on other's parent chain.
// A node is never its own ancestor.
func (n *Node) IsAncestor(other *Node) bool {
	if other == nil {
		return false
	}
	for p := other.parent; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// RepresentedObjectEquals compares payloads structurally.
func (n *Node) RepresentedObjectEquals(o Object) bool {
	return ObjectsEqual(n.object, o)
}

// RepresentedObjectHasSameID compares payload identity only.
func (n *Node) RepresentedObjectHasSameID(o Object) bool {
	return ObjectsHaveSameID(n.object, o)
}

// Entity returns the entity the node represents, if any.
func (n *Node) Entity() (domain.Entity, bool) {
	return EntityOf(n.object)
}

// Path returns the nodes from the root down to n.
func (n *Node) Path() []*Node {
	var path []*Node
	for p := n; p != nil; p = p.parent {
		path = append(path, p)
	}
	slices.Reverse(path)
	return path
}

// FindDescendant searches below n depth-first, in child order.
func (n *Node) FindDescendant(match func(*Node) bool) *Node {
	for _, child := range n.children {
		if match(child) {
			return child
		}
		if found := child.FindDescendant(match); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n and every descendant depth-first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// replaceChildren installs children, adopting them and releasing dropped nodes.
func (n *Node) replaceChildren(children []*Node) {
	for _, old := range n.children {
		if old.parent == n && !slices.Contains(children, old) {
			old.parent = nil
		}
	}
	for _, child := range children {
		child.parent = n
	}
	n.children = children
}

// sameNodes compares two child lists by node identity.
func sameNodes(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].uniqueID != b[i].uniqueID {
			return false
		}
	}
	return true
}
