package tree

import "github.com/MrSnakeDoc/shelf/internal/domain"

// DataSource supplies the children of a node.
type DataSource interface {
	// ChildObjects returns the ordered payloads of node's children.
	ChildObjects(node *Node) []Object
	// CanHaveChildNodes reports whether a node for o should be reconciled.
	CanHaveChildNodes(o Object) bool
}

// ContentReporter is implemented by data sources that refresh a payload in
// place, such as a count on a reused pseudo-folder. Such a change keeps the
// node, so reconciliation alone cannot see it. ContentChanged reports
// whether a payload changed since the previous call and resets the flag.
type ContentReporter interface {
	ContentChanged() bool
}

// Policy selects how far a rebuild descends.
type Policy int

const (
	// Recursive reconciles the whole tree on every rebuild.
	Recursive Policy = iota
	// Flat reconciles one level; deeper levels are reconciled on demand
	// through ReconcileChildren.
	Flat
)

// Controller owns a node tree and keeps it in sync with a data source.
// It is not safe for concurrent use.
type Controller struct {
	dataSource DataSource
	policy     Policy
	root       *Node
}

// NewController creates a controller with an empty synthetic root.
func NewController(ds DataSource, policy Policy) *Controller {
	return &Controller{
		dataSource: ds,
		policy:     policy,
		root:       newRoot(RootObject),
	}
}

func newRoot(o Object) *Node {
	root := NewNode(o, nil)
	root.canHaveChildNodes = true
	return root
}

func (c *Controller) Root() *Node { return c.root }

func (c *Controller) DataSource() DataSource { return c.dataSource }

// Rebuild reconciles the current root against the data source and
// reports whether anything changed.
func (c *Controller) Rebuild() bool {
	changed := c.reconcile(c.root)
	return c.contentChanged() || changed
}

// RebuildWithRoot discards the current tree and rebuilds it under a fresh
// root wrapping folder.
func (c *Controller) RebuildWithRoot(folder *domain.Folder) bool {
	c.root = newRoot(EntityObject{Entity: folder})
	c.reconcile(c.root)
	return true
}

// RebuildForSearch replaces the tree with results as direct children of a
// fresh root. Nodes are never reused and results never expand.
func (c *Controller) RebuildForSearch(results []domain.Entity) {
	root := newRoot(RootObject)
	children := make([]*Node, 0, len(results))
	for _, e := range results {
		children = append(children, NewNode(EntityObject{Entity: e}, root))
	}
	root.replaceChildren(children)
	c.root = root
}

// ReconcileChildren brings node's subtree in sync, honoring the policy.
func (c *Controller) ReconcileChildren(node *Node) bool {
	changed := c.reconcile(node)
	return c.contentChanged() || changed
}

func (c *Controller) contentChanged() bool {
	cr, ok := c.dataSource.(ContentReporter)
	return ok && cr.ContentChanged()
}

func (c *Controller) reconcile(node *Node) bool {
	if !node.canHaveChildNodes {
		if len(node.children) == 0 {
			return false
		}
		node.replaceChildren(nil)
		return true
	}

	objects := c.dataSource.ChildObjects(node)
	previous := node.children

	// Reuse is scoped to the node's own children, each claimed at most once.
	claimed := make([]bool, len(previous))
	next := make([]*Node, 0, len(objects))
	for _, o := range objects {
		var child *Node
		for i, candidate := range previous {
			if !claimed[i] && candidate.RepresentedObjectEquals(o) {
				claimed[i] = true
				child = candidate
				break
			}
		}
		if child == nil {
			child = NewNode(o, node)
		}
		next = append(next, child)
	}

	changed := false
	if !sameNodes(previous, next) {
		node.replaceChildren(next)
		changed = true
	}

	for _, child := range next {
		if can := c.dataSource.CanHaveChildNodes(child.object); can != child.canHaveChildNodes {
			child.canHaveChildNodes = can
			changed = true
		}
		if c.policy == Flat {
			continue
		}
		if c.reconcile(child) {
			changed = true
		}
	}

	return changed
}

// NodeForEntityID finds the node representing the entity with id.
func (c *Controller) NodeForEntityID(id string) *Node {
	match := func(n *Node) bool {
		e, ok := n.Entity()
		return ok && e.EntityID() == id
	}
	if match(c.root) {
		return c.root
	}
	return c.root.FindDescendant(match)
}

// NodeForObject finds the first node whose payload has the same id as o,
// even when o's other fields changed since the node was built.
func (c *Controller) NodeForObject(o Object) *Node {
	if c.root.RepresentedObjectHasSameID(o) {
		return c.root
	}
	return c.root.FindDescendant(func(n *Node) bool {
		return n.RepresentedObjectHasSameID(o)
	})
}

// Path returns the nodes from the root to the node representing o, or nil.
func (c *Controller) Path(o Object) []*Node {
	n := c.NodeForObject(o)
	if n == nil {
		return nil
	}
	return n.Path()
}
