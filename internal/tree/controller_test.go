package tree

import (
	"testing"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/index"
)

type staticProvider struct {
	list *index.BookmarkList
}

func (p *staticProvider) Snapshot() *index.BookmarkList { return p.list }

func bookmark(id, url string, parent string) *domain.Bookmark {
	return &domain.Bookmark{ID: id, Title: id, URL: url, ParentFolderID: domain.StringPtr(parent)}
}

// sampleList builds:
//
//	work/ (b1, b2, archive/ (b3))
//	empty/
//	top (bookmark)
func sampleList() *index.BookmarkList {
	b1 := bookmark("b1", "https://b1", "work")
	b2 := bookmark("b2", "https://b2", "work")
	b3 := bookmark("b3", "https://b3", "archive")
	archive := domain.NewFolder("archive", "Archive", domain.StringPtr("work"), []domain.Entity{b3})
	work := domain.NewFolder("work", "Work", nil, []domain.Entity{b1, b2, archive})
	empty := domain.NewFolder("empty", "Empty", nil, nil)
	top := bookmark("top", "https://top", "")

	return index.NewBookmarkList(
		[]*domain.Bookmark{top, b3, b2, b1},
		[]domain.Entity{work, empty, top},
		nil,
	)
}

func nodeIDs(root *Node) map[string]uint64 {
	ids := make(map[string]uint64)
	root.Walk(func(n *Node) {
		if e, ok := n.Entity(); ok {
			ids[e.EntityID()] = n.UniqueID()
		}
	})
	return ids
}

func TestRebuildIsIdempotent(t *testing.T) {
	provider := &staticProvider{list: sampleList()}
	c := NewController(NewListDataSource(provider, domain.ManualSort{}), Recursive)

	if !c.Rebuild() {
		t.Fatal("first Rebuild() should report a change")
	}
	before := nodeIDs(c.Root())
	if len(before) != 7 {
		t.Fatalf("expected 7 entity nodes, got %d", len(before))
	}

	if c.Rebuild() {
		t.Error("second Rebuild() without data change should report no change")
	}
	after := nodeIDs(c.Root())
	for id, uid := range before {
		if after[id] != uid {
			t.Errorf("node for %s was replaced (%d -> %d)", id, uid, after[id])
		}
	}
}

func TestRebuildReusesEqualButDistinctValues(t *testing.T) {
	provider := &staticProvider{list: sampleList()}
	c := NewController(NewListDataSource(provider, domain.ManualSort{}), Recursive)
	c.Rebuild()
	before := nodeIDs(c.Root())

	// A reload produces equal but distinct values
	provider.list = sampleList()

	if c.Rebuild() {
		t.Error("Rebuild() after an equal reload should report no change")
	}
	after := nodeIDs(c.Root())
	for id, uid := range before {
		if after[id] != uid {
			t.Errorf("node for %s was replaced", id)
		}
	}
}

func TestRebuildReplacesChangedEntity(t *testing.T) {
	provider := &staticProvider{list: sampleList()}
	c := NewController(NewListDataSource(provider, domain.ManualSort{}), Recursive)
	c.Rebuild()
	before := nodeIDs(c.Root())

	// Rename the top-level bookmark only
	list := sampleList()
	top := list.TopLevelEntities()
	renamed := &domain.Bookmark{ID: "top", Title: "renamed", URL: "https://top"}
	provider.list = index.NewBookmarkList(list.Bookmarks(), []domain.Entity{top[0], top[1], renamed}, nil)

	if !c.Rebuild() {
		t.Fatal("Rebuild() after a rename should report a change")
	}
	after := nodeIDs(c.Root())
	if after["top"] == before["top"] {
		t.Error("renamed entity should get a new node")
	}
	for _, id := range []string{"work", "empty", "b1", "b2", "archive", "b3"} {
		if after[id] != before[id] {
			t.Errorf("unchanged entity %s lost its node", id)
		}
	}
}

// markerSource emits the same marker twice under the root.
type markerSource struct{}

func (markerSource) ChildObjects(node *Node) []Object {
	if !IsRootObject(node.Object()) {
		return nil
	}
	m := Marker{Kind: MarkerSeparator, FolderID: "x"}
	return []Object{m, m}
}

func (markerSource) CanHaveChildNodes(Object) bool { return false }

func TestReuseClaimsEachNodeOnce(t *testing.T) {
	c := NewController(markerSource{}, Recursive)
	c.Rebuild()

	first := c.Root().Children()
	if len(first) != 2 || first[0].UniqueID() == first[1].UniqueID() {
		t.Fatalf("expected two distinct nodes, got %d", len(first))
	}

	if c.Rebuild() {
		t.Error("Rebuild() should reuse both nodes")
	}
	second := c.Root().Children()
	if second[0] != first[0] || second[1] != first[1] {
		t.Error("nodes were not reused in order")
	}
}

// countingSource records ChildObjects calls per node.
type countingSource struct {
	*ListDataSource
	calls map[uint64]int
}

func (s *countingSource) ChildObjects(node *Node) []Object {
	s.calls[node.UniqueID()]++
	return s.ListDataSource.ChildObjects(node)
}

func TestLeafNodesAreNotReconciled(t *testing.T) {
	src := &countingSource{
		ListDataSource: NewListDataSource(&staticProvider{list: sampleList()}, domain.ManualSort{}),
		calls:          make(map[uint64]int),
	}
	c := NewController(src, Recursive)
	c.Rebuild()

	emptyNode := c.NodeForEntityID("empty")
	topNode := c.NodeForEntityID("top")
	if emptyNode.CanHaveChildNodes() || topNode.CanHaveChildNodes() {
		t.Fatal("empty folder and bookmark should not have child nodes")
	}
	if src.calls[emptyNode.UniqueID()] != 0 || src.calls[topNode.UniqueID()] != 0 {
		t.Error("leaf nodes should not be asked for children")
	}
	if src.calls[c.NodeForEntityID("work").UniqueID()] != 1 {
		t.Error("folder with children should be reconciled once")
	}
}

func TestRebuildWithRoot(t *testing.T) {
	list := sampleList()
	c := NewController(NewListDataSource(&staticProvider{list: list}, domain.ManualSort{}), Recursive)
	c.Rebuild()
	oldRoot := c.Root()

	work, _ := list.Folder("work")
	if !c.RebuildWithRoot(work) {
		t.Error("RebuildWithRoot() should report a change")
	}
	if c.Root() == oldRoot {
		t.Fatal("RebuildWithRoot() should install a fresh root")
	}
	if e, ok := c.Root().Entity(); !ok || e.EntityID() != "work" {
		t.Fatalf("root should wrap the work folder, got %v", c.Root().Object())
	}
	if n := c.Root().NumChildren(); n != 3 {
		t.Errorf("root children = %d, want 3", n)
	}
}

func TestRebuildForSearch(t *testing.T) {
	list := sampleList()
	c := NewController(NewListDataSource(&staticProvider{list: list}, domain.ManualSort{}), Recursive)
	c.Rebuild()

	work, _ := list.Folder("work")
	results := []domain.Entity{work, &domain.Bookmark{ID: "b1", Title: "b1", URL: "https://b1"}}

	c.RebuildForSearch(results)
	first := c.Root().Children()
	if len(first) != 2 {
		t.Fatalf("search root children = %d, want 2", len(first))
	}
	for _, n := range first {
		if n.CanHaveChildNodes() || n.NumChildren() != 0 {
			t.Error("search results must not expand")
		}
		if n.Parent() != c.Root() {
			t.Error("search result parent should be the search root")
		}
	}

	c.RebuildForSearch(results)
	if c.Root().ChildAt(0).UniqueID() == first[0].UniqueID() {
		t.Error("search rebuild must not reuse nodes")
	}

	// Going back to the regular tree
	c.Rebuild()
	if c.NodeForEntityID("b3") == nil {
		t.Error("Rebuild() after a search should restore the full tree")
	}
}

func TestNodeForObjectIgnoresChangedFields(t *testing.T) {
	c := NewController(NewListDataSource(&staticProvider{list: sampleList()}, domain.ManualSort{}), Recursive)
	c.Rebuild()

	edited := EntityObject{Entity: &domain.Bookmark{ID: "b3", Title: "other", URL: "https://elsewhere"}}
	n := c.NodeForObject(edited)
	if n == nil {
		t.Fatal("NodeForObject() should match by id")
	}
	if n.RepresentedObjectEquals(edited) {
		t.Error("structural comparison should see the edit")
	}

	path := c.Path(edited)
	var got []string
	for _, p := range path[1:] {
		e, _ := p.Entity()
		got = append(got, e.EntityID())
	}
	if len(got) != 3 || got[0] != "work" || got[1] != "archive" || got[2] != "b3" {
		t.Errorf("Path() = %v, want [work archive b3]", got)
	}
}

func TestSortModeApplies(t *testing.T) {
	ds := NewListDataSource(&staticProvider{list: sampleList()}, domain.ManualSort{})
	c := NewController(ds, Recursive)
	c.Rebuild()

	ds.SetSortMode(domain.NewNameSort("en", false))
	if !c.Rebuild() {
		t.Fatal("changing the sort mode should reorder children")
	}

	var got []string
	for _, n := range c.Root().Children() {
		e, _ := n.Entity()
		got = append(got, e.EntityTitle())
	}
	want := []string{"Empty", "Work", "top"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted children = %v, want %v", got, want)
		}
	}
}
