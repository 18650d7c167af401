package tree

import (
	"sync"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/index"
)

// ListProvider exposes the current bookmark list snapshot.
type ListProvider interface {
	Snapshot() *index.BookmarkList
}

// sortable holds the sort mode shared by every data source.
type sortable struct {
	mu   sync.RWMutex
	mode domain.SortMode
}

func (s *sortable) SortMode() domain.SortMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *sortable) SetSortMode(mode domain.SortMode) {
	if mode == nil {
		mode = domain.ManualSort{}
	}
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

func (s *sortable) sorted(entities []domain.Entity) []domain.Entity {
	return s.SortMode().Sort(entities)
}

// ─────────────────────────────────────────────────────────────────
// Flattening source
// ─────────────────────────────────────────────────────────────────

// ListDataSource shows every entity: the root holds the top-level entities
// and each folder its own children.
type ListDataSource struct {
	sortable
	provider ListProvider
}

func NewListDataSource(provider ListProvider, mode domain.SortMode) *ListDataSource {
	ds := &ListDataSource{provider: provider}
	ds.SetSortMode(mode)
	return ds
}

func (ds *ListDataSource) ChildObjects(node *Node) []Object {
	if IsRootObject(node.Object()) {
		return Wrap(ds.sorted(ds.provider.Snapshot().TopLevelEntities()))
	}
	if f, ok := FolderOf(node.Object()); ok {
		return Wrap(ds.sorted(f.Children))
	}
	return nil
}

func (ds *ListDataSource) CanHaveChildNodes(o Object) bool {
	if IsRootObject(o) {
		return true
	}
	if f, ok := FolderOf(o); ok {
		return len(f.Children) > 0
	}
	return false
}

// ─────────────────────────────────────────────────────────────────
// Sidebar source
// ─────────────────────────────────────────────────────────────────

// SidebarDataSource shows folders only, grouped under an "All Bookmarks"
// pseudo-folder carrying the total bookmark count.
type SidebarDataSource struct {
	sortable
	provider     ListProvider
	allBookmarks *PseudoFolder

	countMu      sync.Mutex
	countChanged bool
}

var _ ContentReporter = (*SidebarDataSource)(nil)

func NewSidebarDataSource(provider ListProvider, mode domain.SortMode) *SidebarDataSource {
	ds := &SidebarDataSource{
		provider:     provider,
		allBookmarks: NewPseudoFolder(AllBookmarksID, "All Bookmarks"),
	}
	ds.SetSortMode(mode)
	return ds
}

// AllBookmarks returns the pseudo-folder instance this source emits.
func (ds *SidebarDataSource) AllBookmarks() *PseudoFolder { return ds.allBookmarks }

func (ds *SidebarDataSource) ChildObjects(node *Node) []Object {
	switch o := node.Object().(type) {
	case rootSentinel:
		ds.setCount(ds.provider.Snapshot().Count())
		return []Object{ds.allBookmarks}
	case *PseudoFolder:
		if o != ds.allBookmarks {
			return nil
		}
		return Wrap(ds.sorted(foldersOnly(ds.provider.Snapshot().TopLevelEntities())))
	case EntityObject:
		if f, ok := o.Entity.(*domain.Folder); ok {
			return Wrap(ds.sorted(foldersOnly(f.Children)))
		}
	}
	return nil
}

// setCount refreshes the total on the reused pseudo-folder.
func (ds *SidebarDataSource) setCount(n int) {
	ds.countMu.Lock()
	defer ds.countMu.Unlock()
	if ds.allBookmarks.Count != n {
		ds.allBookmarks.Count = n
		ds.countChanged = true
	}
}

// ContentChanged reports whether the "All Bookmarks" count changed.
func (ds *SidebarDataSource) ContentChanged() bool {
	ds.countMu.Lock()
	defer ds.countMu.Unlock()
	changed := ds.countChanged
	ds.countChanged = false
	return changed
}

func (ds *SidebarDataSource) CanHaveChildNodes(o Object) bool {
	switch v := o.(type) {
	case rootSentinel:
		return true
	case *PseudoFolder:
		return v == ds.allBookmarks
	case EntityObject:
		if f, ok := v.Entity.(*domain.Folder); ok {
			return len(f.ChildFolders()) > 0
		}
	}
	return false
}

func foldersOnly(entities []domain.Entity) []domain.Entity {
	var out []domain.Entity
	for _, e := range entities {
		if e.EntityKind() == domain.KindFolder {
			out = append(out, e)
		}
	}
	return out
}

// ─────────────────────────────────────────────────────────────────
// Menu source
// ─────────────────────────────────────────────────────────────────

// MenuDataSource feeds menu rendering, meant for a Flat controller.
// Folders with more than one bookmark get a separator and an "open all"
// entry after their children; empty folders get an empty placeholder.
type MenuDataSource struct {
	sortable
	provider ListProvider
}

func NewMenuDataSource(provider ListProvider, mode domain.SortMode) *MenuDataSource {
	ds := &MenuDataSource{provider: provider}
	ds.SetSortMode(mode)
	return ds
}

func (ds *MenuDataSource) ChildObjects(node *Node) []Object {
	if IsRootObject(node.Object()) {
		return Wrap(ds.sorted(ds.provider.Snapshot().TopLevelEntities()))
	}
	f, ok := FolderOf(node.Object())
	if !ok {
		return nil
	}
	if len(f.Children) == 0 {
		return []Object{Marker{Kind: MarkerEmpty, FolderID: f.ID}}
	}

	children := Wrap(ds.sorted(f.Children))
	if f.ChildBookmarkCount() > 1 {
		children = append(children,
			Marker{Kind: MarkerSeparator, FolderID: f.ID},
			Marker{Kind: MarkerOpenAll, FolderID: f.ID},
		)
	}
	return children
}

func (ds *MenuDataSource) CanHaveChildNodes(o Object) bool {
	if IsRootObject(o) {
		return true
	}
	_, ok := FolderOf(o)
	return ok
}
