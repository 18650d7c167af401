package store

import (
	"fmt"
	"maps"
	"slices"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/validator"
)

// EndIndex appends moved entities after the existing children.
const EndIndex = -1

// Snapshot is the form in which backends persist a record graph.
type Snapshot struct {
	Records   []domain.Record     `json:"records"`
	Children  map[string][]string `json:"children"`  // parent id -> ordered child ids
	Bookmarks []string            `json:"bookmarks"` // bookmark ids, oldest first
	Favorites []string            `json:"favorites"` // favorite ids, in favoriting order
}

// Records is the flat persisted graph every backend loads and saves.
// It implements validator.Graph, and every write is validated against it.
// A Records value is not safe for concurrent use.
type Records struct {
	byID      map[string]domain.Record
	byURL     map[string]string // URL -> bookmark id
	children  map[string][]string
	bookmarks []string
	favorites []string
	removed   map[string]bool // ids dropped since the graph was loaded
}

// NewRecords returns a graph holding only the two singleton containers.
func NewRecords() *Records {
	r := &Records{
		byID:     make(map[string]domain.Record),
		byURL:    make(map[string]string),
		children: make(map[string][]string),
		removed:  make(map[string]bool),
	}
	r.byID[domain.RootFolderID] = domain.Record{ID: domain.RootFolderID, Kind: domain.KindFolder, Title: "Bookmarks"}
	r.byID[domain.FavoritesFolderID] = domain.Record{ID: domain.FavoritesFolderID, Kind: domain.KindFolder, Title: "Favorites"}
	return r
}

// FromSnapshot rebuilds a graph from its persisted form.
func FromSnapshot(s Snapshot) *Records {
	r := NewRecords()
	for _, rec := range s.Records {
		if domain.IsSingleton(rec.ID) {
			continue
		}
		r.byID[rec.ID] = rec
		if rec.Kind == domain.KindBookmark {
			r.byURL[rec.URL] = rec.ID
		}
	}
	for parent, ids := range s.Children {
		r.children[parent] = slices.Clone(ids)
	}
	r.bookmarks = slices.Clone(s.Bookmarks)
	r.favorites = slices.Clone(s.Favorites)
	return r
}

// Snapshot returns a copy of the graph in persisted form. Records are
// sorted by id; empty child lists are kept so backends can clear them.
func (r *Records) Snapshot() Snapshot {
	s := Snapshot{
		Records:   make([]domain.Record, 0, len(r.byID)),
		Children:  make(map[string][]string, len(r.children)),
		Bookmarks: slices.Clone(r.bookmarks),
		Favorites: slices.Clone(r.favorites),
	}
	for _, id := range slices.Sorted(maps.Keys(r.byID)) {
		if domain.IsSingleton(id) {
			continue
		}
		s.Records = append(s.Records, r.byID[id])
	}
	for parent, ids := range r.children {
		s.Children[parent] = slices.Clone(ids)
	}
	return s
}

// Removed returns the ids dropped since the graph was loaded, sorted.
func (r *Records) Removed() []string {
	return slices.Sorted(maps.Keys(r.removed))
}

// Len returns the number of persisted entities, singletons excluded.
func (r *Records) Len() int {
	return len(r.byID) - 2
}

// ─────────────────────────────────────────────────────────────────
// validator.Graph
// ─────────────────────────────────────────────────────────────────

func (r *Records) Record(id string) (domain.Record, bool) {
	rec, ok := r.byID[id]
	return rec, ok
}

func (r *Records) ChildIDs(id string) []string {
	return r.children[id]
}

// ─────────────────────────────────────────────────────────────────
// Loading
// ─────────────────────────────────────────────────────────────────

// TopLevel returns the root's children as an owning entity tree.
func (r *Records) TopLevel() []domain.Entity {
	return domain.FromRecords(r.byID, r.children)
}

// AllBookmarks returns every bookmark at any depth, newest first.
func (r *Records) AllBookmarks() []*domain.Bookmark {
	out := make([]*domain.Bookmark, 0, len(r.bookmarks))
	for _, id := range slices.Backward(r.bookmarks) {
		if rec, ok := r.byID[id]; ok && rec.Kind == domain.KindBookmark {
			out = append(out, domain.BookmarkFromRecord(rec))
		}
	}
	return out
}

// Favorites returns the favorite bookmarks in the order they were favorited.
func (r *Records) Favorites() []*domain.Bookmark {
	out := make([]*domain.Bookmark, 0, len(r.favorites))
	for _, id := range r.favorites {
		if rec, ok := r.byID[id]; ok && rec.Kind == domain.KindBookmark {
			out = append(out, domain.BookmarkFromRecord(rec))
		}
	}
	return out
}

// Entity returns the entity for id, with its subtree when it is a folder.
func (r *Records) Entity(id string) (domain.Entity, bool) {
	rec, ok := r.byID[id]
	if !ok || domain.IsSingleton(id) {
		return nil, false
	}
	if rec.Kind == domain.KindBookmark {
		return domain.BookmarkFromRecord(rec), true
	}
	return domain.FolderFromRecord(rec, domain.ChildEntities(id, r.byID, r.children)), true
}

// ─────────────────────────────────────────────────────────────────
// Writes
// ─────────────────────────────────────────────────────────────────

// Put validates rec and inserts or replaces it. A replaced entity whose
// parent changed is appended to its new parent's children.
func (r *Records) Put(rec domain.Record) error {
	if err := validator.Validate(rec, r); err != nil {
		return err
	}

	old, exists := r.byID[rec.ID]
	if exists && old.Kind != rec.Kind {
		return fmt.Errorf("entity %s is a %s, not a %s", rec.ID, old.Kind, rec.Kind)
	}
	if rec.Kind == domain.KindBookmark {
		if owner, taken := r.byURL[rec.URL]; taken && owner != rec.ID {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateURL, rec.URL)
		}
	}

	switch {
	case !exists:
		r.children[rec.ParentID] = append(r.children[rec.ParentID], rec.ID)
		if rec.Kind == domain.KindBookmark {
			r.bookmarks = append(r.bookmarks, rec.ID)
		}
	case old.ParentID != rec.ParentID:
		r.children[old.ParentID] = deleteIDs(r.children[old.ParentID], rec.ID)
		r.children[rec.ParentID] = append(r.children[rec.ParentID], rec.ID)
	}

	if exists && old.Kind == domain.KindBookmark && old.URL != rec.URL {
		delete(r.byURL, old.URL)
	}
	if rec.Kind == domain.KindBookmark {
		r.byURL[rec.URL] = rec.ID
	}

	switch {
	case rec.IsFavorite && !slices.Contains(r.favorites, rec.ID):
		r.favorites = append(r.favorites, rec.ID)
	case !rec.IsFavorite:
		r.favorites = deleteIDs(r.favorites, rec.ID)
	}

	r.byID[rec.ID] = rec
	delete(r.removed, rec.ID)
	return nil
}

// Remove drops id and, for a folder, its whole subtree.
func (r *Records) Remove(id string) error {
	rec, ok := r.byID[id]
	if !ok || domain.IsSingleton(id) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	for _, child := range slices.Clone(r.children[id]) {
		if err := r.Remove(child); err != nil {
			return err
		}
	}
	delete(r.children, id)

	r.children[rec.ParentID] = deleteIDs(r.children[rec.ParentID], id)
	r.bookmarks = deleteIDs(r.bookmarks, id)
	r.favorites = deleteIDs(r.favorites, id)
	if rec.Kind == domain.KindBookmark && r.byURL[rec.URL] == id {
		delete(r.byURL, rec.URL)
	}
	delete(r.byID, id)
	r.removed[id] = true
	return nil
}

// Place moves ids under parentID at toIndex, which is counted in the
// parent's children before the move. EndIndex, or any index past the end,
// appends. Every moved entity is validated with its new parent.
func (r *Records) Place(ids []string, parentID string, toIndex int) error {
	ids = dedupe(ids)
	if _, ok := r.byID[parentID]; !ok {
		return fmt.Errorf("%w: parent %s", domain.ErrNotFound, parentID)
	}

	dest := r.children[parentID]
	if toIndex < 0 || toIndex > len(dest) {
		toIndex = len(dest)
	}
	moving := make(map[string]bool, len(ids))
	for _, id := range ids {
		moving[id] = true
	}
	adjusted := toIndex
	for _, id := range dest[:toIndex] {
		if moving[id] {
			adjusted--
		}
	}

	for _, id := range ids {
		rec, ok := r.byID[id]
		if !ok || domain.IsSingleton(id) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		oldParent := rec.ParentID
		rec.ParentID = parentID
		if err := validator.Validate(rec, r); err != nil {
			return err
		}
		r.children[oldParent] = deleteIDs(r.children[oldParent], id)
		r.byID[id] = rec
	}

	remaining := deleteIDs(r.children[parentID], ids...)
	adjusted = min(adjusted, len(remaining))
	r.children[parentID] = slices.Insert(remaining, adjusted, ids...)
	return nil
}

// MoveFavorites reorders favorites. toIndex is counted in display order,
// most recently favorited first.
func (r *Records) MoveFavorites(ids []string, toIndex int) error {
	ids = dedupe(ids)
	for _, id := range ids {
		if !slices.Contains(r.favorites, id) {
			return fmt.Errorf("%w: favorite %s", domain.ErrNotFound, id)
		}
	}

	display := slices.Clone(r.favorites)
	slices.Reverse(display)
	display = moveWithin(display, ids, toIndex)
	slices.Reverse(display)
	r.favorites = display
	return nil
}

// Transform replaces each entity with transform's result. Only the
// entity's own fields are written; a folder's children are left as they are.
func (r *Records) Transform(ids []string, transform func(domain.Entity) domain.Entity) error {
	for _, id := range dedupe(ids) {
		e, ok := r.Entity(id)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		next := transform(e)
		if next == nil {
			continue
		}
		if next.EntityID() != id {
			return fmt.Errorf("transform changed entity id %s to %s", id, next.EntityID())
		}
		if err := r.Put(entityRecord(next)); err != nil {
			return err
		}
	}
	return nil
}

// Import writes t below the root. Folders merge into an existing folder
// of the same title under the same parent; bookmarks whose URL is
// already present are counted as duplicates.
func (r *Records) Import(t domain.ImportTree) domain.ImportResult {
	var res domain.ImportResult
	r.importNodes(t.Nodes, domain.RootFolderID, &res)
	return res
}

func (r *Records) importNodes(nodes []domain.ImportNode, parentID string, res *domain.ImportResult) {
	for _, n := range nodes {
		if n.IsFolder() {
			id := r.childFolderNamed(parentID, n.Title)
			if id == "" {
				rec := domain.Record{ID: domain.NewID(), Kind: domain.KindFolder, Title: n.Title, ParentID: parentID}
				if err := r.Put(rec); err != nil {
					res.Failed += domain.ImportTree{Nodes: n.Children}.BookmarkCount()
					res.Errors = append(res.Errors, fmt.Sprintf("folder %q: %v", n.Title, err))
					continue
				}
				id = rec.ID
			}
			r.importNodes(n.Children, id, res)
			continue
		}

		if _, taken := r.byURL[n.URL]; taken {
			res.Duplicates++
			continue
		}
		title := n.Title
		if title == "" {
			title = n.URL
		}
		rec := domain.Record{
			ID:         domain.NewID(),
			Kind:       domain.KindBookmark,
			Title:      title,
			URL:        n.URL,
			IsFavorite: n.IsFavorite,
			ParentID:   parentID,
		}
		if n.IsFavorite {
			rec.FavoritesContainer = domain.FavoritesFolderID
		}
		if err := r.Put(rec); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("bookmark %q: %v", n.URL, err))
			continue
		}
		res.Successful++
	}
}

func (r *Records) childFolderNamed(parentID, title string) string {
	for _, id := range r.children[parentID] {
		if rec := r.byID[id]; rec.Kind == domain.KindFolder && rec.Title == title {
			return id
		}
	}
	return ""
}

func entityRecord(e domain.Entity) domain.Record {
	switch v := e.(type) {
	case *domain.Bookmark:
		return domain.BookmarkRecord(v, v.ParentFolderID)
	case *domain.Folder:
		return domain.FolderRecord(v, v.ParentFolderID)
	}
	return domain.Record{ID: e.EntityID(), Kind: e.EntityKind(), Title: e.EntityTitle()}
}

// moveWithin moves ids to toIndex of list, toIndex counted before the move.
func moveWithin(list, ids []string, toIndex int) []string {
	if toIndex < 0 || toIndex > len(list) {
		toIndex = len(list)
	}
	adjusted := toIndex
	for _, id := range list[:toIndex] {
		if slices.Contains(ids, id) {
			adjusted--
		}
	}
	remaining := deleteIDs(list, ids...)
	return slices.Insert(remaining, min(adjusted, len(remaining)), ids...)
}

func deleteIDs(list []string, ids ...string) []string {
	return slices.DeleteFunc(slices.Clone(list), func(id string) bool {
		return slices.Contains(ids, id)
	})
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
