package index

import (
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// BookmarkList is the flat, URL-keyed view of a bookmark collection.
// It is rebuilt wholesale from every store load; Insert, Remove and Update
// only apply optimistic edits until the next load replaces it.
type BookmarkList struct {
	mu               sync.RWMutex
	itemsByURL       map[string]*domain.Bookmark // URL -> Bookmark
	allOrdered       []string                    // URLs, newest first
	favoritesOrdered []string                    // URLs, most recently favorited first
	topLevel         []domain.Entity             // entities directly under the root
	loadedAt         time.Time                   // Timestamp of the load that built the list
}

// NewBookmarkList builds the index from a full load.
// bookmarks is every bookmark in load order, topLevel the root's children,
// favorites the favorite bookmarks in the order they were favorited.
// Duplicate URLs keep their first occurrence.
func NewBookmarkList(bookmarks []*domain.Bookmark, topLevel []domain.Entity, favorites []*domain.Bookmark) *BookmarkList {
	l := &BookmarkList{
		itemsByURL: make(map[string]*domain.Bookmark, len(bookmarks)),
		allOrdered: make([]string, 0, len(bookmarks)),
		topLevel:   slices.Clone(topLevel),
		loadedAt:   time.Now(),
	}

	for _, b := range bookmarks {
		if _, exists := l.itemsByURL[b.URL]; exists {
			continue
		}
		l.itemsByURL[b.URL] = b.Clone()
		l.allOrdered = append(l.allOrdered, b.URL)
	}

	seen := make(map[string]bool, len(favorites))
	for _, b := range favorites {
		if seen[b.URL] {
			continue
		}
		if _, ok := l.itemsByURL[b.URL]; !ok {
			continue
		}
		seen[b.URL] = true
		l.favoritesOrdered = append(l.favoritesOrdered, b.URL)
	}
	slices.Reverse(l.favoritesOrdered)

	return l
}

// Empty returns a list with no entries.
func Empty() *BookmarkList {
	return NewBookmarkList(nil, nil, nil)
}

// ─────────────────────────────────────────────────────────────────
// Optimistic edits
// ─────────────────────────────────────────────────────────────────

// Insert prepends b. It returns false and changes nothing when the URL
// is already present. Favorites are not touched.
func (l *BookmarkList) Insert(b *domain.Bookmark) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.itemsByURL[b.URL]; exists {
		return false
	}
	l.itemsByURL[b.URL] = b.Clone()
	l.allOrdered = slices.Insert(l.allOrdered, 0, b.URL)
	return true
}

// Remove drops every occurrence of b's URL. It returns false when absent.
func (l *BookmarkList) Remove(b *domain.Bookmark) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.itemsByURL[b.URL]; !exists {
		return false
	}
	delete(l.itemsByURL, b.URL)
	l.allOrdered = deleteURL(l.allOrdered, b.URL)
	l.favoritesOrdered = deleteURL(l.favoritesOrdered, b.URL)
	return true
}

// Removal remembers where a removed bookmark sat in both orders.
type Removal struct {
	Bookmark      *domain.Bookmark
	Index         int
	FavoriteIndex int // -1 when it was not a favorite
}

// Take removes b like Remove and reports its positions for Restore.
func (l *BookmarkList) Take(b *domain.Bookmark) (Removal, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	stored, exists := l.itemsByURL[b.URL]
	if !exists {
		return Removal{}, false
	}
	r := Removal{
		Bookmark:      stored.Clone(),
		Index:         slices.Index(l.allOrdered, b.URL),
		FavoriteIndex: slices.Index(l.favoritesOrdered, b.URL),
	}
	delete(l.itemsByURL, b.URL)
	l.allOrdered = deleteURL(l.allOrdered, b.URL)
	l.favoritesOrdered = deleteURL(l.favoritesOrdered, b.URL)
	return r, true
}

// Restore puts a taken bookmark back at its recorded positions. Undo
// several Takes in reverse order to get the exact original order back.
// It returns false when the URL is present again.
func (l *BookmarkList) Restore(r Removal) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	url := r.Bookmark.URL
	if _, exists := l.itemsByURL[url]; exists {
		return false
	}
	l.itemsByURL[url] = r.Bookmark.Clone()
	l.allOrdered = slices.Insert(l.allOrdered, clampIndex(r.Index, len(l.allOrdered)), url)
	if r.FavoriteIndex >= 0 {
		l.favoritesOrdered = slices.Insert(l.favoritesOrdered, clampIndex(r.FavoriteIndex, len(l.favoritesOrdered)), url)
	}
	return true
}

func clampIndex(i, n int) int {
	return max(0, min(i, n))
}

// Update replaces the stored value for b's URL. It returns false when the
// URL is absent. A change of the favorite flag moves the URL in or out of
// the favorites order; a new favorite goes first.
func (l *BookmarkList) Update(b *domain.Bookmark) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	old, exists := l.itemsByURL[b.URL]
	if !exists {
		return false
	}
	l.itemsByURL[b.URL] = b.Clone()

	switch {
	case b.IsFavorite && !old.IsFavorite:
		l.favoritesOrdered = slices.Insert(deleteURL(l.favoritesOrdered, b.URL), 0, b.URL)
	case !b.IsFavorite && old.IsFavorite:
		l.favoritesOrdered = deleteURL(l.favoritesOrdered, b.URL)
	}
	return true
}

// UpdateURL moves b to newURL in place and returns the updated value.
// It returns false when newURL is already present or b's URL is absent.
func (l *BookmarkList) UpdateURL(b *domain.Bookmark, newURL string) (*domain.Bookmark, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.itemsByURL[newURL]; exists {
		return nil, false
	}
	stored, exists := l.itemsByURL[b.URL]
	if !exists {
		return nil, false
	}

	updated := stored.WithURL(newURL)
	delete(l.itemsByURL, b.URL)
	l.itemsByURL[newURL] = updated
	replaceURL(l.allOrdered, b.URL, newURL)
	replaceURL(l.favoritesOrdered, b.URL, newURL)

	return updated.Clone(), true
}

// ─────────────────────────────────────────────────────────────────
// Read access
// ─────────────────────────────────────────────────────────────────

// Bookmarks returns all bookmarks, newest first.
func (l *BookmarkList) Bookmarks() []*domain.Bookmark {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.resolve(l.allOrdered)
}

// FavoriteBookmarks returns the favorites, most recently favorited first.
func (l *BookmarkList) FavoriteBookmarks() []*domain.Bookmark {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.resolve(l.favoritesOrdered)
}

// TopLevelEntities returns the entities without a parent folder.
func (l *BookmarkList) TopLevelEntities() []domain.Entity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.topLevel)
}

// IsURLBookmarked reports whether url is present.
func (l *BookmarkList) IsURLBookmarked(url string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.itemsByURL[url]
	return ok
}

// Bookmark returns a copy of the bookmark stored for url.
func (l *BookmarkList) Bookmark(url string) (*domain.Bookmark, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.itemsByURL[url]
	if !ok {
		return nil, false
	}
	return b.Clone(), true
}

// BookmarkByID scans the index for a bookmark with the given id.
func (l *BookmarkList) BookmarkByID(id string) (*domain.Bookmark, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, url := range l.allOrdered {
		if b, ok := l.itemsByURL[url]; ok && b.ID == id {
			return b.Clone(), true
		}
	}
	return nil, false
}

// Entity finds an entity by id in the loaded hierarchy.
func (l *BookmarkList) Entity(id string) (domain.Entity, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var found domain.Entity
	for _, e := range l.topLevel {
		if found = findEntity(e, id); found != nil {
			return found, true
		}
	}
	return nil, false
}

// Folder finds a folder by id in the loaded hierarchy.
func (l *BookmarkList) Folder(id string) (*domain.Folder, bool) {
	e, ok := l.Entity(id)
	if !ok {
		return nil, false
	}
	f, ok := e.(*domain.Folder)
	return f, ok
}

// AllEntities returns every entity of the loaded hierarchy, depth-first.
func (l *BookmarkList) AllEntities() []domain.Entity {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.Entity
	for _, e := range l.topLevel {
		out = append(out, e)
		if f, ok := e.(*domain.Folder); ok {
			f.Walk(func(child domain.Entity) { out = append(out, child) })
		}
	}
	return out
}

// Count returns the number of bookmarks in the index.
func (l *BookmarkList) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.itemsByURL)
}

// LoadedAt returns the time of the load that built the list.
func (l *BookmarkList) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.loadedAt
}

// resolve maps URLs to bookmark copies, skipping URLs with no entry.
func (l *BookmarkList) resolve(urls []string) []*domain.Bookmark {
	out := make([]*domain.Bookmark, 0, len(urls))
	for _, url := range urls {
		b, ok := l.itemsByURL[url]
		if !ok {
			continue
		}
		out = append(out, b.Clone())
	}
	return out
}

func findEntity(e domain.Entity, id string) domain.Entity {
	if e.EntityID() == id {
		return e
	}
	f, ok := e.(*domain.Folder)
	if !ok {
		return nil
	}
	for _, child := range f.Children {
		if found := findEntity(child, id); found != nil {
			return found
		}
	}
	return nil
}

func deleteURL(urls []string, url string) []string {
	return slices.DeleteFunc(urls, func(u string) bool { return u == url })
}

func replaceURL(urls []string, from, to string) {
	for i, u := range urls {
		if u == from {
			urls[i] = to
		}
	}
}
