package domain

import "github.com/google/uuid"

const (
	// RootFolderID is the implicit container of every top-level entity.
	RootFolderID = "bookmarks_root"
	// FavoritesFolderID is the implicit favorites container.
	FavoritesFolderID = "favorites_root"
)

// Record is the flat persisted form of an entity.
// Top-level entities are stored with ParentID == RootFolderID.
type Record struct {
	ID                 string `json:"id"`
	Kind               Kind   `json:"kind"`
	Title              string `json:"title"`
	URL                string `json:"url,omitempty"`
	IsFavorite         bool   `json:"is_favorite,omitempty"`
	ParentID           string `json:"parent_id,omitempty"`
	FavoritesContainer string `json:"favorites_container,omitempty"`
}

// IsSingleton reports whether id names one of the two implicit containers.
func IsSingleton(id string) bool {
	return id == RootFolderID || id == FavoritesFolderID
}

// NewID returns a fresh entity identifier.
func NewID() string {
	return uuid.NewString()
}

// BookmarkRecord flattens b for persistence under parentID.
func BookmarkRecord(b *Bookmark, parentID *string) Record {
	rec := Record{
		ID:         b.ID,
		Kind:       KindBookmark,
		Title:      b.Title,
		URL:        b.URL,
		IsFavorite: b.IsFavorite,
		ParentID:   persistedParent(parentID),
	}
	if b.IsFavorite {
		rec.FavoritesContainer = FavoritesFolderID
	}
	return rec
}

// FolderRecord flattens f (without its children) for persistence under parentID.
func FolderRecord(f *Folder, parentID *string) Record {
	return Record{
		ID:       f.ID,
		Kind:     KindFolder,
		Title:    f.Title,
		ParentID: persistedParent(parentID),
	}
}

// EntityParent maps a persisted parent id back to the entity-level pointer.
func EntityParent(parentID string) *string {
	if parentID == "" || parentID == RootFolderID {
		return nil
	}
	p := parentID
	return &p
}

// BookmarkFromRecord builds a bookmark entity from its record.
func BookmarkFromRecord(rec Record) *Bookmark {
	return &Bookmark{
		ID:             rec.ID,
		Title:          rec.Title,
		URL:            rec.URL,
		IsFavorite:     rec.IsFavorite,
		ParentFolderID: EntityParent(rec.ParentID),
	}
}

// FolderFromRecord builds a folder entity from its record and already built children.
func FolderFromRecord(rec Record, children []Entity) *Folder {
	return NewFolder(rec.ID, rec.Title, EntityParent(rec.ParentID), children)
}

func persistedParent(parentID *string) string {
	if parentID == nil || *parentID == "" {
		return RootFolderID
	}
	return *parentID
}

// FromRecords rebuilds the folder hierarchy below the root.
// children maps a parent id to its ordered child ids.
func FromRecords(records map[string]Record, children map[string][]string) []Entity {
	return ChildEntities(RootFolderID, records, children)
}

// ChildEntities rebuilds the ordered children of parentID, recursively.
// Ids without a record are skipped, and a folder already on the current
// path is not entered again.
func ChildEntities(parentID string, records map[string]Record, children map[string][]string) []Entity {
	visiting := map[string]bool{parentID: true}

	var build func(parentID string) []Entity
	build = func(parentID string) []Entity {
		ids := children[parentID]
		out := make([]Entity, 0, len(ids))
		for _, id := range ids {
			rec, ok := records[id]
			if !ok || IsSingleton(id) {
				continue
			}
			switch rec.Kind {
			case KindBookmark:
				out = append(out, BookmarkFromRecord(rec))
			case KindFolder:
				if visiting[id] {
					continue
				}
				visiting[id] = true
				out = append(out, FolderFromRecord(rec, build(id)))
				delete(visiting, id)
			}
		}
		return out
	}

	return build(parentID)
}
