package domain

// Kind discriminates the two persisted entity variants.
type Kind string

const (
	KindBookmark Kind = "bookmark"
	KindFolder   Kind = "folder"
)

// Entity is a persisted bookmark or folder.
// The set of implementations is closed: *Bookmark and *Folder.
type Entity interface {
	EntityID() string
	EntityTitle() string
	EntityKind() Kind
	ParentID() *string

	// Equal reports structural equality (id, title, kind and
	// kind-specific fields, recursively for folders).
	Equal(other Entity) bool

	sealed()
}

// Bookmark represents a bookmarked link.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the opaque stable identifier, unique within a collection.
	ID string

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Title is the display string.
	Title string

	// URL is the canonical string form of the target.
	// It is the natural key of the bookmark list index.
	URL string

	// IsFavorite marks the bookmark as part of the favorites view.
	IsFavorite bool

	// ─────────────────────────────
	// Placement
	// ─────────────────────────────

	// ParentFolderID is a back-reference to the containing folder.
	// nil means top-level.
	ParentFolderID *string
}

func (b *Bookmark) EntityID() string    { return b.ID }
func (b *Bookmark) EntityTitle() string { return b.Title }
func (b *Bookmark) EntityKind() Kind    { return KindBookmark }
func (b *Bookmark) ParentID() *string   { return b.ParentFolderID }
func (b *Bookmark) sealed()             {}

// Equal compares id, title, url, favorite flag and parent.
func (b *Bookmark) Equal(other Entity) bool {
	o, ok := other.(*Bookmark)
	if !ok || b == nil || o == nil {
		return ok && b == nil && o == nil
	}
	return b.ID == o.ID &&
		b.Title == o.Title &&
		b.URL == o.URL &&
		b.IsFavorite == o.IsFavorite &&
		sameParent(b.ParentFolderID, o.ParentFolderID)
}

// Clone returns a copy that shares no memory with b.
func (b *Bookmark) Clone() *Bookmark {
	c := *b
	c.ParentFolderID = cloneParent(b.ParentFolderID)
	return &c
}

// WithURL returns a copy of b pointing at url.
func (b *Bookmark) WithURL(url string) *Bookmark {
	c := b.Clone()
	c.URL = url
	return c
}

// Folder is a container owning an ordered list of children.
type Folder struct {
	ID             string
	Title          string
	ParentFolderID *string

	// Children is the only ownership edge of the model.
	Children []Entity

	totalChildBookmarks int
}

// NewFolder builds a folder and computes its recursive bookmark count.
func NewFolder(id, title string, parentID *string, children []Entity) *Folder {
	f := &Folder{
		ID:             id,
		Title:          title,
		ParentFolderID: parentID,
		Children:       children,
	}
	for _, child := range children {
		switch c := child.(type) {
		case *Bookmark:
			f.totalChildBookmarks++
		case *Folder:
			f.totalChildBookmarks += c.totalChildBookmarks
		}
	}
	return f
}

func (f *Folder) EntityID() string    { return f.ID }
func (f *Folder) EntityTitle() string { return f.Title }
func (f *Folder) EntityKind() Kind    { return KindFolder }
func (f *Folder) ParentID() *string   { return f.ParentFolderID }
func (f *Folder) sealed()             {}

// TotalChildBookmarkCount is the number of bookmarks at any depth below f.
func (f *Folder) TotalChildBookmarkCount() int { return f.totalChildBookmarks }

// ChildFolders returns the direct children that are folders, in order.
func (f *Folder) ChildFolders() []*Folder {
	var out []*Folder
	for _, child := range f.Children {
		if c, ok := child.(*Folder); ok {
			out = append(out, c)
		}
	}
	return out
}

// ChildBookmarkCount returns the number of direct bookmark children.
func (f *Folder) ChildBookmarkCount() int {
	n := 0
	for _, child := range f.Children {
		if _, ok := child.(*Bookmark); ok {
			n++
		}
	}
	return n
}

// Equal compares id, title, parent and children recursively.
func (f *Folder) Equal(other Entity) bool {
	o, ok := other.(*Folder)
	if !ok || f == nil || o == nil {
		return ok && f == nil && o == nil
	}
	if f.ID != o.ID || f.Title != o.Title || !sameParent(f.ParentFolderID, o.ParentFolderID) {
		return false
	}
	if len(f.Children) != len(o.Children) {
		return false
	}
	for i := range f.Children {
		if !f.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Walk visits f's descendants depth-first, parents before children.
func (f *Folder) Walk(fn func(Entity)) {
	for _, child := range f.Children {
		fn(child)
		if c, ok := child.(*Folder); ok {
			c.Walk(fn)
		}
	}
}

// Equal is a nil-safe structural comparison of two entities.
func Equal(a, b Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func cloneParent(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
