// Package tree projects the bookmark hierarchy onto identity-preserving
// nodes that can be re-synchronized incrementally after every reload.
package tree

import "github.com/MrSnakeDoc/shelf/internal/domain"

// Object is the payload a Node represents. Implementations:
// EntityObject, *PseudoFolder, Marker and the root sentinel.
type Object interface {
	treeObject()
}

// EntityObject wraps a persisted bookmark or folder.
type EntityObject struct {
	Entity domain.Entity
}

func (EntityObject) treeObject() {}

// Wrap converts entities to node payloads.
func Wrap(entities []domain.Entity) []Object {
	out := make([]Object, len(entities))
	for i, e := range entities {
		out[i] = EntityObject{Entity: e}
	}
	return out
}

// Pseudo-folder ids.
const (
	AllBookmarksID = "pseudo_all_bookmarks"
	FavoritesID    = "pseudo_favorites"
)

// PseudoFolder is a synthetic, non-persisted container.
// Two pseudo-folders are equal only when they are the same instance.
type PseudoFolder struct {
	ID    string
	Title string
	Count int
}

func (*PseudoFolder) treeObject() {}

// NewPseudoFolder returns a new pseudo-folder instance.
func NewPseudoFolder(id, title string) *PseudoFolder {
	return &PseudoFolder{ID: id, Title: title}
}

// MarkerKind identifies a UI-only node.
type MarkerKind int

const (
	MarkerSeparator MarkerKind = iota + 1
	MarkerOpenAll
	MarkerEmpty
)

func (k MarkerKind) String() string {
	switch k {
	case MarkerSeparator:
		return "separator"
	case MarkerOpenAll:
		return "open_all"
	case MarkerEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Marker is a UI-only node attached to the folder it belongs to.
type Marker struct {
	Kind     MarkerKind
	FolderID string
}

func (Marker) treeObject() {}

type rootSentinel struct{}

func (rootSentinel) treeObject() {}

// RootObject is the payload of every synthetic root.
var RootObject Object = rootSentinel{}

// ObjectsEqual is the structural comparison used by reconciliation.
func ObjectsEqual(a, b Object) bool {
	switch x := a.(type) {
	case EntityObject:
		y, ok := b.(EntityObject)
		return ok && domain.Equal(x.Entity, y.Entity)
	case *PseudoFolder:
		y, ok := b.(*PseudoFolder)
		return ok && x == y
	case Marker:
		y, ok := b.(Marker)
		return ok && x == y
	case rootSentinel:
		_, ok := b.(rootSentinel)
		return ok
	default:
		return false
	}
}

// ObjectsHaveSameID compares identity only, ignoring every other field.
func ObjectsHaveSameID(a, b Object) bool {
	switch x := a.(type) {
	case EntityObject:
		y, ok := b.(EntityObject)
		return ok && x.Entity != nil && y.Entity != nil &&
			x.Entity.EntityKind() == y.Entity.EntityKind() &&
			x.Entity.EntityID() == y.Entity.EntityID()
	case *PseudoFolder:
		y, ok := b.(*PseudoFolder)
		return ok && x != nil && y != nil && x.ID == y.ID
	default:
		return ObjectsEqual(a, b)
	}
}

// EntityOf returns the entity a payload wraps.
func EntityOf(o Object) (domain.Entity, bool) {
	eo, ok := o.(EntityObject)
	if !ok || eo.Entity == nil {
		return nil, false
	}
	return eo.Entity, true
}

// FolderOf returns the folder a payload wraps.
func FolderOf(o Object) (*domain.Folder, bool) {
	e, ok := EntityOf(o)
	if !ok {
		return nil, false
	}
	f, ok := e.(*domain.Folder)
	return f, ok
}

// IsRootObject reports whether o is the root sentinel.
func IsRootObject(o Object) bool {
	_, ok := o.(rootSentinel)
	return ok
}
