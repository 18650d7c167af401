package manager

import (
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/tree"
	"github.com/MrSnakeDoc/shelf/internal/validator"
)

// DropOperation is the outcome of a drop validation.
type DropOperation int

const (
	DropNone DropOperation = iota
	DropMove
	DropCreate
	DropFavorite
)

func (op DropOperation) String() string {
	switch op {
	case DropMove:
		return "move"
	case DropCreate:
		return "create"
	case DropFavorite:
		return "favorite"
	}
	return "none"
}

// DropPayload is what is being dropped: either entity ids dragged from a
// view, or text such as a URL dragged in from elsewhere.
type DropPayload struct {
	IDs  []string `json:"ids,omitempty"`
	Text string   `json:"text,omitempty"`
}

// CanMoveObject reports whether id may move into dest (nil for the root).
// A folder cannot move into itself or below itself, and id must resolve
// in the live tree.
func (m *Manager) CanMoveObject(id string, dest *domain.Folder) bool {
	list := m.Snapshot()
	if _, ok := list.Entity(id); !ok {
		return false
	}
	if dest == nil {
		return true
	}
	if dest.ID == id {
		return false
	}
	if _, ok := list.Folder(dest.ID); !ok {
		return false
	}
	return !validator.FromEntities(list.TopLevelEntities()).IsDescendant(dest.ID, id)
}

// ValidateDrop decides what dropping p onto destination does. Only folders
// and the known pseudo-folders accept drops. Dragged entities move only if
// every one of them may move there; text creates a bookmark when it parses
// as a URL. The favorites pseudo-folder only takes dragged bookmarks and
// marks them favorite.
func (m *Manager) ValidateDrop(p DropPayload, destination tree.Object) DropOperation {
	if pf, ok := destination.(*tree.PseudoFolder); ok && pf.ID == tree.FavoritesID {
		return m.validateFavoriteDrop(p)
	}

	dest, ok := dropTarget(destination)
	if !ok {
		return DropNone
	}

	if len(p.IDs) == 0 {
		if IsBookmarkableURL(p.Text) {
			return DropCreate
		}
		return DropNone
	}

	for _, id := range p.IDs {
		if !m.CanMoveObject(id, dest) {
			return DropNone
		}
	}
	return DropMove
}

func (m *Manager) validateFavoriteDrop(p DropPayload) DropOperation {
	if len(p.IDs) == 0 {
		return DropNone
	}
	list := m.Snapshot()
	for _, id := range p.IDs {
		e, ok := list.Entity(id)
		if !ok {
			return DropNone
		}
		if _, ok := e.(*domain.Bookmark); !ok {
			return DropNone
		}
	}
	return DropFavorite
}

// dropTarget resolves a drop destination to a folder; nil means the root.
func dropTarget(o tree.Object) (*domain.Folder, bool) {
	switch d := o.(type) {
	case *tree.PseudoFolder:
		if d.ID == tree.AllBookmarksID {
			return nil, true
		}
	case tree.EntityObject:
		if f, ok := d.Entity.(*domain.Folder); ok {
			return f, true
		}
	}
	return nil, false
}

// IsBookmarkableURL reports whether text is an absolute URL with a host.
func IsBookmarkableURL(text string) bool {
	u, err := url.Parse(strings.TrimSpace(text))
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
