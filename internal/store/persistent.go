// Package store persists the bookmark hierarchy. Persistent implements the
// store contract once over the record graph; backends only load and save it.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// Scope selects what LoadAll returns.
type Scope int

const (
	// ScopeTopLevel returns the root's children, folders owning their subtrees.
	ScopeTopLevel Scope = iota
	// ScopeAllBookmarks returns every bookmark at any depth, newest first.
	ScopeAllBookmarks
	// ScopeFavorites returns the favorites in the order they were favorited.
	ScopeFavorites
)

func (s Scope) String() string {
	switch s {
	case ScopeTopLevel:
		return "top_level"
	case ScopeAllBookmarks:
		return "all_bookmarks"
	case ScopeFavorites:
		return "favorites"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// Backend loads and saves the whole record graph.
// Save must persist the graph atomically, including Removed().
type Backend interface {
	Name() string
	Load(ctx context.Context) (*Records, error)
	Save(ctx context.Context, r *Records) error
}

// Persistent serializes store operations over a backend. Each write loads
// the graph, applies and validates the change, then saves; nothing is saved
// when the change fails.
type Persistent struct {
	mu      sync.Mutex
	backend Backend
	log     logger.Logger
}

// NewPersistent creates a store over backend.
func NewPersistent(backend Backend, log logger.Logger) *Persistent {
	return &Persistent{
		backend: backend,
		log:     log.With(logger.String("backend", backend.Name())),
	}
}

// Backend returns the name of the underlying backend.
func (p *Persistent) Backend() string {
	return p.backend.Name()
}

// LoadAll returns the entities of scope.
func (p *Persistent) LoadAll(ctx context.Context, scope Scope) ([]domain.Entity, error) {
	r, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	switch scope {
	case ScopeTopLevel:
		return r.TopLevel(), nil
	case ScopeAllBookmarks:
		return asEntities(r.AllBookmarks()), nil
	case ScopeFavorites:
		return asEntities(r.Favorites()), nil
	}
	return nil, fmt.Errorf("unknown load scope %s", scope)
}

// Count returns the number of persisted entities.
func (p *Persistent) Count(ctx context.Context) (int, error) {
	r, err := p.load(ctx)
	if err != nil {
		return 0, err
	}
	return r.Len(), nil
}

// SaveBookmark inserts b under parentID (nil for the root).
func (p *Persistent) SaveBookmark(ctx context.Context, b *domain.Bookmark, parentID *string) error {
	return p.mutate(ctx, "save bookmark", func(r *Records) error {
		return r.Put(domain.BookmarkRecord(b, parentID))
	})
}

// SaveFolder inserts f under parentID (nil for the root). Its children
// are not written.
func (p *Persistent) SaveFolder(ctx context.Context, f *domain.Folder, parentID *string) error {
	return p.mutate(ctx, "save folder", func(r *Records) error {
		return r.Put(domain.FolderRecord(f, parentID))
	})
}

// UpdateBookmark replaces the persisted fields of an existing bookmark.
func (p *Persistent) UpdateBookmark(ctx context.Context, b *domain.Bookmark) error {
	return p.mutate(ctx, "update bookmark", func(r *Records) error {
		if _, ok := r.Record(b.ID); !ok {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, b.ID)
		}
		return r.Put(domain.BookmarkRecord(b, b.ParentFolderID))
	})
}

// UpdateFolder replaces the persisted fields of an existing folder.
func (p *Persistent) UpdateFolder(ctx context.Context, f *domain.Folder) error {
	return p.mutate(ctx, "update folder", func(r *Records) error {
		if _, ok := r.Record(f.ID); !ok {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, f.ID)
		}
		return r.Put(domain.FolderRecord(f, f.ParentFolderID))
	})
}

// Remove deletes ids, folders with their subtrees. Ids already removed
// as part of an earlier folder in the batch are skipped.
func (p *Persistent) Remove(ctx context.Context, ids []string) error {
	return p.mutate(ctx, "remove", func(r *Records) error {
		for _, id := range ids {
			if r.removed[id] {
				continue
			}
			if err := r.Remove(id); err != nil {
				return err
			}
		}
		return nil
	})
}

// Add appends ids to parentID's children, detaching them from their
// current parent.
func (p *Persistent) Add(ctx context.Context, ids []string, parentID *string) error {
	return p.mutate(ctx, "add", func(r *Records) error {
		return r.Place(ids, parentKey(parentID), EndIndex)
	})
}

// UpdateObjects rewrites each entity through transform.
func (p *Persistent) UpdateObjects(ctx context.Context, ids []string, transform func(domain.Entity) domain.Entity) error {
	return p.mutate(ctx, "update objects", func(r *Records) error {
		return r.Transform(ids, transform)
	})
}

// Move places ids at toIndex of parentID's children.
func (p *Persistent) Move(ctx context.Context, ids []string, toIndex int, parentID *string) error {
	return p.mutate(ctx, "move", func(r *Records) error {
		return r.Place(ids, parentKey(parentID), toIndex)
	})
}

// MoveFavorites reorders favorites; toIndex is in display order.
func (p *Persistent) MoveFavorites(ctx context.Context, ids []string, toIndex int) error {
	return p.mutate(ctx, "move favorites", func(r *Records) error {
		return r.MoveFavorites(ids, toIndex)
	})
}

// ImportBookmarks writes t and reports per-bookmark outcomes.
func (p *Persistent) ImportBookmarks(ctx context.Context, t domain.ImportTree) (domain.ImportResult, error) {
	var res domain.ImportResult
	err := p.mutate(ctx, "import", func(r *Records) error {
		res = r.Import(t)
		return nil
	})
	if err != nil {
		return domain.ImportResult{}, err
	}

	p.log.Info("import stored",
		logger.String("source", t.Source),
		logger.Int("successful", res.Successful),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("failed", res.Failed))
	return res, nil
}

func (p *Persistent) load(ctx context.Context) (*Records, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, err := p.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return r, nil
}

func (p *Persistent) mutate(ctx context.Context, op string, fn func(*Records) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, err := p.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: load records: %w", op, err)
	}
	if err := fn(r); err != nil {
		p.log.Debug("store write rejected", logger.String("op", op), logger.Error(err))
		return err
	}
	if err := p.backend.Save(ctx, r); err != nil {
		return fmt.Errorf("%s: save records: %w", op, err)
	}
	return nil
}

func parentKey(parentID *string) string {
	if parentID == nil || *parentID == "" {
		return domain.RootFolderID
	}
	return *parentID
}

func asEntities(bookmarks []*domain.Bookmark) []domain.Entity {
	out := make([]domain.Entity, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = b
	}
	return out
}
