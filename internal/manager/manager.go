// Package manager owns the live bookmark list. Every mutation is applied
// optimistically to the list, persisted through the store, rolled back on
// failure, and followed by a full reload.
package manager

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/index"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/store"
	"golang.org/x/sync/errgroup"
)

// Store is the persistence collaborator of the manager.
type Store interface {
	LoadAll(ctx context.Context, scope store.Scope) ([]domain.Entity, error)
	SaveBookmark(ctx context.Context, b *domain.Bookmark, parentID *string) error
	SaveFolder(ctx context.Context, f *domain.Folder, parentID *string) error
	UpdateBookmark(ctx context.Context, b *domain.Bookmark) error
	UpdateFolder(ctx context.Context, f *domain.Folder) error
	Remove(ctx context.Context, ids []string) error
	Add(ctx context.Context, ids []string, parentID *string) error
	UpdateObjects(ctx context.Context, ids []string, transform func(domain.Entity) domain.Entity) error
	Move(ctx context.Context, ids []string, toIndex int, parentID *string) error
	MoveFavorites(ctx context.Context, ids []string, toIndex int) error
	ImportBookmarks(ctx context.Context, t domain.ImportTree) (domain.ImportResult, error)
}

// Manager is the single owner of the in-memory BookmarkList.
type Manager struct {
	store Store
	log   logger.Logger

	writeMu sync.Mutex // serializes mutations and reloads

	mu         sync.RWMutex
	list       *index.BookmarkList
	lastReload time.Time // zero until the first successful reload

	subsMu  sync.Mutex
	subs    map[uint64]func(*index.BookmarkList)
	nextSub uint64
}

// New creates a manager with an empty list. Call LoadBookmarks to fill it.
func New(s Store, log logger.Logger) *Manager {
	return &Manager{
		store: s,
		log:   log,
		list:  index.Empty(),
		subs:  make(map[uint64]func(*index.BookmarkList)),
	}
}

// Snapshot returns the current list. Optimistic edits show up in it
// before they are persisted; a reload replaces it.
func (m *Manager) Snapshot() *index.BookmarkList {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.list
}

// LastReload returns when the list was last read from the store, or the
// zero time if it never was.
func (m *Manager) LastReload() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastReload
}

// Subscribe registers fn to run after every reload with the new list.
// The returned function unregisters it.
func (m *Manager) Subscribe(fn func(*index.BookmarkList)) (cancel func()) {
	m.subsMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subsMu.Unlock()

	return func() {
		m.subsMu.Lock()
		delete(m.subs, id)
		m.subsMu.Unlock()
	}
}

// ─────────────────────────────────────────────────────────────────
// Loading
// ─────────────────────────────────────────────────────────────────

// LoadBookmarks replaces the list with a fresh read of the store.
func (m *Manager) LoadBookmarks(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return m.reload(ctx)
}

func (m *Manager) reload(ctx context.Context) error {
	var top, all, favorites []domain.Entity

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		top, err = m.store.LoadAll(gctx, store.ScopeTopLevel)
		return err
	})
	g.Go(func() (err error) {
		all, err = m.store.LoadAll(gctx, store.ScopeAllBookmarks)
		return err
	})
	g.Go(func() (err error) {
		favorites, err = m.store.LoadAll(gctx, store.ScopeFavorites)
		return err
	})
	if err := g.Wait(); err != nil {
		m.log.Error("bookmark reload failed", logger.Error(err))
		return domain.PersistenceError("load bookmarks", err)
	}

	list := index.NewBookmarkList(bookmarksOf(all), top, bookmarksOf(favorites))

	m.mu.Lock()
	m.list = list
	m.lastReload = list.LoadedAt()
	m.mu.Unlock()

	m.log.Info("bookmarks reloaded",
		logger.Int("bookmarks", list.Count()),
		logger.Int("favorites", len(favorites)),
		logger.Int("top_level", len(top)))

	m.notify(list)
	return nil
}

// converge reloads after a mutation. A failed reload keeps the current
// list, which already holds the rollback when the write failed.
func (m *Manager) converge(ctx context.Context) {
	_ = m.reload(ctx)
}

func (m *Manager) notify(list *index.BookmarkList) {
	m.subsMu.Lock()
	fns := make([]func(*index.BookmarkList), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subsMu.Unlock()

	for _, fn := range fns {
		fn(list)
	}
}

// ─────────────────────────────────────────────────────────────────
// Queries
// ─────────────────────────────────────────────────────────────────

func (m *Manager) IsURLBookmarked(url string) bool {
	return m.Snapshot().IsURLBookmarked(url)
}

func (m *Manager) GetBookmark(url string) (*domain.Bookmark, bool) {
	return m.Snapshot().Bookmark(url)
}

func (m *Manager) GetEntity(id string) (domain.Entity, bool) {
	return m.Snapshot().Entity(id)
}

func (m *Manager) GetFolder(id string) (*domain.Folder, bool) {
	return m.Snapshot().Folder(id)
}

// Search ranks every bookmark and folder against query, best first.
func (m *Manager) Search(query string, limit int) []domain.Entity {
	ranked := domain.RankEntities(query, m.Snapshot().AllEntities(), limit)
	out := make([]domain.Entity, len(ranked))
	for i, c := range ranked {
		out[i] = c.Entity
	}
	return out
}

// ─────────────────────────────────────────────────────────────────
// Bookmark mutations
// ─────────────────────────────────────────────────────────────────

// MakeBookmark creates a bookmark under parentID (nil for the root).
// It returns nil without error when the URL is already bookmarked.
func (m *Manager) MakeBookmark(ctx context.Context, url, title string, isFavorite bool, parentID *string) (*domain.Bookmark, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	b := &domain.Bookmark{
		ID:             domain.NewID(),
		Title:          title,
		URL:            url,
		IsFavorite:     isFavorite,
		ParentFolderID: parentID,
	}

	list := m.Snapshot()
	if !insertBookmark(list, b) {
		m.log.Warn("bookmark already exists", logger.String("url", url))
		return nil, nil
	}

	err := m.store.SaveBookmark(ctx, b, parentID)
	if err != nil {
		list.Remove(b)
	}
	m.converge(ctx)

	if err != nil {
		if err = m.storeError("make bookmark", err, logger.String("url", url)); recovered(err) {
			return nil, nil
		}
		return nil, err
	}

	m.log.Debug("bookmark created", logger.String("id", b.ID), logger.String("url", url))
	return b, nil
}

// Remove deletes the bookmark stored under b's URL. A missing bookmark
// is logged and ignored.
func (m *Manager) Remove(ctx context.Context, b *domain.Bookmark) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	list := m.Snapshot()
	stored, ok := list.Bookmark(b.URL)
	if !ok {
		m.log.Warn("bookmark to remove not found", logger.String("url", b.URL))
		return nil
	}

	taken, _ := list.Take(stored)
	err := m.store.Remove(ctx, []string{stored.ID})
	if err != nil {
		list.Restore(taken)
	}
	m.converge(ctx)

	return m.singleResult("remove bookmark", err, logger.String("url", b.URL))
}

// Update replaces the fields of the bookmark stored under b's URL.
func (m *Manager) Update(ctx context.Context, b *domain.Bookmark) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	list := m.Snapshot()
	old, ok := list.Bookmark(b.URL)
	if !ok {
		m.log.Warn("bookmark to update not found", logger.String("url", b.URL))
		return nil
	}

	list.Update(b)
	err := m.store.UpdateBookmark(ctx, b)
	if err != nil {
		list.Update(old)
	}
	m.converge(ctx)

	return m.singleResult("update bookmark", err, logger.String("url", b.URL))
}

// UpdateURL moves b to newURL and returns the updated bookmark. It returns
// nil without error when newURL is taken or b is no longer present.
func (m *Manager) UpdateURL(ctx context.Context, b *domain.Bookmark, newURL string) (*domain.Bookmark, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	list := m.Snapshot()
	updated, ok := list.UpdateURL(b, newURL)
	if !ok {
		m.log.Warn("cannot change bookmark url",
			logger.String("url", b.URL),
			logger.String("new_url", newURL),
			logger.Bool("target_exists", list.IsURLBookmarked(newURL)))
		return nil, nil
	}

	err := m.store.UpdateBookmark(ctx, updated)
	if err != nil {
		list.UpdateURL(updated, b.URL)
	}
	m.converge(ctx)

	if err != nil {
		if err = m.storeError("update bookmark url", err, logger.String("new_url", newURL)); recovered(err) {
			return nil, nil
		}
		return nil, err
	}
	return updated, nil
}

// ─────────────────────────────────────────────────────────────────
// Folder mutations
// ─────────────────────────────────────────────────────────────────

// MakeFolder creates an empty folder under parentID (nil for the root).
func (m *Manager) MakeFolder(ctx context.Context, title string, parentID *string) (*domain.Folder, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	f := domain.NewFolder(domain.NewID(), title, parentID, nil)
	if err := m.store.SaveFolder(ctx, f, parentID); err != nil {
		return nil, m.storeError("make folder", err, logger.String("title", title))
	}
	m.converge(ctx)
	return f, nil
}

// UpdateFolder persists f's title and parent.
func (m *Manager) UpdateFolder(ctx context.Context, f *domain.Folder) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	err := m.store.UpdateFolder(ctx, f)
	m.converge(ctx)
	if err != nil {
		return m.storeError("update folder", err, logger.String("id", f.ID))
	}
	return nil
}

// UpdateFolderTitle renames the folder id.
func (m *Manager) UpdateFolderTitle(ctx context.Context, id, title string) error {
	f, ok := m.GetFolder(id)
	if !ok {
		return fmt.Errorf("update folder title: %w: %s", domain.ErrNotFound, id)
	}
	return m.UpdateFolder(ctx, domain.NewFolder(f.ID, title, f.ParentFolderID, f.Children))
}

// RemoveFolder deletes f and everything below it.
func (m *Manager) RemoveFolder(ctx context.Context, f *domain.Folder) error {
	return m.RemoveObjects(ctx, []string{f.ID})
}

// RemoveObjects deletes the given bookmarks and folders. Bookmarks inside
// removed folders leave the list immediately.
func (m *Manager) RemoveObjects(ctx context.Context, ids []string) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	list := m.Snapshot()
	var removed []index.Removal
	drop := func(e domain.Entity) {
		if b, ok := e.(*domain.Bookmark); ok {
			if taken, ok := list.Take(b); ok {
				removed = append(removed, taken)
			}
		}
	}
	for _, id := range ids {
		e, ok := list.Entity(id)
		if !ok {
			continue
		}
		drop(e)
		if f, ok := e.(*domain.Folder); ok {
			f.Walk(drop)
		}
	}

	err := m.store.Remove(ctx, ids)
	if err != nil {
		for _, taken := range slices.Backward(removed) {
			list.Restore(taken)
		}
	}
	m.converge(ctx)

	if err != nil {
		return m.storeError("remove objects", err, logger.Strings("ids", ids))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Batch mutations
// ─────────────────────────────────────────────────────────────────

// Add appends ids to parentID (nil for the root).
func (m *Manager) Add(ctx context.Context, ids []string, parentID *string) error {
	return m.batch(ctx, "add", ids, func() error {
		return m.store.Add(ctx, ids, parentID)
	})
}

// UpdateObjects rewrites ids through transform.
func (m *Manager) UpdateObjects(ctx context.Context, ids []string, transform func(domain.Entity) domain.Entity) error {
	return m.batch(ctx, "update objects", ids, func() error {
		return m.store.UpdateObjects(ctx, ids, transform)
	})
}

// Move places ids at toIndex within parentID (nil for the root).
// store.EndIndex appends.
func (m *Manager) Move(ctx context.Context, ids []string, toIndex int, parentID *string) error {
	return m.batch(ctx, "move", ids, func() error {
		return m.store.Move(ctx, ids, toIndex, parentID)
	})
}

// MoveFavorites reorders favorites; toIndex is in display order.
func (m *Manager) MoveFavorites(ctx context.Context, ids []string, toIndex int) error {
	return m.batch(ctx, "move favorites", ids, func() error {
		return m.store.MoveFavorites(ctx, ids, toIndex)
	})
}

// ImportBookmarks hands t to the store and reloads.
func (m *Manager) ImportBookmarks(ctx context.Context, t domain.ImportTree) (domain.ImportResult, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	res, err := m.store.ImportBookmarks(ctx, t)
	m.converge(ctx)
	if err != nil {
		return domain.ImportResult{}, m.storeError("import bookmarks", err, logger.String("source", t.Source))
	}

	m.log.Info("bookmarks imported",
		logger.String("source", t.Source),
		logger.Int("successful", res.Successful),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("failed", res.Failed))
	return res, nil
}

func (m *Manager) batch(ctx context.Context, op string, ids []string, write func() error) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	err := write()
	m.converge(ctx)
	if err != nil {
		return m.storeError(op, err, logger.Strings("ids", ids))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────
// Errors
// ─────────────────────────────────────────────────────────────────

// storeError logs a failed store write and classifies it. Structural,
// duplicate and not-found errors keep their kind; anything else becomes
// a persistence failure.
func (m *Manager) storeError(op string, err error, fields ...logger.Field) error {
	fields = append(fields, logger.String("op", op), logger.Error(err))

	switch {
	case domain.IsStructural(err):
		m.log.Warn("structural violation", fields...)
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, domain.ErrDuplicateURL), errors.Is(err, domain.ErrNotFound):
		m.log.Warn("store refused write", fields...)
		return fmt.Errorf("%s: %w", op, err)
	}

	m.log.Error("store write failed", fields...)
	return domain.PersistenceError(op, err)
}

// singleResult is storeError for single-entity operations, which recover
// duplicates and missing entities locally.
func (m *Manager) singleResult(op string, err error, fields ...logger.Field) error {
	if err == nil {
		return nil
	}
	if err = m.storeError(op, err, fields...); recovered(err) {
		return nil
	}
	return err
}

func recovered(err error) bool {
	return errors.Is(err, domain.ErrDuplicateURL) || errors.Is(err, domain.ErrNotFound)
}

// insertBookmark prepends b and, for a favorite, puts it first in favorites.
func insertBookmark(list *index.BookmarkList, b *domain.Bookmark) bool {
	plain := b.Clone()
	plain.IsFavorite = false
	if !list.Insert(plain) {
		return false
	}
	if b.IsFavorite {
		list.Update(b)
	}
	return true
}

func bookmarksOf(entities []domain.Entity) []*domain.Bookmark {
	out := make([]*domain.Bookmark, 0, len(entities))
	for _, e := range entities {
		if b, ok := e.(*domain.Bookmark); ok {
			out = append(out, b)
		}
	}
	return out
}
