package manager

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/index"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/store"
	"github.com/MrSnakeDoc/shelf/internal/store/memory"
)

var errBackend = errors.New("backend down")

// flakyStore fails writes while failWrites is set and records what the
// manager's list looked like when each write was issued.
type flakyStore struct {
	*store.Persistent
	m          *Manager
	failWrites bool
	failLoads  bool
	seenURLs   [][]string
}

func (s *flakyStore) LoadAll(ctx context.Context, scope store.Scope) ([]domain.Entity, error) {
	if s.failLoads {
		return nil, errBackend
	}
	return s.Persistent.LoadAll(ctx, scope)
}

func (s *flakyStore) observe() error {
	if s.m != nil {
		var urls []string
		for _, b := range s.m.Snapshot().Bookmarks() {
			urls = append(urls, b.URL)
		}
		s.seenURLs = append(s.seenURLs, urls)
	}
	if s.failWrites {
		return errBackend
	}
	return nil
}

func (s *flakyStore) SaveBookmark(ctx context.Context, b *domain.Bookmark, parentID *string) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.Persistent.SaveBookmark(ctx, b, parentID)
}

func (s *flakyStore) UpdateBookmark(ctx context.Context, b *domain.Bookmark) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.Persistent.UpdateBookmark(ctx, b)
}

func (s *flakyStore) Remove(ctx context.Context, ids []string) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.Persistent.Remove(ctx, ids)
}

func (s *flakyStore) Move(ctx context.Context, ids []string, toIndex int, parentID *string) error {
	if err := s.observe(); err != nil {
		return err
	}
	return s.Persistent.Move(ctx, ids, toIndex, parentID)
}

func newManager(t *testing.T) (*Manager, *flakyStore) {
	t.Helper()
	fs := &flakyStore{Persistent: store.NewPersistent(memory.New(), logger.NewNop())}
	m := New(fs, logger.NewNop())
	fs.m = m
	if err := m.LoadBookmarks(context.Background()); err != nil {
		t.Fatalf("LoadBookmarks() error = %v", err)
	}
	return m, fs
}

func mustMake(t *testing.T, m *Manager, url string, favorite bool, parent *string) *domain.Bookmark {
	t.Helper()
	b, err := m.MakeBookmark(context.Background(), url, url, favorite, parent)
	if err != nil || b == nil {
		t.Fatalf("MakeBookmark(%s) = %v, %v", url, b, err)
	}
	return b
}

func mustFolder(t *testing.T, m *Manager, title string, parent *string) *domain.Folder {
	t.Helper()
	f, err := m.MakeFolder(context.Background(), title, parent)
	if err != nil {
		t.Fatalf("MakeFolder(%s) error = %v", title, err)
	}
	return f
}

func urls(bookmarks []*domain.Bookmark) []string {
	out := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = b.URL
	}
	return out
}

func TestMakeBookmarkOrdersNewestFirst(t *testing.T) {
	m, _ := newManager(t)
	for _, u := range []string{"https://u1", "https://u2", "https://u3"} {
		mustMake(t, m, u, false, nil)
	}

	want := []string{"https://u3", "https://u2", "https://u1"}
	if got := urls(m.Snapshot().Bookmarks()); !slices.Equal(got, want) {
		t.Errorf("Bookmarks() = %v, want %v", got, want)
	}
}

func TestMakeBookmarkIsOptimistic(t *testing.T) {
	m, fs := newManager(t)
	mustMake(t, m, "https://a", false, nil)

	if len(fs.seenURLs) != 1 || !slices.Equal(fs.seenURLs[0], []string{"https://a"}) {
		t.Errorf("list at store call = %v, want the new bookmark already present", fs.seenURLs)
	}
}

func TestMakeBookmarkDuplicateIsNoop(t *testing.T) {
	m, fs := newManager(t)
	first := mustMake(t, m, "https://a", false, nil)

	b, err := m.MakeBookmark(context.Background(), "https://a", "again", false, nil)
	if err != nil || b != nil {
		t.Fatalf("duplicate MakeBookmark() = %v, %v; want nil, nil", b, err)
	}
	if len(fs.seenURLs) != 1 {
		t.Error("duplicate must not reach the store")
	}
	got, _ := m.GetBookmark("https://a")
	if got.ID != first.ID || got.Title != "https://a" {
		t.Error("existing bookmark must be kept")
	}
}

func TestMakeBookmarkRollsBackOnFailure(t *testing.T) {
	m, fs := newManager(t)
	mustMake(t, m, "https://keep", false, nil)

	var notified int
	cancel := m.Subscribe(func(*index.BookmarkList) { notified++ })
	defer cancel()

	fs.failWrites = true
	b, err := m.MakeBookmark(context.Background(), "https://lost", "lost", true, nil)
	if b != nil || !errors.Is(err, domain.ErrPersistence) || !errors.Is(err, errBackend) {
		t.Fatalf("MakeBookmark() = %v, %v; want a persistence error", b, err)
	}

	if m.IsURLBookmarked("https://lost") {
		t.Error("failed insert must be rolled back")
	}
	if got := urls(m.Snapshot().FavoriteBookmarks()); len(got) != 0 {
		t.Errorf("favorites = %v, want none", got)
	}
	if !m.IsURLBookmarked("https://keep") {
		t.Error("unrelated bookmark lost")
	}
	if notified != 1 {
		t.Errorf("subscribers notified %d times, want 1 reload", notified)
	}
}

func TestRemoveRollsBackOnFailure(t *testing.T) {
	m, fs := newManager(t)
	b := mustMake(t, m, "https://a", true, nil)

	fs.failWrites = true
	if err := m.Remove(context.Background(), b); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("Remove() error = %v, want persistence error", err)
	}
	if len(fs.seenURLs[len(fs.seenURLs)-1]) != 0 {
		t.Error("bookmark should be gone while the write is in flight")
	}
	if !m.IsURLBookmarked("https://a") {
		t.Error("failed remove must be rolled back")
	}
	if got := urls(m.Snapshot().FavoriteBookmarks()); !slices.Equal(got, []string{"https://a"}) {
		t.Errorf("favorites = %v, want [https://a]", got)
	}

	fs.failWrites = false
	if err := m.Remove(context.Background(), b); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if m.IsURLBookmarked("https://a") {
		t.Error("bookmark still present after remove")
	}
	if err := m.Remove(context.Background(), b); err != nil {
		t.Errorf("removing a missing bookmark should be a logged no-op, got %v", err)
	}
}

func TestRemoveRollbackKeepsPosition(t *testing.T) {
	m, fs := newManager(t)
	ctx := context.Background()
	mustMake(t, m, "https://a", true, nil)
	b := mustMake(t, m, "https://b", true, nil)
	mustMake(t, m, "https://c", true, nil)
	folder := mustFolder(t, m, "F", nil)
	mustMake(t, m, "https://d", false, &folder.ID)
	e := mustMake(t, m, "https://e", true, &folder.ID)

	wantAll := urls(m.Snapshot().Bookmarks())
	wantFavorites := urls(m.Snapshot().FavoriteBookmarks())

	// the converging reload fails too, so only the rollback restores order
	fs.failWrites, fs.failLoads = true, true
	if err := m.Remove(ctx, b); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("Remove() error = %v, want persistence error", err)
	}
	if err := m.RemoveObjects(ctx, []string{folder.ID, e.ID}); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("RemoveObjects() error = %v, want persistence error", err)
	}

	if got := urls(m.Snapshot().Bookmarks()); !slices.Equal(got, wantAll) {
		t.Errorf("Bookmarks() = %v, want %v", got, wantAll)
	}
	if got := urls(m.Snapshot().FavoriteBookmarks()); !slices.Equal(got, wantFavorites) {
		t.Errorf("FavoriteBookmarks() = %v, want %v", got, wantFavorites)
	}
}

func TestUpdateFavoriteFlag(t *testing.T) {
	m, _ := newManager(t)
	a := mustMake(t, m, "https://a", false, nil)
	b := mustMake(t, m, "https://b", false, nil)
	c := mustMake(t, m, "https://c", false, nil)

	for _, bm := range []*domain.Bookmark{a, b, c} {
		fav := bm.Clone()
		fav.IsFavorite = true
		if err := m.Update(context.Background(), fav); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}

	want := []string{"https://c", "https://b", "https://a"}
	if got := urls(m.Snapshot().FavoriteBookmarks()); !slices.Equal(got, want) {
		t.Errorf("FavoriteBookmarks() = %v, want %v", got, want)
	}
}

func TestUpdateURLRoundTrip(t *testing.T) {
	m, _ := newManager(t)
	mustMake(t, m, "https://other", false, nil)
	orig := mustMake(t, m, "https://a", true, nil)
	ctx := context.Background()

	moved, err := m.UpdateURL(ctx, orig, "https://b")
	if err != nil || moved == nil {
		t.Fatalf("UpdateURL() = %v, %v", moved, err)
	}
	if m.IsURLBookmarked("https://a") || !m.IsURLBookmarked("https://b") {
		t.Fatal("url was not moved")
	}

	if r, err := m.UpdateURL(ctx, moved, "https://other"); r != nil || err != nil {
		t.Errorf("UpdateURL() onto a taken url = %v, %v; want nil, nil", r, err)
	}

	back, err := m.UpdateURL(ctx, moved, "https://a")
	if err != nil || back == nil {
		t.Fatalf("UpdateURL() back = %v, %v", back, err)
	}
	got, _ := m.GetBookmark("https://a")
	if !got.Equal(orig) {
		t.Errorf("round trip = %+v, want %+v", got, orig)
	}
	if all := urls(m.Snapshot().Bookmarks()); !slices.Equal(all, []string{"https://a", "https://other"}) {
		t.Errorf("Bookmarks() = %v, position not preserved", all)
	}
}

func TestUpdateURLRollsBackOnFailure(t *testing.T) {
	m, fs := newManager(t)
	orig := mustMake(t, m, "https://a", false, nil)

	fs.failWrites = true
	if _, err := m.UpdateURL(context.Background(), orig, "https://b"); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("UpdateURL() error = %v", err)
	}
	if !m.IsURLBookmarked("https://a") || m.IsURLBookmarked("https://b") {
		t.Error("failed url change must be rolled back")
	}
}

func TestCycleRejectionLeavesStoreUntouched(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	f2 := mustFolder(t, m, "F2", nil)
	f1 := mustFolder(t, m, "F1", &f2.ID)

	before, _ := m.GetFolder(f2.ID)
	err := m.Move(ctx, []string{f2.ID}, store.EndIndex, &f1.ID)
	if !errors.Is(err, domain.ErrCycleDetected) || !domain.IsStructural(err) {
		t.Fatalf("Move() error = %v, want ErrCycleDetected", err)
	}
	if errors.Is(err, domain.ErrPersistence) {
		t.Error("structural errors are not persistence failures")
	}

	after, _ := m.GetFolder(f2.ID)
	if !after.Equal(before) {
		t.Error("rejected move changed the hierarchy")
	}
}

func TestFavoritesContainerOwnsNothing(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	b := mustMake(t, m, "https://a", false, nil)
	favorites := domain.FavoritesFolderID

	tests := []struct {
		name string
		run  func() error
	}{
		{"move bookmark", func() error { return m.Move(ctx, []string{b.ID}, store.EndIndex, &favorites) }},
		{"add bookmark", func() error { return m.Add(ctx, []string{b.ID}, &favorites) }},
		{"make folder", func() error {
			_, err := m.MakeFolder(ctx, "x", &favorites)
			return err
		}},
		{"make bookmark", func() error {
			_, err := m.MakeBookmark(ctx, "https://new", "new", false, &favorites)
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, domain.ErrMustExistInsideRoot) {
				t.Fatalf("error = %v, want ErrMustExistInsideRoot", err)
			}

			top := m.Snapshot().TopLevelEntities()
			if len(top) != 1 || top[0].EntityID() != b.ID {
				t.Errorf("top level = %v, want only the original bookmark", top)
			}
			if _, ok := m.GetEntity(b.ID); !ok {
				t.Error("bookmark dropped out of the hierarchy")
			}
			if m.IsURLBookmarked("https://new") {
				t.Error("rejected bookmark left in the list")
			}
		})
	}
}

func TestMoveAndFolderOperations(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()
	work := mustFolder(t, m, "Work", nil)
	a := mustMake(t, m, "https://a", false, nil)
	b := mustMake(t, m, "https://b", false, nil)

	if err := m.Add(ctx, []string{a.ID, b.ID}, &work.ID); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := m.Move(ctx, []string{b.ID}, 0, &work.ID); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	f, _ := m.GetFolder(work.ID)
	if len(f.Children) != 2 || f.Children[0].EntityID() != b.ID {
		t.Fatalf("work children = %v, want b first", f.Children)
	}

	if err := m.UpdateFolderTitle(ctx, work.ID, "Job"); err != nil {
		t.Fatalf("UpdateFolderTitle() error = %v", err)
	}
	if f, _ := m.GetFolder(work.ID); f.Title != "Job" || f.TotalChildBookmarkCount() != 2 {
		t.Errorf("folder = %q with %d bookmarks", f.Title, f.TotalChildBookmarkCount())
	}

	if err := m.RemoveFolder(ctx, f); err != nil {
		t.Fatalf("RemoveFolder() error = %v", err)
	}
	if m.Snapshot().Count() != 0 || len(m.Snapshot().TopLevelEntities()) != 0 {
		t.Error("folder removal should drop its bookmarks")
	}

	err := m.Move(ctx, []string{"missing"}, 0, nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Move(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRemoveObjectsRollsBackOnFailure(t *testing.T) {
	m, fs := newManager(t)
	work := mustFolder(t, m, "Work", nil)
	mustMake(t, m, "https://a", false, &work.ID)

	fs.failWrites = true
	if err := m.RemoveObjects(context.Background(), []string{work.ID}); !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("RemoveObjects() error = %v", err)
	}
	if len(fs.seenURLs[len(fs.seenURLs)-1]) != 0 {
		t.Error("nested bookmarks should leave the list optimistically")
	}
	if !m.IsURLBookmarked("https://a") {
		t.Error("failed removal must be rolled back")
	}
}

func TestMoveFavoritesAndImport(t *testing.T) {
	m, _ := newManager(t)
	ctx := context.Background()

	res, err := m.ImportBookmarks(ctx, domain.ImportTree{
		Source: "test",
		Nodes: []domain.ImportNode{
			{Title: "A", URL: "https://a", IsFavorite: true},
			{Title: "B", URL: "https://b", IsFavorite: true},
			{Title: "Dir", Children: []domain.ImportNode{{Title: "C", URL: "https://c"}}},
		},
	})
	if err != nil || res.Successful != 3 {
		t.Fatalf("ImportBookmarks() = %s, %v", res, err)
	}
	if got := urls(m.Snapshot().FavoriteBookmarks()); !slices.Equal(got, []string{"https://b", "https://a"}) {
		t.Fatalf("favorites = %v, want [b a]", got)
	}

	a, _ := m.GetBookmark("https://a")
	if err := m.MoveFavorites(ctx, []string{a.ID}, 0); err != nil {
		t.Fatalf("MoveFavorites() error = %v", err)
	}
	if got := urls(m.Snapshot().FavoriteBookmarks()); !slices.Equal(got, []string{"https://a", "https://b"}) {
		t.Errorf("favorites = %v, want [a b]", got)
	}

	results := m.Search("dir", 10)
	if len(results) == 0 || results[0].EntityTitle() != "Dir" {
		t.Errorf("Search(dir) = %v, want the Dir folder first", results)
	}
}

func TestSubscribeCancel(t *testing.T) {
	m, _ := newManager(t)
	var calls int
	cancel := m.Subscribe(func(*index.BookmarkList) { calls++ })

	_ = m.LoadBookmarks(context.Background())
	cancel()
	_ = m.LoadBookmarks(context.Background())

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestLastReload(t *testing.T) {
	ps := store.NewPersistent(memory.New(), logger.NewNop())
	m := New(ps, logger.NewNop())

	if !m.LastReload().IsZero() {
		t.Fatal("LastReload() before any load should be zero")
	}
	if err := m.LoadBookmarks(context.Background()); err != nil {
		t.Fatalf("LoadBookmarks() error = %v", err)
	}
	if m.LastReload().IsZero() {
		t.Error("LastReload() after a load should be set")
	}
}
