package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/manager"
	"github.com/MrSnakeDoc/shelf/internal/sources"
	"github.com/MrSnakeDoc/shelf/internal/store"
	"github.com/MrSnakeDoc/shelf/internal/store/memory"
)

const bookmarksYAML = `
- Developer:
    - Github:
        - abbr: GH
          href: https://github.com/
    - Go:
        - abbr: GO
          href: https://go.dev/
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bookmarks.yaml")
	if err := os.WriteFile(path, []byte(bookmarksYAML), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestSeedImporterRun(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	path := writeFixture(t)

	tests := []struct {
		name      string
		file      string
		seed      bool
		wantAdded int
	}{
		{"empty store imports", path, false, 2},
		{"non-empty store skips", path, true, 0},
		{"no file configured", "", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := store.NewPersistent(memory.New(), log)
			m := manager.New(ps, log)
			if tt.seed {
				if _, err := m.MakeBookmark(ctx, "https://existing.example", "existing", false, nil); err != nil {
					t.Fatalf("MakeBookmark() error = %v", err)
				}
			}

			si := NewSeedImporter(ps, m, log, tt.file, sources.FormatHomepage)
			res, err := si.Run(ctx)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if res.Successful != tt.wantAdded {
				t.Errorf("Successful = %d, want %d", res.Successful, tt.wantAdded)
			}
		})
	}
}

func TestSeedImporterBadFormat(t *testing.T) {
	log := logger.NewNop()
	ps := store.NewPersistent(memory.New(), log)
	m := manager.New(ps, log)

	si := NewSeedImporter(ps, m, log, writeFixture(t), "netscape")
	if _, err := si.Run(context.Background()); err == nil {
		t.Error("Run() with unknown format should return error")
	}
}
