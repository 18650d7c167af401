package domain

import (
	"errors"
	"testing"
)

func TestNewFolderCountsBookmarksRecursively(t *testing.T) {
	inner := NewFolder("inner", "Inner", StringPtr("outer"), []Entity{
		&Bookmark{ID: "b2", URL: "https://b2"},
		&Bookmark{ID: "b3", URL: "https://b3"},
	})
	outer := NewFolder("outer", "Outer", nil, []Entity{
		&Bookmark{ID: "b1", URL: "https://b1"},
		inner,
		NewFolder("empty", "Empty", StringPtr("outer"), nil),
	})

	if got := outer.TotalChildBookmarkCount(); got != 3 {
		t.Errorf("TotalChildBookmarkCount() = %d, want 3", got)
	}
	if got := outer.ChildBookmarkCount(); got != 1 {
		t.Errorf("ChildBookmarkCount() = %d, want 1", got)
	}
	if got := len(outer.ChildFolders()); got != 2 {
		t.Errorf("ChildFolders() = %d, want 2", got)
	}
}

func TestBookmarkEqual(t *testing.T) {
	base := &Bookmark{ID: "1", Title: "A", URL: "https://a", ParentFolderID: StringPtr("f")}

	tests := []struct {
		name  string
		other Entity
		want  bool
	}{
		{"identical copy", base.Clone(), true},
		{"different title", &Bookmark{ID: "1", Title: "B", URL: "https://a", ParentFolderID: StringPtr("f")}, false},
		{"different url", base.WithURL("https://b"), false},
		{"different favorite", &Bookmark{ID: "1", Title: "A", URL: "https://a", IsFavorite: true, ParentFolderID: StringPtr("f")}, false},
		{"top-level vs nested", &Bookmark{ID: "1", Title: "A", URL: "https://a"}, false},
		{"folder with same id", NewFolder("1", "A", StringPtr("f"), nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFolderEqualComparesChildren(t *testing.T) {
	a := NewFolder("f", "F", nil, []Entity{&Bookmark{ID: "1", URL: "https://1"}})
	b := NewFolder("f", "F", nil, []Entity{&Bookmark{ID: "1", URL: "https://1"}})
	c := NewFolder("f", "F", nil, []Entity{&Bookmark{ID: "1", URL: "https://1", Title: "renamed"}})

	if !a.Equal(b) {
		t.Error("folders with equal children should be equal")
	}
	if a.Equal(c) {
		t.Error("folders with different children should differ")
	}
}

func TestBookmarkCloneIsIndependent(t *testing.T) {
	orig := &Bookmark{ID: "1", URL: "https://a", ParentFolderID: StringPtr("p")}
	c := orig.Clone()
	*c.ParentFolderID = "q"
	if *orig.ParentFolderID != "p" {
		t.Error("Clone() shares parent pointer with original")
	}
}

func TestRecordRoundTripPlacement(t *testing.T) {
	top := &Bookmark{ID: "1", Title: "A", URL: "https://a", IsFavorite: true}
	rec := BookmarkRecord(top, nil)
	if rec.ParentID != RootFolderID {
		t.Errorf("top-level record parent = %q, want %q", rec.ParentID, RootFolderID)
	}
	if rec.FavoritesContainer != FavoritesFolderID {
		t.Errorf("favorite record container = %q", rec.FavoritesContainer)
	}
	if back := BookmarkFromRecord(rec); !back.Equal(top) {
		t.Errorf("BookmarkFromRecord() = %+v, want %+v", back, top)
	}
}

func TestValidationErrorMatching(t *testing.T) {
	err := error(&ValidationError{Rule: RuleSelfParent, EntityID: "f", Err: ErrFolderIsOwnParent})

	if !errors.Is(err, ErrCycleDetected) {
		t.Error("self-parent error should match ErrCycleDetected")
	}
	if !IsStructural(err) {
		t.Error("validation error should be structural")
	}
	if errors.Is(err, ErrPersistence) {
		t.Error("validation error should not be a persistence failure")
	}
}
