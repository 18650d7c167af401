package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// ListBookmarks returns every bookmark, newest first.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toBookmarksJSON(d.Manager.Snapshot().Bookmarks()))
	}
}

// ListFavorites returns favorites, most recently favorited first.
func ListFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toBookmarksJSON(d.Manager.Snapshot().FavoriteBookmarks()))
	}
}

type createBookmarkRequest struct {
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	IsFavorite bool    `json:"is_favorite"`
	ParentID   *string `json:"parent_id"`
}

// CreateBookmark handles POST /api/bookmarks.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookmarkRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		url := strings.TrimSpace(req.URL)
		if d.Manager.IsURLBookmarked(url) {
			writeError(w, d.Logger, domain.ErrDuplicateURL)
			return
		}
		title := req.Title
		if title == "" {
			title = url
		}

		b, err := d.Manager.MakeBookmark(r.Context(), url, title, req.IsFavorite, parentRef(req.ParentID))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if b == nil {
			// Lost a race with a concurrent insert of the same URL.
			writeError(w, d.Logger, domain.ErrDuplicateURL)
			return
		}

		d.Logger.Info("bookmark created", logger.String("id", b.ID), logger.String("url", b.URL))
		writeJSON(w, http.StatusCreated, toBookmarkJSON(b))
	}
}

type patchBookmarkRequest struct {
	Title      *string `json:"title"`
	URL        *string `json:"url"`
	IsFavorite *bool   `json:"is_favorite"`
	ParentID   *string `json:"parent_id"`
}

// PatchBookmark handles PATCH /api/bookmarks/{id}. A URL change goes
// through UpdateURL, the other fields through Update. Each is its own
// store write, so a URL change must be sent alone.
func PatchBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		b, ok := d.Manager.Snapshot().BookmarkByID(id)
		if !ok {
			notFound(w, "bookmark", id)
			return
		}

		var req patchBookmarkRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if req.URL != nil && strings.TrimSpace(*req.URL) != b.URL {
			if req.Title != nil || req.IsFavorite != nil || req.ParentID != nil {
				badRequest(w, "url cannot be changed together with other fields")
				return
			}
			newURL := strings.TrimSpace(*req.URL)
			if d.Manager.IsURLBookmarked(newURL) {
				writeError(w, d.Logger, domain.ErrDuplicateURL)
				return
			}
			updated, err := d.Manager.UpdateURL(r.Context(), b, newURL)
			if err != nil {
				writeError(w, d.Logger, err)
				return
			}
			if updated == nil {
				writeError(w, d.Logger, domain.ErrDuplicateURL)
				return
			}
			writeJSON(w, http.StatusOK, toBookmarkJSON(updated))
			return
		}

		next := b.Clone()
		if req.Title != nil {
			next.Title = *req.Title
		}
		if req.IsFavorite != nil {
			next.IsFavorite = *req.IsFavorite
		}
		if req.ParentID != nil {
			next.ParentFolderID = parentRef(req.ParentID)
		}
		if !next.Equal(b) {
			if err := d.Manager.Update(r.Context(), next); err != nil {
				writeError(w, d.Logger, err)
				return
			}
		}

		writeJSON(w, http.StatusOK, toBookmarkJSON(next))
	}
}

// DeleteBookmark handles DELETE /api/bookmarks/{id}.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		b, ok := d.Manager.Snapshot().BookmarkByID(id)
		if !ok {
			notFound(w, "bookmark", id)
			return
		}
		if err := d.Manager.Remove(r.Context(), b); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
