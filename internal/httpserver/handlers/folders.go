package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/store"
)

type createFolderRequest struct {
	Title    string  `json:"title"`
	ParentID *string `json:"parent_id"`
}

// CreateFolder handles POST /api/folders.
func CreateFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFolderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		title := strings.TrimSpace(req.Title)
		if title == "" {
			badRequest(w, "folder title is required")
			return
		}

		f, err := d.Manager.MakeFolder(r.Context(), title, parentRef(req.ParentID))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, toFolderJSON(f))
	}
}

type patchFolderRequest struct {
	Title    *string `json:"title"`
	ParentID *string `json:"parent_id"`
}

// PatchFolder handles PATCH /api/folders/{id}. A parent change appends
// the folder to its new parent.
func PatchFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if _, ok := d.Manager.GetFolder(id); !ok {
			notFound(w, "folder", id)
			return
		}

		var req patchFolderRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if req.Title != nil {
			if err := d.Manager.UpdateFolderTitle(r.Context(), id, *req.Title); err != nil {
				writeError(w, d.Logger, err)
				return
			}
		}
		if req.ParentID != nil {
			if err := d.Manager.Move(r.Context(), []string{id}, store.EndIndex, parentRef(req.ParentID)); err != nil {
				writeError(w, d.Logger, err)
				return
			}
		}

		f, ok := d.Manager.GetFolder(id)
		if !ok {
			notFound(w, "folder", id)
			return
		}
		writeJSON(w, http.StatusOK, toFolderJSON(f))
	}
}

// DeleteFolder handles DELETE /api/folders/{id}.
func DeleteFolder(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		f, ok := d.Manager.GetFolder(id)
		if !ok {
			notFound(w, "folder", id)
			return
		}
		if err := d.Manager.RemoveFolder(r.Context(), f); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
