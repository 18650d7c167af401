package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// maxBodyBytes bounds JSON bodies; imports get importBodyBytes.
const (
	maxBodyBytes    = 1 << 20
	importBodyBytes = 16 << 20
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps the error taxonomy onto HTTP statuses.
func statusFor(err error) (int, string) {
	switch {
	case domain.IsStructural(err):
		return http.StatusUnprocessableEntity, "structural"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrDuplicateURL):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusServiceUnavailable, "persistence"
	}
	return http.StatusInternalServerError, ""
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status, kind := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", logger.Error(err))
	} else {
		log.Debug("request rejected", logger.Int("status", status), logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func notFound(w http.ResponseWriter, what, id string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("%s %s not found", what, id), Kind: "not_found"})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		badRequest(w, "invalid json body: "+err.Error())
		return false
	}
	return true
}

// parentRef maps the API's parent id, where "" means the root, to the
// manager's nil-for-root form.
func parentRef(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return domain.StringPtr(*id)
}

// bookmarkJSON is the API form of a bookmark.
type bookmarkJSON struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	IsFavorite bool   `json:"is_favorite"`
	ParentID   string `json:"parent_id,omitempty"`
}

func toBookmarkJSON(b *domain.Bookmark) bookmarkJSON {
	return bookmarkJSON{
		ID:         b.ID,
		Title:      b.Title,
		URL:        b.URL,
		IsFavorite: b.IsFavorite,
		ParentID:   domain.Deref(b.ParentFolderID),
	}
}

func toBookmarksJSON(bookmarks []*domain.Bookmark) []bookmarkJSON {
	out := make([]bookmarkJSON, 0, len(bookmarks))
	for _, b := range bookmarks {
		out = append(out, toBookmarkJSON(b))
	}
	return out
}

type folderJSON struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ParentID      string `json:"parent_id,omitempty"`
	BookmarkCount int    `json:"bookmark_count"`
}

func toFolderJSON(f *domain.Folder) folderJSON {
	return folderJSON{
		ID:            f.ID,
		Title:         f.Title,
		ParentID:      domain.Deref(f.ParentFolderID),
		BookmarkCount: f.TotalChildBookmarkCount(),
	}
}
