package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/manager"
	"github.com/MrSnakeDoc/shelf/internal/store"
	"github.com/MrSnakeDoc/shelf/internal/tree"
)

type moveRequest struct {
	IDs      []string `json:"ids"`
	ToIndex  *int     `json:"to_index"` // omitted means append
	ParentID *string  `json:"parent_id"`
}

func (m moveRequest) index() int {
	if m.ToIndex == nil {
		return store.EndIndex
	}
	return *m.ToIndex
}

// Move handles POST /api/move.
func Move(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.IDs) == 0 {
			badRequest(w, "ids are required")
			return
		}
		if err := d.Manager.Move(r.Context(), req.IDs, req.index(), parentRef(req.ParentID)); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type moveFavoritesRequest struct {
	IDs     []string `json:"ids"`
	ToIndex *int     `json:"to_index"`
}

// MoveFavorites handles POST /api/favorites/move. to_index counts in the
// displayed order.
func MoveFavorites(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveFavoritesRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.IDs) == 0 {
			badRequest(w, "ids are required")
			return
		}
		to := store.EndIndex
		if req.ToIndex != nil {
			to = *req.ToIndex
		}
		if err := d.Manager.MoveFavorites(r.Context(), req.IDs, to); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type checkMoveRequest struct {
	ID       string `json:"id"`
	FolderID string `json:"folder_id"` // empty means the root
}

type checkMoveResponse struct {
	Allowed bool `json:"allowed"`
}

// CheckMove handles POST /api/move/check.
func CheckMove(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkMoveRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		var dest *domain.Folder
		if req.FolderID != "" {
			f, ok := d.Manager.GetFolder(req.FolderID)
			if !ok {
				writeJSON(w, http.StatusOK, checkMoveResponse{Allowed: false})
				return
			}
			dest = f
		}
		writeJSON(w, http.StatusOK, checkMoveResponse{Allowed: d.Manager.CanMoveObject(req.ID, dest)})
	}
}

type dropRequest struct {
	Payload     manager.DropPayload `json:"payload"`
	Destination string              `json:"destination"` // folder, bookmark or pseudo-folder id
}

type dropResponse struct {
	Operation string `json:"operation"`
}

// Drop handles POST /api/drop and reports what dropping the payload onto
// the destination would do.
func Drop(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dropRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		op := manager.DropNone
		if dest, ok := dropDestination(d.Manager, req.Destination); ok {
			op = d.Manager.ValidateDrop(req.Payload, dest)
		}
		writeJSON(w, http.StatusOK, dropResponse{Operation: op.String()})
	}
}

func dropDestination(m *manager.Manager, id string) (tree.Object, bool) {
	switch id {
	case tree.AllBookmarksID, tree.FavoritesID:
		return tree.NewPseudoFolder(id, ""), true
	}
	if e, ok := m.GetEntity(id); ok {
		return tree.EntityObject{Entity: e}, true
	}
	return nil, false
}
