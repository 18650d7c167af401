package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/views"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// Tree handles GET /api/tree?view=&sort=&folder=.
func Tree(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		view := q.Get("view")
		if view == "" {
			view = views.List
		}
		if !slices.Contains(views.Names(), view) {
			badRequest(w, "unknown view "+view)
			return
		}

		resp, err := d.Views.Render(view, q.Get("sort"), q.Get("folder"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, d.Logger, err)
				return
			}
			badRequest(w, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Search handles GET /api/search?q=.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			badRequest(w, "query parameter q is required")
			return
		}

		results := d.Manager.Search(query, d.SearchLimit)
		d.Logger.Debug("search request",
			logger.String("query", query),
			logger.Int("results", len(results)))

		writeJSON(w, http.StatusOK, d.Views.Search(results))
	}
}
