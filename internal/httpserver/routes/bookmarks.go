package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Get("/api/bookmarks", handlers.ListBookmarks(d))
	r.Get("/api/favorites", handlers.ListFavorites(d))

	w := writes(r, d)
	w.Post("/api/bookmarks", handlers.CreateBookmark(d))
	w.Patch("/api/bookmarks/{id}", handlers.PatchBookmark(d))
	w.Delete("/api/bookmarks/{id}", handlers.DeleteBookmark(d))
}
