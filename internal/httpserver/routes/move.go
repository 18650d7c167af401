package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
)

func init() { Register(registerMove) }

func registerMove(r chi.Router, d deps.Deps) {
	// Checks are read-only.
	r.Post("/api/move/check", handlers.CheckMove(d))
	r.Post("/api/drop", handlers.Drop(d))

	w := writes(r, d)
	w.Post("/api/move", handlers.Move(d))
	w.Post("/api/favorites/move", handlers.MoveFavorites(d))
}
