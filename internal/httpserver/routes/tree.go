package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
)

func init() { Register(registerTree) }

func registerTree(r chi.Router, d deps.Deps) {
	r.Get("/api/tree", handlers.Tree(d))
	r.Get("/api/search", handlers.Search(d))
}
