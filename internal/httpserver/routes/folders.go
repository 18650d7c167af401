package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/handlers"
)

func init() { Register(registerFolders) }

func registerFolders(r chi.Router, d deps.Deps) {
	w := writes(r, d)
	w.Post("/api/folders", handlers.CreateFolder(d))
	w.Patch("/api/folders/{id}", handlers.PatchFolder(d))
	w.Delete("/api/folders/{id}", handlers.DeleteFolder(d))
}
