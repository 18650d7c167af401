package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
)

// Registrar mounts a group of routes.
type Registrar func(r chi.Router, d deps.Deps)

var registry []Registrar

// Register adds a registrar; each route file calls it from init.
func Register(reg Registrar) {
	registry = append(registry, reg)
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, reg := range registry {
		reg(r, d)
	}
}

// writes returns r wrapped with the shared write limiter, if any.
// Every mutating route is mounted through it.
func writes(r chi.Router, d deps.Deps) chi.Router {
	if d.WriteLimiter == nil {
		return r
	}
	return r.With(d.WriteLimiter)
}
