package validator

import "github.com/MrSnakeDoc/shelf/internal/domain"

// EntityGraph adapts a loaded entity hierarchy to Graph.
type EntityGraph struct {
	records  map[string]domain.Record
	children map[string][]string
}

// FromEntities indexes the hierarchy rooted at topLevel.
func FromEntities(topLevel []domain.Entity) *EntityGraph {
	g := &EntityGraph{
		records:  make(map[string]domain.Record),
		children: make(map[string][]string),
	}
	for _, e := range topLevel {
		g.add(e, nil)
	}
	return g
}

func (g *EntityGraph) add(e domain.Entity, parentID *string) {
	switch v := e.(type) {
	case *domain.Bookmark:
		rec := domain.BookmarkRecord(v, parentID)
		g.records[v.ID] = rec
		g.children[rec.ParentID] = append(g.children[rec.ParentID], v.ID)
	case *domain.Folder:
		rec := domain.FolderRecord(v, parentID)
		g.records[v.ID] = rec
		g.children[rec.ParentID] = append(g.children[rec.ParentID], v.ID)
		id := v.ID
		for _, child := range v.Children {
			g.add(child, &id)
		}
	}
}

func (g *EntityGraph) Record(id string) (domain.Record, bool) {
	rec, ok := g.records[id]
	return rec, ok
}

func (g *EntityGraph) ChildIDs(id string) []string {
	return g.children[id]
}

// Contains reports whether id is part of the hierarchy.
func (g *EntityGraph) Contains(id string) bool {
	_, ok := g.records[id]
	return ok
}

// IsDescendant reports whether id lies below ancestorID.
func (g *EntityGraph) IsDescendant(id, ancestorID string) bool {
	seen := make(map[string]bool)
	for p := g.records[id].ParentID; p != "" && !domain.IsSingleton(p) && !seen[p]; p = g.records[p].ParentID {
		if p == ancestorID {
			return true
		}
		seen[p] = true
	}
	return false
}
