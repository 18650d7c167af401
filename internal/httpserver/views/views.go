// Package views keeps one tree controller per rendered view so node ids
// stay stable between requests, and turns node trees into JSON.
package views

import (
	"fmt"
	"slices"
	"sync"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/tree"
)

// View names accepted by Render.
const (
	List    = "list"
	Sidebar = "sidebar"
	Menu    = "menu"
)

type sortableSource interface {
	tree.DataSource
	SortMode() domain.SortMode
	SetSortMode(domain.SortMode)
}

type view struct {
	mu   sync.Mutex
	ds   sortableSource
	ctrl *tree.Controller
}

// Views owns the list, sidebar, menu and search controllers.
type Views struct {
	provider tree.ListProvider
	locale   string
	byName   map[string]*view

	searchMu sync.Mutex
	search   *tree.Controller
}

// Response is a rendered view.
type Response struct {
	View    string `json:"view"`
	Sort    string `json:"sort,omitempty"`
	Changed bool   `json:"changed"`
	Nodes   []Node `json:"nodes"`
}

// Node is the JSON form of a tree node.
type Node struct {
	UniqueID   uint64 `json:"unique_id"`
	Kind       string `json:"kind"`
	ID         string `json:"id,omitempty"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
	IsFavorite bool   `json:"is_favorite,omitempty"`
	Count      *int   `json:"count,omitempty"`
	FolderID   string `json:"folder_id,omitempty"`
	Expandable bool   `json:"expandable"`
	Children   []Node `json:"children,omitempty"`
}

// New builds the views over provider. locale drives name sorting.
func New(provider tree.ListProvider, locale string) *Views {
	manual := domain.ManualSort{}
	newView := func(ds sortableSource, policy tree.Policy) *view {
		return &view{ds: ds, ctrl: tree.NewController(ds, policy)}
	}
	return &Views{
		provider: provider,
		locale:   locale,
		byName: map[string]*view{
			List:    newView(tree.NewListDataSource(provider, manual), tree.Recursive),
			Sidebar: newView(tree.NewSidebarDataSource(provider, manual), tree.Recursive),
			Menu:    newView(tree.NewMenuDataSource(provider, manual), tree.Flat),
		},
		search: tree.NewController(tree.NewListDataSource(provider, manual), tree.Recursive),
	}
}

// Names lists the supported view names.
func Names() []string { return []string{List, Sidebar, Menu} }

// Render rebuilds the named view with the given sort and renders it.
// For the menu view, folderID selects the submenu to open; empty means
// the top level.
func (vs *Views) Render(name, sort, folderID string) (Response, error) {
	v, ok := vs.byName[name]
	if !ok {
		return Response{}, fmt.Errorf("unknown view %q", name)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	mode := domain.ParseSortMode(sort, vs.locale)
	v.ds.SetSortMode(mode)
	changed := v.ctrl.Rebuild()
	resp := Response{View: name, Sort: mode.Name()}

	if name != Menu || folderID == "" {
		resp.Changed = changed
		resp.Nodes = renderChildren(v.ctrl.Root())
		return resp, nil
	}

	node, opened, err := vs.openSubmenu(v.ctrl, folderID)
	if err != nil {
		return Response{}, err
	}
	resp.Changed = changed || opened
	resp.Nodes = renderChildren(node)
	return resp, nil
}

// openSubmenu reconciles every menu level from the top down to folderID,
// the way a user opens nested submenus.
func (vs *Views) openSubmenu(ctrl *tree.Controller, folderID string) (*tree.Node, bool, error) {
	list := vs.provider.Snapshot()
	var chain []string
	for id := folderID; ; {
		f, ok := list.Folder(id)
		if !ok {
			return nil, false, fmt.Errorf("menu folder %s: %w", id, domain.ErrNotFound)
		}
		chain = append(chain, f.ID)
		if f.ParentFolderID == nil {
			break
		}
		id = *f.ParentFolderID
	}
	slices.Reverse(chain)

	changed := false
	var node *tree.Node
	for _, id := range chain {
		if node = ctrl.NodeForEntityID(id); node == nil {
			return nil, false, fmt.Errorf("menu folder %s: %w", id, domain.ErrNotFound)
		}
		if ctrl.ReconcileChildren(node) {
			changed = true
		}
	}
	return node, changed, nil
}

// Search replaces the search tree with results and renders it.
func (vs *Views) Search(results []domain.Entity) Response {
	vs.searchMu.Lock()
	defer vs.searchMu.Unlock()

	vs.search.RebuildForSearch(results)
	return Response{View: "search", Changed: true, Nodes: renderChildren(vs.search.Root())}
}

func renderChildren(n *tree.Node) []Node {
	children := n.Children()
	out := make([]Node, 0, len(children))
	for _, c := range children {
		out = append(out, render(c))
	}
	return out
}

func render(n *tree.Node) Node {
	out := Node{UniqueID: n.UniqueID(), Expandable: n.CanHaveChildNodes()}

	switch o := n.Object().(type) {
	case tree.EntityObject:
		switch e := o.Entity.(type) {
		case *domain.Bookmark:
			out.Kind = string(domain.KindBookmark)
			out.ID, out.Title, out.URL, out.IsFavorite = e.ID, e.Title, e.URL, e.IsFavorite
		case *domain.Folder:
			count := e.TotalChildBookmarkCount()
			out.Kind = string(domain.KindFolder)
			out.ID, out.Title, out.Count = e.ID, e.Title, &count
		}
	case *tree.PseudoFolder:
		count := o.Count
		out.Kind = "pseudo_folder"
		out.ID, out.Title, out.Count = o.ID, o.Title, &count
	case tree.Marker:
		out.Kind = o.Kind.String()
		out.FolderID = o.FolderID
	}

	if n.NumChildren() > 0 {
		out.Children = renderChildren(n)
	}
	return out
}
