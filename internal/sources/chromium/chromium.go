// Package chromium parses the "Bookmarks" JSON file of Chromium-based browsers.
package chromium

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// Source names imports coming from a Chromium profile
const Source = "chromium"

// rootOrder is the order browsers show their roots in
var rootOrder = []string{"bookmark_bar", "other", "synced"}

type bookmarksFile struct {
	Roots map[string]json.RawMessage `json:"roots"`
}

type chromiumNode struct {
	Type     string         `json:"type"`
	Name     string         `json:"name"`
	URL      string         `json:"url"`
	Children []chromiumNode `json:"children"`
}

// Load reads and parses a Bookmarks file
func Load(path string) (domain.ImportTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ImportTree{}, fmt.Errorf("failed to read chromium bookmarks: %w", err)
	}
	return Parse(data)
}

// Parse turns every non-empty root into a folder, keeping nested folders
// and their order. Roots that are not folders are skipped.
func Parse(data []byte) (domain.ImportTree, error) {
	var file bookmarksFile
	if err := json.Unmarshal(data, &file); err != nil {
		return domain.ImportTree{}, fmt.Errorf("failed to parse chromium bookmarks: %w", err)
	}
	if len(file.Roots) == 0 {
		return domain.ImportTree{}, fmt.Errorf("chromium bookmarks have no roots")
	}

	tree := domain.ImportTree{Source: Source}
	for _, key := range orderedRoots(file.Roots) {
		var root chromiumNode
		if err := json.Unmarshal(file.Roots[key], &root); err != nil || root.Type != "folder" {
			continue
		}
		if node, ok := convert(root); ok {
			tree.Nodes = append(tree.Nodes, node)
		}
	}

	return tree, nil
}

func orderedRoots(roots map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(roots))
	for _, k := range rootOrder {
		if _, ok := roots[k]; ok {
			keys = append(keys, k)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(roots)) {
		if !slices.Contains(rootOrder, k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// convert maps a node, dropping empty folders and urls without address.
func convert(n chromiumNode) (domain.ImportNode, bool) {
	switch n.Type {
	case "url":
		if n.URL == "" {
			return domain.ImportNode{}, false
		}
		return domain.ImportNode{Title: n.Name, URL: n.URL}, true
	case "folder":
		folder := domain.ImportNode{Title: n.Name}
		for _, child := range n.Children {
			if c, ok := convert(child); ok {
				folder.Children = append(folder.Children, c)
			}
		}
		return folder, len(folder.Children) > 0
	}
	return domain.ImportNode{}, false
}
