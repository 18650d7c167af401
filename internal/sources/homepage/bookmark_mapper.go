package homepage

import (
	"fmt"
	"maps"
	"slices"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// SourceBookmarks names imports coming from bookmarks.yaml
const SourceBookmarks = "homepage"

// BookmarkMapper converts Homepage bookmark config to an import tree
type BookmarkMapper struct{}

// NewBookmarkMapper creates a new bookmark mapper
func NewBookmarkMapper() *BookmarkMapper {
	return &BookmarkMapper{}
}

// MapBookmarks turns every category into a folder holding its bookmarks.
// Entries without href are skipped.
func (m *BookmarkMapper) MapBookmarks(config BookmarksConfig) (domain.ImportTree, error) {
	tree := domain.ImportTree{Source: SourceBookmarks}

	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			folder := domain.ImportNode{Title: categoryName}

			for _, bookmarkMap := range category[categoryName] {
				for _, bookmarkName := range sortedKeys(bookmarkMap) {
					entryList := bookmarkMap[bookmarkName]
					// Each bookmark has a list with a single entry
					if len(entryList) == 0 {
						continue
					}
					entry := entryList[0]
					if entry.Href == "" {
						continue
					}

					// Use the bookmark name, falling back to Abbr
					title := bookmarkName
					if title == "" {
						title = entry.Abbr
					}

					folder.Children = append(folder.Children, domain.ImportNode{
						Title: title,
						URL:   entry.Href,
					})
				}
			}

			if len(folder.Children) > 0 {
				tree.Nodes = append(tree.Nodes, folder)
			}
		}
	}

	if tree.BookmarkCount() == 0 {
		return domain.ImportTree{}, fmt.Errorf("no valid bookmarks found in config")
	}

	return tree, nil
}

// sortedKeys gives Homepage's single-key maps a stable iteration order
func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
