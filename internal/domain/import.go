package domain

import "fmt"

// ImportNode is one node of a parsed import tree.
// A node with a URL is a bookmark; anything else is a folder.
type ImportNode struct {
	Title      string
	URL        string
	IsFavorite bool
	Children   []ImportNode
}

// IsFolder reports whether n is imported as a folder.
func (n ImportNode) IsFolder() bool { return n.URL == "" }

// ImportTree is the parser output handed to the store.
// Top-level nodes are placed under the root folder.
type ImportTree struct {
	Source string
	Nodes  []ImportNode
}

// BookmarkCount returns the number of bookmark nodes at any depth.
func (t ImportTree) BookmarkCount() int {
	return countBookmarks(t.Nodes)
}

func countBookmarks(nodes []ImportNode) int {
	n := 0
	for _, node := range nodes {
		if node.IsFolder() {
			n += countBookmarks(node.Children)
			continue
		}
		n++
	}
	return n
}

// ImportResult summarizes an import as reported by the store.
type ImportResult struct {
	Successful int      `json:"successful"`
	Duplicates int      `json:"duplicates"`
	Failed     int      `json:"failed"`
	Errors     []string `json:"errors,omitempty"`
}

// Add merges other into r.
func (r *ImportResult) Add(other ImportResult) {
	r.Successful += other.Successful
	r.Duplicates += other.Duplicates
	r.Failed += other.Failed
	r.Errors = append(r.Errors, other.Errors...)
}

func (r ImportResult) String() string {
	return fmt.Sprintf("imported=%d duplicates=%d failed=%d", r.Successful, r.Duplicates, r.Failed)
}
