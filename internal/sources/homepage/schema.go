package homepage

// ─────────────────────────────────────────────────────────────────
// services.yaml
// ─────────────────────────────────────────────────────────────────

// ServicesConfig represents the top-level structure of services.yaml
// Homepage uses dynamic keys: - GroupName: [ - ServiceName: {props} ]
type ServicesConfig []map[string][]map[string]ServiceProps

// ServiceProps contains the service properties we read; widgets and
// monitors are ignored
type ServiceProps struct {
	Href        string `yaml:"href"`
	Icon        string `yaml:"icon,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// ─────────────────────────────────────────────────────────────────
// bookmarks.yaml
// ─────────────────────────────────────────────────────────────────

// BookmarkEntry represents a single bookmark entry in the YAML
type BookmarkEntry struct {
	Icon string `yaml:"icon"`
	Abbr string `yaml:"abbr"`
	Href string `yaml:"href"`
}

// BookmarkCategory maps a category name to its bookmarks.
// The YAML structure is: - CategoryName: [ - BookmarkName: [{ icon, abbr, href }] ]
// Each bookmark name maps to a list with a single entry
type BookmarkCategory map[string][]map[string][]BookmarkEntry

// BookmarksConfig is the root structure for bookmarks.yaml
type BookmarksConfig []BookmarkCategory
