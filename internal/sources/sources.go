// Package sources picks the parser for a bookmark import file.
package sources

import (
	"fmt"
	"slices"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/sources/chromium"
	"github.com/MrSnakeDoc/shelf/internal/sources/homepage"
)

// Import formats accepted by Parse.
const (
	FormatHomepage         = homepage.SourceBookmarks
	FormatHomepageServices = homepage.SourceServices
	FormatChromium         = chromium.Source
)

// Formats lists every supported format.
func Formats() []string {
	return []string{FormatHomepage, FormatHomepageServices, FormatChromium}
}

// IsSupported reports whether format names a known parser.
func IsSupported(format string) bool {
	return slices.Contains(Formats(), format)
}

// Parse converts raw file content to an import tree.
func Parse(format string, data []byte) (domain.ImportTree, error) {
	switch format {
	case FormatHomepage:
		cfg, err := homepage.ParseBookmarks(data)
		if err != nil {
			return domain.ImportTree{}, err
		}
		return homepage.NewBookmarkMapper().MapBookmarks(cfg)
	case FormatHomepageServices:
		cfg, err := homepage.ParseServices(data)
		if err != nil {
			return domain.ImportTree{}, err
		}
		return homepage.NewMapper().MapServices(cfg)
	case FormatChromium:
		return chromium.Parse(data)
	}
	return domain.ImportTree{}, fmt.Errorf("unsupported import format %q", format)
}

// ParseFile reads path and parses it as format.
func ParseFile(format, path string) (domain.ImportTree, error) {
	switch format {
	case FormatHomepage:
		cfg, err := homepage.LoadBookmarks(path)
		if err != nil {
			return domain.ImportTree{}, err
		}
		return homepage.NewBookmarkMapper().MapBookmarks(cfg)
	case FormatHomepageServices:
		cfg, err := homepage.LoadServices(path)
		if err != nil {
			return domain.ImportTree{}, err
		}
		return homepage.NewMapper().MapServices(cfg)
	case FormatChromium:
		return chromium.Load(path)
	}
	return domain.ImportTree{}, fmt.Errorf("unsupported import format %q", format)
}
