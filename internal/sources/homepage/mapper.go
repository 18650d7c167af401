package homepage

import (
	"fmt"
	"net/url"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// SourceServices names imports coming from services.yaml
const SourceServices = "homepage-services"

// Mapper converts Homepage services to an import tree
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapServices turns every group into a folder and every service with a
// valid absolute href into a bookmark titled with the service name.
func (m *Mapper) MapServices(config ServicesConfig) (domain.ImportTree, error) {
	tree := domain.ImportTree{Source: SourceServices}

	// Iterate through groups
	for _, groupMap := range config {
		for _, groupName := range sortedKeys(groupMap) {
			folder := domain.ImportNode{Title: groupName}

			// Iterate through services in this group
			for _, serviceMap := range groupMap[groupName] {
				for _, serviceName := range sortedKeys(serviceMap) {
					props := serviceMap[serviceName]

					// Skip services without href
					if props.Href == "" {
						continue
					}

					// Skip invalid or relative URLs
					parsedURL, err := url.Parse(props.Href)
					if err != nil || parsedURL.Hostname() == "" {
						continue
					}

					title := serviceName
					if title == "" {
						title = parsedURL.Hostname()
					}

					folder.Children = append(folder.Children, domain.ImportNode{
						Title: title,
						URL:   props.Href,
					})
				}
			}

			if len(folder.Children) > 0 {
				tree.Nodes = append(tree.Nodes, folder)
			}
		}
	}

	if tree.BookmarkCount() == 0 {
		return domain.ImportTree{}, fmt.Errorf("no valid services found in homepage config")
	}

	return tree, nil
}
