package homepage

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// templateVar matches {{...}} patterns
var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// LoadServices reads and parses a services.yaml file.
func LoadServices(path string) (ServicesConfig, error) {
	var cfg ServicesConfig
	return cfg, loadYAML(path, "services", &cfg)
}

// LoadBookmarks reads and parses a bookmarks.yaml file.
func LoadBookmarks(path string) (BookmarksConfig, error) {
	var cfg BookmarksConfig
	return cfg, loadYAML(path, "bookmarks", &cfg)
}

// ParseServices parses services.yaml content.
func ParseServices(data []byte) (ServicesConfig, error) {
	var cfg ServicesConfig
	return cfg, parseYAML(data, "services", &cfg)
}

// ParseBookmarks parses bookmarks.yaml content.
func ParseBookmarks(data []byte) (BookmarksConfig, error) {
	var cfg BookmarksConfig
	return cfg, parseYAML(data, "bookmarks", &cfg)
}

func loadYAML(path, kind string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s file: %w", kind, err)
	}
	return parseYAML(data, kind, out)
}

// parseYAML blanks template variables first: they hold secrets and
// hostnames that only Homepage itself can resolve.
func parseYAML(data []byte, kind string, out any) error {
	if err := yaml.Unmarshal(stripTemplateVariables(data), out); err != nil {
		return fmt.Errorf("failed to parse %s yaml: %w", kind, err)
	}
	return nil
}

// stripTemplateVariables replaces {{HOMEPAGE_VAR_X}} with an empty string.
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
