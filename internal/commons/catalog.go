package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

type CatalogEntry struct {
	Slug        string   `yaml:"slug"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Type        string   `yaml:"type"`
	Tier        string   `yaml:"tier"`
	Category    string   `yaml:"category"`
	Features    []string `yaml:"features"`
	SortOrder   int      `yaml:"sortOrder"`
	Active      *bool    `yaml:"active"`
}

type catalogFile struct {
	Services []CatalogEntry `yaml:"services"`
}

// LoadCatalog reads the seed list of purchasable services.
func LoadCatalog(path string) ([]CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}

	for i, entry := range file.Services {
		if entry.Slug == "" || entry.Name == "" {
			return nil, fmt.Errorf("catalog entry %d: slug and name are required", i)
		}
		if entry.Price < 0 {
			return nil, fmt.Errorf("catalog entry %q: price must not be negative", entry.Slug)
		}
	}

	return file.Services, nil
}
