// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type (
	// Catalog is the read-only registry of known plugin sources. It is
	// unrelated to what is actually installed.
	Catalog struct {
		Plugins []CatalogEntry `yaml:"plugins"`
	}

	// CatalogEntry advertises one installable plugin source.
	CatalogEntry struct {
		Name        string `yaml:"name"`
		Source      string `yaml:"source"`
		Description string `yaml:"description,omitempty"`
	}
)

// LoadCatalog reads the registry file. A missing file yields an empty
// catalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return &catalog, nil
}
