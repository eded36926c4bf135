// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `plugins:
  - name: photogrammetry
    source: https://example.com/team/photogrammetry.git
    description: Structure-from-motion node bundle
  - name: depthmaps
    source: /srv/plugins/depthmaps
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(catalog.Plugins) != 2 {
		t.Fatalf("Plugins = %d entries, want 2", len(catalog.Plugins))
	}
	if catalog.Plugins[0].Name != "photogrammetry" || catalog.Plugins[0].Description == "" {
		t.Errorf("first entry = %+v", catalog.Plugins[0])
	}
	if catalog.Plugins[1].Source != "/srv/plugins/depthmaps" {
		t.Errorf("second entry source = %q", catalog.Plugins[1].Source)
	}
}

func TestLoadCatalogMissing(t *testing.T) {
	t.Parallel()

	catalog, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}
	if len(catalog.Plugins) != 0 {
		t.Errorf("Plugins = %v, want empty for a missing file", catalog.Plugins)
	}
}

func TestLoadCatalogMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("plugins: [unclosed"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Error("LoadCatalog() error = nil for malformed YAML")
	}
}
