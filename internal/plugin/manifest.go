// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	_ "embed"
	"os"
	"path/filepath"

	"nodeforge/internal/cueutil"
)

const (
	// ManifestFileName is the optional descriptor file at a plugin
	// source root.
	ManifestFileName = "nodeforge-plugin.json"

	// DefaultNodesFolder is the conventional nodes subfolder used when
	// no descriptor file is present.
	DefaultNodesFolder = "nodes"

	// DefaultPipelinesFolder is the conventional pipelines subfolder
	// used when no descriptor file is present.
	DefaultPipelinesFolder = "pipelines"
)

//go:embed manifest_schema.cue
var manifestSchema string

// Entry describes one logical plugin inside a source tree. Folder
// paths are relative to the source root.
type Entry struct {
	PluginName     string `json:"pluginName"`
	NodesFolder    string `json:"nodesFolder"`
	PipelineFolder string `json:"pipelineFolder,omitempty"`
}

// LoadManifest returns the ordered install entries for a plugin source.
// Without a descriptor file, the source is a single plugin named after
// its root folder using the conventional subfolder layout. With one,
// the file is validated against the manifest schema before use.
func LoadManifest(root string) ([]Entry, error) {
	manifestPath := filepath.Join(root, ManifestFileName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{{
				PluginName:     filepath.Base(root),
				NodesFolder:    DefaultNodesFolder,
				PipelineFolder: DefaultPipelinesFolder,
			}}, nil
		}
		return nil, &ManifestError{Path: manifestPath, Reason: "unreadable descriptor", Cause: err}
	}
	return parseManifest(manifestPath, data)
}

// parseManifest validates the descriptor JSON against the #Manifest
// schema and decodes it into entries.
func parseManifest(path string, data []byte) ([]Entry, error) {
	result, err := cueutil.ParseAndDecode[[]Entry](manifestSchema, data, "#Manifest",
		cueutil.WithFilename(path))
	if err != nil {
		return nil, &ManifestError{Path: path, Reason: "descriptor does not match schema", Cause: err}
	}
	return result.Value, nil
}
