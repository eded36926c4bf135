// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for config and data directories.
	AppName = "nodeforge"
	// ConfigFileName is the name of the config file.
	ConfigFileName = "config.toml"
)

type (
	// Config holds the resolved configuration for a nodeforge process.
	// Construct it once (Load or DefaultConfig) and pass it by reference.
	Config struct {
		// CacheDir is the root for environment build artifacts (virtualenvs)
		// and for temporary clones of remote plugin sources.
		CacheDir string `mapstructure:"cache_dir" toml:"cache_dir"`

		// PythonBinary is the interpreter used to create virtualenvs and to
		// install host-level dependency lists.
		PythonBinary string `mapstructure:"python_binary" toml:"python_binary"`

		// Plugins configures the plugin install layout.
		Plugins PluginsConfig `mapstructure:"plugins" toml:"plugins"`

		// Container configures the container engine selection.
		Container ContainerConfig `mapstructure:"container" toml:"container"`
	}

	// PluginsConfig holds the canonical plugin install locations.
	PluginsConfig struct {
		// NodesDir is the canonical install directory for node definitions.
		// Each installed plugin is one entry here (symlink or copied tree).
		NodesDir string `mapstructure:"nodes_dir" toml:"nodes_dir"`

		// PipelinesDir is the canonical install directory for pipeline templates.
		PipelinesDir string `mapstructure:"pipelines_dir" toml:"pipelines_dir"`

		// CatalogFile is the read-only registry of known plugin sources.
		CatalogFile string `mapstructure:"catalog_file" toml:"catalog_file"`
	}

	// ContainerConfig selects the container engine.
	ContainerConfig struct {
		// Engine is "docker", "podman", or "auto" for detection.
		Engine string `mapstructure:"engine" toml:"engine"`

		// GPUs requests GPU device passthrough on container runs.
		GPUs bool `mapstructure:"gpus" toml:"gpus"`
	}
)

// ConfigDir returns the nodeforge configuration directory using
// platform conventions: %APPDATA% on Windows, ~/Library/Application
// Support on macOS, $XDG_CONFIG_HOME (default ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DataDir returns the per-user nodeforge data directory (~/.nodeforge).
// Installed plugins and the environment cache live under it by default.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "."+AppName), nil
}

// DefaultConfig returns a Config populated with the default layout.
// Directory resolution errors fall back to relative paths so that a
// Config is always usable; Validate reports the degenerate case.
func DefaultConfig() *Config {
	dataDir, err := DataDir()
	if err != nil {
		dataDir = "." + AppName
	}
	cfgDir, err := ConfigDir()
	if err != nil {
		cfgDir = dataDir
	}

	return &Config{
		CacheDir:     filepath.Join(dataDir, "cache"),
		PythonBinary: "python3",
		Plugins: PluginsConfig{
			NodesDir:     filepath.Join(dataDir, "plugins", "nodes"),
			PipelinesDir: filepath.Join(dataDir, "plugins", "pipelines"),
			CatalogFile:  filepath.Join(cfgDir, "catalog.yaml"),
		},
		Container: ContainerConfig{
			Engine: "auto",
			GPUs:   true,
		},
	}
}

// Load reads the config file at path (or the default location when path
// is empty) on top of the defaults. A missing file is not an error: the
// defaults are returned unchanged.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	defaults := DefaultConfig()
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("python_binary", defaults.PythonBinary)
	v.SetDefault("plugins.nodes_dir", defaults.Plugins.NodesDir)
	v.SetDefault("plugins.pipelines_dir", defaults.Plugins.PipelinesDir)
	v.SetDefault("plugins.catalog_file", defaults.Plugins.CatalogFile)
	v.SetDefault("container.engine", defaults.Container.Engine)
	v.SetDefault("container.gpus", defaults.Container.GPUs)

	if path == "" {
		cfgDir, err := ConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(cfgDir, ConfigFileName)
	}

	if fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configured layout is coherent.
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir must not be empty")
	}
	if c.Plugins.NodesDir == "" {
		return fmt.Errorf("plugins.nodes_dir must not be empty")
	}
	if c.Plugins.PipelinesDir == "" {
		return fmt.Errorf("plugins.pipelines_dir must not be empty")
	}
	if c.PythonBinary == "" {
		return fmt.Errorf("python_binary must not be empty")
	}
	switch c.Container.Engine {
	case "auto", "docker", "podman":
	default:
		return fmt.Errorf("container.engine must be one of auto, docker, podman (got %q)", c.Container.Engine)
	}
	return nil
}

// EnsureLayout creates the cache and install directories if missing.
func (c *Config) EnsureLayout() error {
	for _, dir := range []string{c.CacheDir, c.Plugins.NodesDir, c.Plugins.PipelinesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// WriteDefault writes the default configuration to path in TOML form.
// It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if fileExists(path) {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Render returns the TOML representation of the config.
func (c *Config) Render() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
