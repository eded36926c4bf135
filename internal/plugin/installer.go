// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/exp/slices"

	"nodeforge/internal/config"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// The installer uses it to shell out to git (injected in tests).
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Installer installs, removes, and lists plugins under the
	// configured canonical directories.
	Installer struct {
		cfg         *config.Config
		execCommand ExecCommandFunc
	}

	// InstallerOption configures an Installer.
	InstallerOption func(*Installer)

	// InstalledEntry records one install destination produced by Install.
	InstalledEntry struct {
		// PluginName is the sanitized install key.
		PluginName string
		// NodesPath is the install entry under the nodes directory.
		NodesPath string
		// PipelinesPath is the install entry under the pipelines
		// directory, empty when the source has no pipelines folder.
		PipelinesPath string
		// Linked reports symlink (true) versus copied (false) install.
		Linked bool
	}

	// Report describes the outcome of one Install call. On a partial
	// failure it lists the entries installed before the failing one;
	// those are left in place.
	Report struct {
		// Source is the resolved plugin source.
		Source Source
		// Installed are the destinations created, in manifest order.
		Installed []InstalledEntry
	}
)

// WithExecCommand overrides how external commands are created (for tests).
func WithExecCommand(f ExecCommandFunc) InstallerOption {
	return func(i *Installer) { i.execCommand = f }
}

// NewInstaller creates an Installer over the configured layout.
func NewInstaller(cfg *config.Config, opts ...InstallerOption) *Installer {
	i := &Installer{cfg: cfg, execCommand: exec.CommandContext}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install resolves src (local directory or remote URL), loads its
// manifest, and installs every entry in order. Local sources are
// symlinked; remote sources are cloned, copied, and the clone removed.
// A failing entry aborts the sequence with a typed error; entries
// already installed are not rolled back, and the returned report lists
// them.
func (i *Installer) Install(ctx context.Context, src string) (*Report, error) {
	source, err := i.resolveSource(ctx, src)
	if err != nil {
		return nil, err
	}
	if !source.Local {
		defer func() {
			if rmErr := os.RemoveAll(source.Root); rmErr != nil {
				slog.Warn("failed to remove plugin clone", "path", source.Root, "error", rmErr)
			}
		}()
	}

	entries, err := LoadManifest(source.Root)
	if err != nil {
		return nil, err
	}

	report := &Report{Source: source}
	for _, entry := range entries {
		installed, err := i.installOne(source, entry)
		if err != nil {
			return report, err
		}
		report.Installed = append(report.Installed, installed)
		slog.Info("installed plugin", "name", installed.PluginName, "linked", installed.Linked)
	}
	return report, nil
}

// installOne installs one manifest entry. The nodes folder must exist;
// an existing destination is removed first (last install wins, no
// merge). The optional pipelines folder is installed the same way when
// present in the source tree.
func (i *Installer) installOne(source Source, entry Entry) (InstalledEntry, error) {
	name := sanitizeName(entry.PluginName)
	if name == "" {
		return InstalledEntry{}, &ManifestError{Path: source.Root, Reason: "entry has an empty plugin name"}
	}

	nodesSrc := filepath.Join(source.Root, entry.NodesFolder)
	info, err := os.Stat(nodesSrc)
	if err != nil || !info.IsDir() {
		return InstalledEntry{}, &ManifestError{Path: nodesSrc, Reason: "nodes folder does not exist", Cause: err}
	}

	if err := os.MkdirAll(i.cfg.Plugins.NodesDir, 0o755); err != nil {
		return InstalledEntry{}, fmt.Errorf("failed to create install directory: %w", err)
	}

	nodesDst := filepath.Join(i.cfg.Plugins.NodesDir, name)
	if err := removeInstalled(nodesDst); err != nil {
		return InstalledEntry{}, err
	}
	if err := i.place(nodesSrc, nodesDst, source.Local); err != nil {
		return InstalledEntry{}, err
	}

	installed := InstalledEntry{PluginName: name, NodesPath: nodesDst, Linked: source.Local}

	if entry.PipelineFolder == "" {
		return installed, nil
	}
	pipelinesSrc := filepath.Join(source.Root, entry.PipelineFolder)
	if info, err := os.Stat(pipelinesSrc); err != nil || !info.IsDir() {
		// Pipelines are optional even when the manifest names a folder
		// that the source tree does not carry.
		return installed, nil
	}
	if err := os.MkdirAll(i.cfg.Plugins.PipelinesDir, 0o755); err != nil {
		return InstalledEntry{}, fmt.Errorf("failed to create install directory: %w", err)
	}
	pipelinesDst := filepath.Join(i.cfg.Plugins.PipelinesDir, name)
	if err := removeInstalled(pipelinesDst); err != nil {
		return InstalledEntry{}, err
	}
	if err := i.place(pipelinesSrc, pipelinesDst, source.Local); err != nil {
		return InstalledEntry{}, err
	}
	installed.PipelinesPath = pipelinesDst
	return installed, nil
}

// place creates the install entry: a symlink for local sources, a
// recursive copy for remote ones.
func (i *Installer) place(src, dst string, local bool) error {
	if local {
		if err := os.Symlink(src, dst); err != nil {
			return fmt.Errorf("failed to link %s: %w", dst, err)
		}
		return nil
	}
	return copyDir(src, dst)
}

// Uninstall removes a plugin's install entry. A missing entry is an
// error; the matching pipelines entry is removed best-effort.
func (i *Installer) Uninstall(name string) error {
	key := sanitizeName(name)
	nodesDst := filepath.Join(i.cfg.Plugins.NodesDir, key)
	if _, err := os.Lstat(nodesDst); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotInstalled, key)
		}
		return fmt.Errorf("failed to inspect %s: %w", nodesDst, err)
	}
	if err := removeInstalled(nodesDst); err != nil {
		return err
	}

	pipelinesDst := filepath.Join(i.cfg.Plugins.PipelinesDir, key)
	if err := removeInstalled(pipelinesDst); err != nil {
		slog.Warn("failed to remove pipelines entry", "path", pipelinesDst, "error", err)
	}
	return nil
}

// ListInstalled returns the sorted install entry names under the nodes
// directory. A directory that does not exist yet lists as empty.
func (i *Installer) ListInstalled() ([]string, error) {
	entries, err := os.ReadDir(i.cfg.Plugins.NodesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read install directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}
