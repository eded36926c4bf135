// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// remoteSchemes are the URI schemes that trigger a clone into the cache
// directory instead of a direct local install.
var remoteSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"git":   true,
	"ssh":   true,
}

// Source is a resolved plugin source tree.
type Source struct {
	// Root is the plugin root directory on the local filesystem (the
	// source path itself, or the clone destination).
	Root string
	// Name is the source's base name, used for default manifest entries.
	Name string
	// Local reports whether Root is the caller's own directory. Local
	// sources are installed as symlinks so edits take effect live.
	Local bool
}

// resolveSource classifies src by URI scheme. Recognized network
// schemes are cloned into the cache; anything else must be an existing
// local directory.
func (i *Installer) resolveSource(ctx context.Context, src string) (Source, error) {
	if u, err := url.Parse(src); err == nil && remoteSchemes[u.Scheme] {
		return i.cloneSource(ctx, src, u)
	}

	info, err := os.Stat(src)
	if err != nil {
		return Source{}, &SourceError{Source: src, Cause: err}
	}
	if !info.IsDir() {
		return Source{}, &SourceError{Source: src, Cause: fmt.Errorf("not a directory")}
	}
	abs, err := filepath.Abs(src)
	if err != nil {
		return Source{}, &SourceError{Source: src, Cause: err}
	}
	return Source{Root: abs, Name: filepath.Base(abs), Local: true}, nil
}

// cloneSource clones a remote repository into the cache directory. Any
// stale clone of the same name is replaced.
func (i *Installer) cloneSource(ctx context.Context, src string, u *url.URL) (Source, error) {
	name := strings.TrimSuffix(path.Base(u.Path), ".git")
	if name == "" || name == "." || name == "/" {
		return Source{}, &SourceError{Source: src, Cause: fmt.Errorf("cannot derive a plugin name from the URL path")}
	}

	dest := filepath.Join(i.cfg.CacheDir, "clones", name)
	if err := os.RemoveAll(dest); err != nil {
		return Source{}, &SourceError{Source: src, Cause: err}
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Source{}, &SourceError{Source: src, Cause: err}
	}

	cmd := i.execCommand(ctx, "git", "clone", "--depth", "1", src, dest)
	if out, err := cmd.CombinedOutput(); err != nil {
		return Source{}, &SourceError{Source: src, Cause: fmt.Errorf("git clone: %w: %s", err, strings.TrimSpace(string(out)))}
	}
	return Source{Root: dest, Name: name, Local: false}, nil
}
