// SPDX-License-Identifier: MPL-2.0

// Package plugin installs externally authored bundles of node
// definitions and pipeline templates into the canonical install
// directories: symlinked for local sources, copied for remote clones.
package plugin

import (
	"errors"
	"fmt"
)

var (
	// ErrSource is the sentinel error wrapped by SourceError.
	ErrSource = errors.New("plugin source resolution failed")

	// ErrManifest is the sentinel error wrapped by ManifestError.
	ErrManifest = errors.New("invalid plugin manifest")

	// ErrNotInstalled is returned by Uninstall when no install entry
	// exists for the given name.
	ErrNotInstalled = errors.New("plugin not installed")
)

type (
	// SourceError is returned when a plugin source cannot be resolved:
	// the local path does not exist, or a remote clone failed.
	SourceError struct {
		// Source is the path or URL as given by the caller.
		Source string
		// Cause is the underlying error.
		Cause error
	}

	// ManifestError is returned for a malformed descriptor file or a
	// manifest entry whose nodes folder is missing.
	ManifestError struct {
		// Path locates the offending file or folder.
		Path string
		// Reason describes what is wrong.
		Reason string
		// Cause is the underlying error, when one exists.
		Cause error
	}
)

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to resolve plugin source %s: %v", e.Source, e.Cause)
}

// Unwrap returns ErrSource so callers can use errors.Is for programmatic detection.
func (e *SourceError) Unwrap() error { return ErrSource }

// Error implements the error interface.
func (e *ManifestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid plugin manifest at %s: %s: %v", e.Path, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid plugin manifest at %s: %s", e.Path, e.Reason)
}

// Unwrap returns ErrManifest so callers can use errors.Is for programmatic detection.
func (e *ManifestError) Unwrap() error { return ErrManifest }
