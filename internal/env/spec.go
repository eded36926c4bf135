// SPDX-License-Identifier: MPL-2.0

package env

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Environment kind constants. The set is closed: every provider
// variant corresponds to exactly one kind.
const (
	// KindDocker builds a container image from a build file.
	KindDocker Kind = "docker"
	// KindConda creates a managed environment from a declaration file.
	KindConda Kind = "conda"
	// KindVenv creates an isolated interpreter from a dependency list.
	KindVenv Kind = "venv"
	// KindHost installs dependencies into the host process environment.
	KindHost Kind = "host"
)

// ErrInvalidKind is the sentinel error wrapped by InvalidKindError.
var ErrInvalidKind = errors.New("invalid environment kind")

type (
	// Kind identifies an environment provider variant.
	Kind string

	// InvalidKindError is returned when a Kind is not one of the defined kinds.
	InvalidKindError struct {
		Value Kind
	}

	// Spec describes one environment: the path to its specification file
	// and the kind of runtime that file declares. The file content is
	// treated as opaque bytes; identity is derived solely from it.
	Spec struct {
		// Path is the location of the spec file (build file, environment
		// declaration, or dependency list). May be empty for KindHost.
		Path string
		// Kind selects the provider variant.
		Kind Kind
	}
)

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid environment kind %q (valid: docker, conda, venv, host)", e.Value)
}

// Unwrap returns ErrInvalidKind so callers can use errors.Is for programmatic detection.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// String returns the string representation of the Kind.
func (k Kind) String() string { return string(k) }

// Validate returns nil if the Kind is one of the defined kinds.
func (k Kind) Validate() error {
	switch k {
	case KindDocker, KindConda, KindVenv, KindHost:
		return nil
	default:
		return &InvalidKindError{Value: k}
	}
}

// Validate checks the spec for coherence. Every kind except host
// requires a spec file path.
func (s Spec) Validate() error {
	if err := s.Kind.Validate(); err != nil {
		return err
	}
	if s.Path == "" && s.Kind != KindHost {
		return fmt.Errorf("environment kind %s requires a spec file", s.Kind)
	}
	return nil
}

// DetectKind guesses the environment kind from a spec file name using
// the conventional layouts: Dockerfile/Containerfile for images, a YAML
// declaration for conda, a requirements list for virtualenvs. The
// second return is false when no convention matches.
func DetectKind(path string) (Kind, bool) {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasPrefix(base, "dockerfile") || strings.HasPrefix(base, "containerfile"):
		return KindDocker, true
	case strings.HasSuffix(base, ".yaml") || strings.HasSuffix(base, ".yml"):
		return KindConda, true
	case strings.HasPrefix(base, "requirements") && strings.HasSuffix(base, ".txt"):
		return KindVenv, true
	default:
		return "", false
	}
}
