// SPDX-License-Identifier: MPL-2.0

package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"nodeforge/internal/container"
)

var (
	// ErrBuild is the sentinel error wrapped by BuildError.
	ErrBuild = errors.New("environment build failed")

	// ErrQuery is the sentinel error wrapped by QueryError.
	ErrQuery = errors.New("environment query failed")
)

type (
	// Provider builds and queries one kind of execution environment and
	// supplies the command-line prefix needed to run inside it.
	Provider interface {
		// Kind returns the provider variant.
		Kind() Kind
		// EnvName returns the content-derived environment name. The value
		// is memoized on first access.
		EnvName() (string, error)
		// IsBuilt reports whether the environment already exists. A clean
		// "not found" returns (false, nil); only infrastructure failures
		// (engine unreachable, manager missing) return a QueryError.
		IsBuilt(ctx context.Context) (bool, error)
		// Build creates the environment, streaming build output to logw.
		// A failed build returns a BuildError and leaves the environment
		// not built; there is no automatic retry.
		Build(ctx context.Context, logw io.Writer) error
		// CommandPrefix returns the prefix prepended to a node's command
		// line so it executes inside the environment. Empty for the host
		// kind.
		CommandPrefix() (string, error)
	}

	// BuildError is returned when an environment build command fails.
	BuildError struct {
		// Name is the environment identity name.
		Name string
		// ExitCode is the build command's exit code, when it ran at all.
		ExitCode int
		// Cause is the underlying error, when the command could not run.
		Cause error
	}

	// QueryError is returned when an existence check cannot reach the
	// backing engine or manager.
	QueryError struct {
		// Name is the environment identity name.
		Name string
		// Cause is the underlying infrastructure error.
		Cause error
	}

	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// Providers that shell out to a manager binary (conda, python) take
	// it as an injection point for tests.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// ProviderOptions carries the external collaborators a provider may
	// need. Unused fields are ignored by kinds that do not need them.
	ProviderOptions struct {
		// Engine is the container engine (required for KindDocker).
		Engine container.Engine
		// CacheDir is the root for virtualenv build artifacts (KindVenv).
		CacheDir string
		// PythonBinary is the interpreter used by KindVenv and KindHost.
		PythonBinary string
		// GPUs requests GPU passthrough on container runs.
		GPUs bool
	}
)

// Error implements the error interface.
func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to build environment %s: %v", e.Name, e.Cause)
	}
	return fmt.Sprintf("failed to build environment %s: exit code %d", e.Name, e.ExitCode)
}

// Unwrap returns ErrBuild so callers can use errors.Is for programmatic detection.
func (e *BuildError) Unwrap() error { return ErrBuild }

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("failed to query environment %s: %v", e.Name, e.Cause)
}

// Unwrap returns ErrQuery so callers can use errors.Is for programmatic detection.
func (e *QueryError) Unwrap() error { return ErrQuery }

// NewProvider constructs the provider variant for the spec's kind.
func NewProvider(spec Spec, opts ProviderOptions) (Provider, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	switch spec.Kind {
	case KindDocker:
		if opts.Engine == nil {
			return nil, fmt.Errorf("environment kind %s requires a container engine", spec.Kind)
		}
		return NewDockerProvider(spec, opts.Engine, opts.GPUs), nil
	case KindConda:
		return NewCondaProvider(spec), nil
	case KindVenv:
		if opts.CacheDir == "" {
			return nil, fmt.Errorf("environment kind %s requires a cache directory", spec.Kind)
		}
		return NewVenvProvider(spec, opts.CacheDir, opts.PythonBinary), nil
	case KindHost:
		return NewHostProvider(spec, opts.PythonBinary), nil
	default:
		return nil, &InvalidKindError{Value: spec.Kind}
	}
}
