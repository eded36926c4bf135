// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// ExecCommandFunc is the function signature for creating exec.Cmd.
// This allows injection of mock implementations for testing.
type ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// CLIEngine provides the common implementation for CLI-based container
// engines. Docker and Podman engines embed this struct; engine-specific
// behavior (availability probing, version formats) stays on the
// concrete types.
type CLIEngine struct {
	name        string
	binaryPath  string
	execCommand ExecCommandFunc
}

// CLIEngineOption configures a CLIEngine.
type CLIEngineOption func(*CLIEngine)

// WithExecCommand overrides how commands are created (for tests).
func WithExecCommand(f ExecCommandFunc) CLIEngineOption {
	return func(e *CLIEngine) {
		e.execCommand = f
	}
}

// NewCLIEngine creates a CLIEngine for the given binary path.
func NewCLIEngine(name, binaryPath string, opts ...CLIEngineOption) *CLIEngine {
	e := &CLIEngine{
		name:        name,
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the engine name.
func (e *CLIEngine) Name() string {
	return e.name
}

// BinaryPath returns the path to the container engine binary.
func (e *CLIEngine) BinaryPath() string {
	return e.binaryPath
}

// --- Argument builders ---

// BuildArgs constructs arguments for an image build command.
//
// Generated command: <binary> build [options] <context>
func (e *CLIEngine) BuildArgs(opts BuildOptions) []string {
	args := []string{"build"}

	if opts.BuildFile != "" {
		buildFile := opts.BuildFile
		if !filepath.IsAbs(buildFile) && opts.ContextDir != "" {
			buildFile = filepath.Join(opts.ContextDir, buildFile)
		}
		args = append(args, "-f", buildFile)
	}

	if opts.Tag != "" {
		args = append(args, "-t", opts.Tag)
	}

	if opts.NoCache {
		args = append(args, "--no-cache")
	}

	args = append(args, opts.ContextDir)

	return args
}

// RemoveImageArgs constructs arguments for an image remove command.
func (e *CLIEngine) RemoveImageArgs(image string, force bool) []string {
	args := []string{"rmi"}
	if force {
		args = append(args, "-f")
	}
	args = append(args, image)
	return args
}

// --- Command execution ---

// CreateCommand creates an exec.Cmd for the given engine arguments.
func (e *CLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return e.execCommand(ctx, e.binaryPath, args...)
}

// RunCommandStatus executes a command and returns only the error status.
func (e *CLIEngine) RunCommandStatus(ctx context.Context, args ...string) error {
	cmd := e.CreateCommand(ctx, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}
	return nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (e *CLIEngine) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := e.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", e.binaryPath, args, err)
	}

	return out.String(), nil
}

// --- Shared Engine behavior ---

// Build builds an image from a build file.
func (e *CLIEngine) Build(ctx context.Context, opts BuildOptions) error {
	args := e.BuildArgs(opts)

	cmd := e.CreateCommand(ctx, args...)
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s build of %s failed: %w", e.name, opts.Tag, err)
	}

	return nil
}

// ImageExists checks if an image exists locally.
// A non-zero exit from image inspect means "not found", not an error.
func (e *CLIEngine) ImageExists(ctx context.Context, image string) (bool, error) {
	err := e.RunCommandStatus(ctx, "image", "inspect", image)
	return err == nil, nil
}

// RemoveImage removes a local image.
func (e *CLIEngine) RemoveImage(ctx context.Context, image string, force bool) error {
	return e.RunCommandStatus(ctx, e.RemoveImageArgs(image, force)...)
}
