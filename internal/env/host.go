// SPDX-License-Identifier: MPL-2.0

package env

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
)

// HostProvider runs node commands directly on the host interpreter. It
// provides no isolation: Build installs the dependency list into the
// host interpreter's site, and the command prefix is empty.
type HostProvider struct {
	spec         Spec
	pythonBinary string
	execCommand  ExecCommandFunc
	name         lazyName
}

// HostOption configures a HostProvider.
type HostOption func(*HostProvider)

// WithHostExecCommand overrides how install commands are created (for tests).
func WithHostExecCommand(f ExecCommandFunc) HostOption {
	return func(p *HostProvider) { p.execCommand = f }
}

// NewHostProvider creates a host-interpreter provider.
func NewHostProvider(spec Spec, pythonBinary string, opts ...HostOption) *HostProvider {
	if pythonBinary == "" {
		pythonBinary = "python3"
	}
	p := &HostProvider{
		spec:         spec,
		pythonBinary: pythonBinary,
		execCommand:  exec.CommandContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Kind returns KindHost.
func (p *HostProvider) Kind() Kind { return KindHost }

// EnvName returns the content-derived environment name, or the fixed
// host name when no dependency file is declared.
func (p *HostProvider) EnvName() (string, error) {
	return p.name.get(p.spec)
}

// IsBuilt always reports true: the host interpreter is assumed present,
// and dependency installs are idempotent on repeat.
func (p *HostProvider) IsBuilt(_ context.Context) (bool, error) {
	return true, nil
}

// Build installs the declared dependencies into the host interpreter.
// With no dependency file there is nothing to do.
func (p *HostProvider) Build(ctx context.Context, logw io.Writer) error {
	if p.spec.Path == "" {
		return nil
	}
	name, err := p.EnvName()
	if err != nil {
		return err
	}

	slog.Info("installing host dependencies", "name", name, "file", p.spec.Path)

	cmd := p.execCommand(ctx, p.pythonBinary, "-m", "pip", "install", "-r", p.spec.Path)
	cmd.Stdout = logw
	cmd.Stderr = logw
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &BuildError{Name: name, ExitCode: exitErr.ExitCode()}
		}
		return &BuildError{Name: name, Cause: err}
	}
	return nil
}

// CommandPrefix is empty: host commands run as-is.
func (p *HostProvider) CommandPrefix() (string, error) {
	return "", nil
}
