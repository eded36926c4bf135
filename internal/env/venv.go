// SPDX-License-Identifier: MPL-2.0

package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// VenvProvider runs node commands with the interpreter of an isolated
// virtualenv created at a cache-keyed path. No sanitization or subshell
// wrapper is needed: isolation is structural.
type VenvProvider struct {
	spec         Spec
	cacheDir     string
	pythonBinary string
	execCommand  ExecCommandFunc
	name         lazyName
}

// VenvOption configures a VenvProvider.
type VenvOption func(*VenvProvider)

// WithVenvExecCommand overrides how build commands are created (for tests).
func WithVenvExecCommand(f ExecCommandFunc) VenvOption {
	return func(p *VenvProvider) { p.execCommand = f }
}

// NewVenvProvider creates an isolated-interpreter provider. The
// environment directory lives under cacheDir, keyed by identity name.
func NewVenvProvider(spec Spec, cacheDir, pythonBinary string, opts ...VenvOption) *VenvProvider {
	if pythonBinary == "" {
		pythonBinary = "python3"
	}
	p := &VenvProvider{
		spec:         spec,
		cacheDir:     cacheDir,
		pythonBinary: pythonBinary,
		execCommand:  exec.CommandContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Kind returns KindVenv.
func (p *VenvProvider) Kind() Kind { return KindVenv }

// EnvName returns the content-derived environment name.
func (p *VenvProvider) EnvName() (string, error) {
	return p.name.get(p.spec)
}

// EnvPath returns the cache-keyed directory holding the virtualenv.
func (p *VenvProvider) EnvPath() (string, error) {
	name, err := p.EnvName()
	if err != nil {
		return "", err
	}
	return filepath.Join(p.cacheDir, name), nil
}

// interpreterPath returns the virtualenv's own interpreter executable.
func (p *VenvProvider) interpreterPath() (string, error) {
	envPath, err := p.EnvPath()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(envPath, "Scripts", "python.exe"), nil
	}
	return filepath.Join(envPath, "bin", "python"), nil
}

// IsBuilt checks whether the cache-keyed environment directory exists.
func (p *VenvProvider) IsBuilt(_ context.Context) (bool, error) {
	envPath, err := p.EnvPath()
	if err != nil {
		return false, err
	}
	info, err := os.Stat(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		name, _ := p.EnvName()
		return false, &QueryError{Name: name, Cause: err}
	}
	return info.IsDir(), nil
}

// Build creates the virtualenv and installs the dependency list into it.
func (p *VenvProvider) Build(ctx context.Context, logw io.Writer) error {
	name, err := p.EnvName()
	if err != nil {
		return err
	}
	envPath, err := p.EnvPath()
	if err != nil {
		return err
	}

	slog.Info("building virtualenv", "name", name, "path", envPath, "file", p.spec.Path)

	create := p.execCommand(ctx, p.pythonBinary, "-m", "venv", envPath)
	create.Stdout = logw
	create.Stderr = logw
	if err := create.Run(); err != nil {
		return p.buildError(name, err)
	}

	interpreter, err := p.interpreterPath()
	if err != nil {
		return err
	}
	install := p.execCommand(ctx, interpreter, "-m", "pip", "install", "-r", p.spec.Path)
	install.Stdout = logw
	install.Stderr = logw
	if err := install.Run(); err != nil {
		// Leave no half-installed environment behind: a partial venv
		// would satisfy IsBuilt and never be repaired.
		if rmErr := os.RemoveAll(envPath); rmErr != nil {
			slog.Warn("failed to remove partial virtualenv", "path", envPath, "error", rmErr)
		}
		return p.buildError(name, err)
	}

	return nil
}

func (p *VenvProvider) buildError(name string, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &BuildError{Name: name, ExitCode: exitErr.ExitCode()}
	}
	return &BuildError{Name: name, Cause: err}
}

// CommandPrefix invokes the environment's own interpreter directly.
func (p *VenvProvider) CommandPrefix() (string, error) {
	interpreter, err := p.interpreterPath()
	if err != nil {
		return "", err
	}
	return interpreter + " ", nil
}

// Remove deletes the cached environment directory, if present.
func (p *VenvProvider) Remove() error {
	envPath, err := p.EnvPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return fmt.Errorf("environment not built: %s", envPath)
	}
	return os.RemoveAll(envPath)
}
