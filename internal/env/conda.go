// SPDX-License-Identifier: MPL-2.0

package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"nodeforge/internal/shell"
)

// DefaultCondaBinary is the managed-environment manager invoked by the
// conda provider.
const DefaultCondaBinary = "conda"

// CondaProvider runs node commands inside a managed environment created
// from a declaration file. All manager invocations are wrapped with the
// environment curation prefix so inherited interpreter variables cannot
// collide with the manager's own interpreter.
type CondaProvider struct {
	spec        Spec
	condaBinary string
	execCommand ExecCommandFunc
	name        lazyName
}

// CondaOption configures a CondaProvider.
type CondaOption func(*CondaProvider)

// WithCondaBinary overrides the manager binary.
func WithCondaBinary(binary string) CondaOption {
	return func(p *CondaProvider) { p.condaBinary = binary }
}

// WithCondaExecCommand overrides how existence-check commands are
// created (for tests).
func WithCondaExecCommand(f ExecCommandFunc) CondaOption {
	return func(p *CondaProvider) { p.execCommand = f }
}

// NewCondaProvider creates a managed-environment provider.
func NewCondaProvider(spec Spec, opts ...CondaOption) *CondaProvider {
	p := &CondaProvider{
		spec:        spec,
		condaBinary: DefaultCondaBinary,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Kind returns KindConda.
func (p *CondaProvider) Kind() Kind { return KindConda }

// EnvName returns the content-derived environment name.
func (p *CondaProvider) EnvName() (string, error) {
	return p.name.get(p.spec)
}

// IsBuilt queries the manager's registry for the environment name.
// A non-zero exit means the environment does not exist; a missing
// manager binary is an infrastructure failure.
func (p *CondaProvider) IsBuilt(ctx context.Context) (bool, error) {
	name, err := p.EnvName()
	if err != nil {
		return false, err
	}

	if _, err := exec.LookPath(p.condaBinary); err != nil {
		return false, &QueryError{Name: name, Cause: err}
	}

	cmd := p.execCommand(ctx, p.condaBinary, "list", "--name", name)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, &QueryError{Name: name, Cause: err}
	}
	return true, nil
}

// Build creates the environment from the declaration file with strict
// channel priority, behind the curation prefix.
func (p *CondaProvider) Build(ctx context.Context, logw io.Writer) error {
	name, err := p.EnvName()
	if err != nil {
		return err
	}

	cmdLine := p.buildCommand(name, CurateEnvCommand())
	slog.Info("building conda environment", "name", name, "file", p.spec.Path)

	code, err := shell.Run(ctx, cmdLine, "", logw, logw)
	if err != nil {
		return &BuildError{Name: name, Cause: err}
	}
	if code != 0 {
		return &BuildError{Name: name, ExitCode: code}
	}
	return nil
}

// buildCommand assembles the manager invocation that creates the
// environment from its declaration file.
func (p *CondaProvider) buildCommand(name, curation string) string {
	return fmt.Sprintf("%s%s config --set channel_priority strict; %s env create --name %s --file %s",
		curation, p.condaBinary, p.condaBinary, name, p.spec.Path)
}

// CommandPrefix wraps execution with "run inside named environment,
// unbuffered output", applying the same curation as Build.
func (p *CondaProvider) CommandPrefix() (string, error) {
	name, err := p.EnvName()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s run --no-capture-output -n %s ", CurateEnvCommand(), p.condaBinary, name), nil
}
