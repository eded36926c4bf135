// SPDX-License-Identifier: MPL-2.0

// Package shell runs assembled command lines through an in-process
// POSIX shell interpreter (mvdan/sh). Environment command prefixes rely
// on shell features (`unset VAR;` sequences for manager sanitization,
// `$(pwd)` in container mount specs), so command lines are executed as
// shell scripts rather than split into argv directly.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Run executes the command line in dir with both output streams
// attached to the given writers. It returns the exit code of the
// command; err is non-nil only for failures other than a non-zero
// exit (parse errors, interpreter setup, context cancellation).
func Run(ctx context.Context, command, dir string, stdout, stderr io.Writer) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "command")
	if err != nil {
		return -1, fmt.Errorf("failed to parse command line: %w", err)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, stdout, stderr),
	}
	if dir != "" {
		opts = append(opts, interp.Dir(dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return -1, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return int(exitStatus), nil
		}
		return -1, fmt.Errorf("command execution failed: %w", err)
	}

	return 0, nil
}

// Valid reports whether the command line parses as a shell script.
func Valid(command string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(command), "command"); err != nil {
		return fmt.Errorf("command syntax error: %w", err)
	}
	return nil
}
