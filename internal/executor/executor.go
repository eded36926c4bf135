// SPDX-License-Identifier: MPL-2.0

package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"nodeforge/internal/env"
	"nodeforge/internal/node"
	"nodeforge/internal/shell"
)

// ErrExecution is the sentinel error wrapped by ExecutionError.
var ErrExecution = errors.New("chunk execution failed")

type (
	// Executor runs the chunks of one node inside its environment.
	Executor struct {
		// Provider supplies the environment for every chunk of the node.
		Provider env.Provider
		// Ensurer serializes environment builds across concurrent chunks.
		Ensurer *env.Ensurer
	}

	// ExecutionError is returned when a chunk's command exits non-zero.
	// It carries the full captured log so the caller can diagnose the
	// failure without reopening files.
	ExecutionError struct {
		// NodeName identifies the failing node.
		NodeName string
		// Chunk is the failing chunk's index.
		Chunk int
		// ExitCode is the command's exit code.
		ExitCode int
		// Log is the full captured process output.
		Log string
	}
)

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("node %s chunk %d failed with exit code %d", e.NodeName, e.Chunk, e.ExitCode)
}

// Unwrap returns ErrExecution so callers can use errors.Is for programmatic detection.
func (e *ExecutionError) Unwrap() error { return ErrExecution }

// NewExecutor creates an Executor for one node's provider.
func NewExecutor(provider env.Provider, ensurer *env.Ensurer) *Executor {
	if ensurer == nil {
		ensurer = env.NewEnsurer()
	}
	return &Executor{Provider: provider, Ensurer: ensurer}
}

// BuildCommandLine assembles the chunk's full command line: the
// environment prefix, the command template with parameters substituted,
// and the range suffix when the node resolves to more than one chunk.
func (x *Executor) BuildCommandLine(c *node.Chunk) (string, error) {
	prefix, err := x.Provider.CommandPrefix()
	if err != nil {
		return "", err
	}
	command, err := FormatTemplate(c.Node.CommandTemplate, c.Node.Params)
	if err != nil {
		return "", err
	}
	line := prefix + command

	if c.Node.Parallelized() && c.Node.ChunkCount() > 1 && c.Range != nil {
		suffix, err := FormatTemplate(c.Node.EffectiveRangeTemplate(), map[string]string{
			"rangeStart": strconv.Itoa(c.Range.Start),
			"rangeSize":  strconv.Itoa(c.Range.Size),
		})
		if err != nil {
			return "", err
		}
		line += " " + suffix
	}
	return line, nil
}

// ProcessChunk runs one chunk to completion: it ensures the environment
// exists (building it if missing, with build output in the chunk log),
// persists the assembled command line before executing, runs the
// command in the node's working directory with all output captured in
// the log, and records the outcome. A non-zero exit returns an
// ExecutionError carrying the full log text. The log file is closed on
// every exit path.
func (x *Executor) ProcessChunk(ctx context.Context, c *node.Chunk) (err error) {
	if err := os.MkdirAll(c.Node.WorkDir, 0o755); err != nil {
		return fmt.Errorf("failed to create node work dir: %w", err)
	}
	logFile, err := os.Create(c.LogPath())
	if err != nil {
		return fmt.Errorf("failed to open chunk log: %w", err)
	}
	closed := false
	closeLog := func() error {
		if closed {
			return nil
		}
		closed = true
		return logFile.Close()
	}
	defer func() {
		if cerr := closeLog(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close chunk log: %w", cerr)
		}
	}()

	record := c.Record
	save := func() {
		if serr := record.Save(c.StatusPath()); serr != nil {
			slog.Warn("failed to persist chunk status", "node", c.Node.Name, "chunk", c.Index, "error", serr)
		}
	}
	fail := func(cause error) error {
		if uerr := record.Upgrade(node.StatusError); uerr == nil {
			save()
		}
		return cause
	}

	err = x.Ensurer.EnsureBuilt(ctx, x.Provider, logFile, func() {
		if uerr := record.Upgrade(node.StatusBuild); uerr == nil {
			save()
		}
	})
	if err != nil {
		return fail(err)
	}

	cmdLine, err := x.BuildCommandLine(c)
	if err != nil {
		return fail(err)
	}

	// Persist the command line before executing so a crash mid-run
	// leaves forensic evidence.
	record.CommandLine = cmdLine
	if err := record.Upgrade(node.StatusRunning); err != nil {
		return fail(err)
	}
	save()

	slog.Info("executing chunk", "node", c.Node.Name, "chunk", c.Index, "command", cmdLine)

	code, runErr := shell.Run(ctx, cmdLine, c.Node.WorkDir, logFile, logFile)
	record.ReturnCode = code
	if runErr != nil {
		return fail(fmt.Errorf("failed to run chunk command: %w", runErr))
	}

	if code != 0 {
		if uerr := record.Upgrade(node.StatusError); uerr == nil {
			save()
		}
		if cerr := closeLog(); cerr != nil {
			return fmt.Errorf("failed to close chunk log: %w", cerr)
		}
		logText, rerr := os.ReadFile(c.LogPath())
		if rerr != nil {
			slog.Warn("failed to read back chunk log", "node", c.Node.Name, "chunk", c.Index, "error", rerr)
		}
		return &ExecutionError{NodeName: c.Node.Name, Chunk: c.Index, ExitCode: code, Log: string(logText)}
	}

	if err := record.Upgrade(node.StatusSuccess); err != nil {
		return fail(err)
	}
	save()
	return nil
}
