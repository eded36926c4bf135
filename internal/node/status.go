// SPDX-License-Identifier: MPL-2.0

package node

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Chunk execution states, ordered. A record only moves forward through
// this progression; SUCCESS and ERROR are terminal.
const (
	// StatusNone is the initial state before any work starts.
	StatusNone Status = "NONE"
	// StatusBuild marks an environment build in progress.
	StatusBuild Status = "BUILD"
	// StatusRunning marks the chunk's command executing.
	StatusRunning Status = "RUNNING"
	// StatusSuccess marks a zero exit code.
	StatusSuccess Status = "SUCCESS"
	// StatusError marks a non-zero exit code or an execution failure.
	StatusError Status = "ERROR"
)

// ErrStatusRegression is the sentinel error wrapped by StatusRegressionError.
var ErrStatusRegression = errors.New("status regression")

type (
	// Status is a chunk execution state.
	Status string

	// StatusRegressionError is returned when an upgrade targets a state
	// behind the record's current one.
	StatusRegressionError struct {
		From Status
		To   Status
	}

	// StatusRecord is the persisted per-chunk execution record. It is
	// written before execution (carrying the assembled command line) and
	// updated after, so a crash mid-run leaves forensic evidence.
	StatusRecord struct {
		ExecutionID string    `json:"executionId"`
		NodeName    string    `json:"nodeName"`
		Chunk       int       `json:"chunk"`
		Status      Status    `json:"status"`
		CommandLine string    `json:"commandLine,omitempty"`
		ReturnCode  int       `json:"returnCode"`
		StartedAt   time.Time `json:"startedAt,omitzero"`
		FinishedAt  time.Time `json:"finishedAt,omitzero"`
	}
)

// statusRank orders states for regression detection. ERROR and SUCCESS
// share the terminal rank: a record reaches exactly one of them.
var statusRank = map[Status]int{
	StatusNone:    0,
	StatusBuild:   1,
	StatusRunning: 2,
	StatusSuccess: 3,
	StatusError:   3,
}

// String returns the string representation of the Status.
func (s Status) String() string { return string(s) }

// Terminal reports whether the state ends a chunk's lifecycle.
func (s Status) Terminal() bool { return s == StatusSuccess || s == StatusError }

// Error implements the error interface.
func (e *StatusRegressionError) Error() string {
	return fmt.Sprintf("cannot move chunk status from %s back to %s", e.From, e.To)
}

// Unwrap returns ErrStatusRegression so callers can use errors.Is for
// programmatic detection.
func (e *StatusRegressionError) Unwrap() error { return ErrStatusRegression }

// NewStatusRecord creates a fresh record in StatusNone with a unique
// execution ID. The return code starts at -1 to distinguish "never ran"
// from a genuine zero exit.
func NewStatusRecord(nodeName string, chunk int) *StatusRecord {
	return &StatusRecord{
		ExecutionID: uuid.NewString(),
		NodeName:    nodeName,
		Chunk:       chunk,
		Status:      StatusNone,
		ReturnCode:  -1,
	}
}

// Upgrade advances the record to a later state, stamping StartedAt on
// leaving NONE and FinishedAt on reaching a terminal state. Moving
// backwards returns a StatusRegressionError and leaves the record
// unchanged.
func (r *StatusRecord) Upgrade(to Status) error {
	if statusRank[to] < statusRank[r.Status] {
		return &StatusRegressionError{From: r.Status, To: to}
	}
	if r.Status == StatusNone && to != StatusNone {
		r.StartedAt = time.Now().UTC()
	}
	if to.Terminal() {
		r.FinishedAt = time.Now().UTC()
	}
	r.Status = to
	return nil
}

// Save persists the record as indented JSON at path.
func (r *StatusRecord) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode status record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write status record: %w", err)
	}
	return nil
}

// LoadStatusRecord reads a record previously written by Save.
func LoadStatusRecord(path string) (*StatusRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read status record: %w", err)
	}
	var record StatusRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode status record %s: %w", path, err)
	}
	return &record, nil
}
