// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates raw descriptor bytes against an embedded
// CUE schema definition and decodes them into Go values.
package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Result carries the decoded value together with the unified CUE value
// for callers that need further lookups.
type Result[T any] struct {
	// Value is the decoded Go value.
	Value T
	// Unified is the schema-unified CUE value.
	Unified cue.Value
}

// ParseAndDecode validates data (CUE or JSON bytes) against the named
// definition inside schema and decodes the result. The definition name
// includes the leading '#'.
func ParseAndDecode[T any](schema string, data []byte, defName string, opts ...Option) (*Result[T], error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if int64(len(data)) > o.maxFileSize {
		return nil, fmt.Errorf("input size %d exceeds maximum %d bytes", len(data), o.maxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}
	def := schemaValue.LookupPath(cue.ParsePath(defName))
	if def.Err() != nil {
		return nil, fmt.Errorf("internal error: schema has no definition %s: %w", defName, def.Err())
	}

	var compileOpts []cue.BuildOption
	if o.filename != "" {
		compileOpts = append(compileOpts, cue.Filename(o.filename))
	}
	userValue := ctx.CompileBytes(data, compileOpts...)
	if userValue.Err() != nil {
		return nil, userValue.Err()
	}

	unified := def.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, err
	}

	result := &Result[T]{Unified: unified}
	if err := unified.Decode(&result.Value); err != nil {
		return nil, err
	}
	return result, nil
}
