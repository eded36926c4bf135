// SPDX-License-Identifier: MPL-2.0

package node

import (
	"path/filepath"
	"testing"
)

func TestChunksSingle(t *testing.T) {
	t.Parallel()

	n := &Node{Name: "resize", CommandTemplate: "resize --input {input}", WorkDir: "/work"}
	chunks := n.Chunks()
	if len(chunks) != 1 {
		t.Fatalf("Chunks() = %d chunks, want 1", len(chunks))
	}
	c := chunks[0]
	if c.Range != nil {
		t.Error("single chunk should carry no range")
	}
	if c.Record == nil || c.Record.Status != StatusNone {
		t.Error("chunk record should start in NONE")
	}
	if got := c.LogPath(); got != filepath.Join("/work", "log") {
		t.Errorf("LogPath() = %q, want unsuffixed log file", got)
	}
	if got := c.StatusPath(); got != filepath.Join("/work", "status") {
		t.Errorf("StatusPath() = %q, want unsuffixed status file", got)
	}
}

func TestChunksParallelized(t *testing.T) {
	t.Parallel()

	n := &Node{
		Name:            "match",
		Parallelization: &Parallelization{BlockSize: 3, Size: 7},
		WorkDir:         "/work",
	}
	chunks := n.Chunks()
	if len(chunks) != 3 {
		t.Fatalf("Chunks() = %d chunks, want 3", len(chunks))
	}

	wantRanges := []Range{{0, 3}, {3, 3}, {6, 1}}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: Index = %d", i, c.Index)
		}
		if c.Range == nil || *c.Range != wantRanges[i] {
			t.Errorf("chunk %d: Range = %v, want %v", i, c.Range, wantRanges[i])
		}
		if got := c.LogPath(); got != filepath.Join("/work", c.fileName("log")) {
			t.Errorf("chunk %d: LogPath() = %q", i, got)
		}
	}

	// Sibling chunks must not collide on their files.
	if chunks[0].LogPath() == chunks[1].LogPath() {
		t.Error("parallel chunks share a log path")
	}
	if chunks[0].StatusPath() == chunks[1].StatusPath() {
		t.Error("parallel chunks share a status path")
	}
}

func TestChunksParallelizedSingleBlock(t *testing.T) {
	t.Parallel()

	// A parallelized node that fits one block still gets unsuffixed files.
	n := &Node{
		Name:            "depth",
		Parallelization: &Parallelization{BlockSize: 10, Size: 4},
		WorkDir:         "/work",
	}
	chunks := n.Chunks()
	if len(chunks) != 1 {
		t.Fatalf("Chunks() = %d chunks, want 1", len(chunks))
	}
	if got := chunks[0].LogPath(); got != filepath.Join("/work", "log") {
		t.Errorf("LogPath() = %q, want unsuffixed log file", got)
	}
}

func TestRangeTemplateDefault(t *testing.T) {
	t.Parallel()

	n := &Node{Name: "match"}
	if got := n.EffectiveRangeTemplate(); got != DefaultRangeTemplate {
		t.Errorf("EffectiveRangeTemplate() = %q, want default", got)
	}
	n.RangeTemplate = "--from {rangeStart} --count {rangeSize}"
	if got := n.EffectiveRangeTemplate(); got != n.RangeTemplate {
		t.Errorf("EffectiveRangeTemplate() = %q, want override", got)
	}
}
