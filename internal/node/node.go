// SPDX-License-Identifier: MPL-2.0

// Package node models a pipeline work unit: its command template, its
// partitioning into chunks, and the per-chunk status records persisted
// next to the chunk logs.
package node

import (
	"fmt"
	"path/filepath"
)

// DefaultRangeTemplate is the placeholder pattern appended to the
// command line of a parallelized chunk. The underlying program is
// expected to recognize these flags.
const DefaultRangeTemplate = "--rangeStart {rangeStart} --rangeSize {rangeSize}"

type (
	// Parallelization declares how a node's total size is split into
	// chunks of at most BlockSize elements.
	Parallelization struct {
		// BlockSize is the maximum number of elements per chunk.
		BlockSize int
		// Size is the node's total declared size.
		Size int
	}

	// Node is a pipeline work unit. It is consumed, not owned: the
	// surrounding engine supplies the template, parameters, and working
	// directory.
	Node struct {
		// Name identifies the node in status records and errors.
		Name string
		// CommandTemplate is the command line with {param} placeholders
		// resolved from Params.
		CommandTemplate string
		// RangeTemplate formats the parallel range suffix. Empty means
		// DefaultRangeTemplate.
		RangeTemplate string
		// Params are the values substituted into CommandTemplate.
		Params map[string]string
		// Parallelization is nil for nodes that run as a single chunk.
		Parallelization *Parallelization
		// WorkDir is the node's internal working directory; chunk logs
		// and status records live there, and commands execute from it.
		WorkDir string
	}

	// Chunk is one unit of work: the whole node, or one range of a
	// parallelized node.
	Chunk struct {
		// Node is the owning node.
		Node *Node
		// Index is the chunk's position among the node's chunks.
		Index int
		// Range is nil when the node is not parallelized.
		Range *Range
		// Record is the chunk's status record, persisted before and
		// after execution.
		Record *StatusRecord
	}
)

// Parallelized reports whether the node declares a chunk partition.
func (n *Node) Parallelized() bool {
	return n.Parallelization != nil
}

// Chunks partitions the node into its execution chunks. A node without
// parallelization yields a single chunk with no range.
func (n *Node) Chunks() []*Chunk {
	if !n.Parallelized() {
		return []*Chunk{{Node: n, Record: NewStatusRecord(n.Name, 0)}}
	}
	ranges := SplitRanges(n.Parallelization.BlockSize, n.Parallelization.Size)
	chunks := make([]*Chunk, len(ranges))
	for i := range ranges {
		r := ranges[i]
		chunks[i] = &Chunk{Node: n, Index: i, Range: &r, Record: NewStatusRecord(n.Name, i)}
	}
	return chunks
}

// ChunkCount returns how many chunks the node partitions into.
func (n *Node) ChunkCount() int {
	if !n.Parallelized() {
		return 1
	}
	return len(SplitRanges(n.Parallelization.BlockSize, n.Parallelization.Size))
}

// EffectiveRangeTemplate returns the range suffix template, falling
// back to DefaultRangeTemplate.
func (n *Node) EffectiveRangeTemplate() string {
	if n.RangeTemplate != "" {
		return n.RangeTemplate
	}
	return DefaultRangeTemplate
}

// fileName suffixes a chunk-owned file with the chunk index when the
// node has more than one chunk, so sibling chunks never collide.
func (c *Chunk) fileName(base string) string {
	if c.Node.ChunkCount() > 1 {
		return fmt.Sprintf("%d.%s", c.Index, base)
	}
	return base
}

// LogPath returns the chunk's log file location under the node's
// working directory.
func (c *Chunk) LogPath() string {
	return filepath.Join(c.Node.WorkDir, c.fileName("log"))
}

// StatusPath returns the chunk's status record location under the
// node's working directory.
func (c *Chunk) StatusPath() string {
	return filepath.Join(c.Node.WorkDir, c.fileName("status"))
}
