// SPDX-License-Identifier: MPL-2.0

package node

// Range covers a half-open sub-interval [Start, Start+Size) of a node's
// total declared size.
type Range struct {
	Start int
	Size  int
}

// End returns the exclusive upper bound of the range.
func (r Range) End() int { return r.Start + r.Size }

// SplitRanges partitions [0, total) into ceil(total/blockSize)
// non-overlapping ranges of at most blockSize elements each. The final
// range absorbs the remainder. A non-positive block size or total
// yields no ranges.
func SplitRanges(blockSize, total int) []Range {
	if blockSize <= 0 || total <= 0 {
		return nil
	}
	ranges := make([]Range, 0, (total+blockSize-1)/blockSize)
	for start := 0; start < total; start += blockSize {
		size := blockSize
		if start+size > total {
			size = total - start
		}
		ranges = append(ranges, Range{Start: start, Size: size})
	}
	return ranges
}
