// SPDX-License-Identifier: MPL-2.0

package node

import (
	"reflect"
	"testing"
)

func TestSplitRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		blockSize int
		total     int
		want      []Range
	}{
		{
			name:      "block 3 total 7",
			blockSize: 3,
			total:     7,
			want:      []Range{{Start: 0, Size: 3}, {Start: 3, Size: 3}, {Start: 6, Size: 1}},
		},
		{
			name:      "exact multiple",
			blockSize: 5,
			total:     10,
			want:      []Range{{Start: 0, Size: 5}, {Start: 5, Size: 5}},
		},
		{
			name:      "single block",
			blockSize: 10,
			total:     4,
			want:      []Range{{Start: 0, Size: 4}},
		},
		{
			name:      "zero total",
			blockSize: 3,
			total:     0,
			want:      nil,
		},
		{
			name:      "zero block size",
			blockSize: 0,
			total:     7,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := SplitRanges(tt.blockSize, tt.total)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitRanges(%d, %d) = %v, want %v", tt.blockSize, tt.total, got, tt.want)
			}
		})
	}
}

func TestSplitRangesPartition(t *testing.T) {
	t.Parallel()

	// Ranges must tile [0, total) without gaps or overlap.
	ranges := SplitRanges(4, 23)
	next := 0
	for i, r := range ranges {
		if r.Start != next {
			t.Errorf("range %d starts at %d, want %d", i, r.Start, next)
		}
		if r.Size <= 0 {
			t.Errorf("range %d has non-positive size %d", i, r.Size)
		}
		next = r.End()
	}
	if next != 23 {
		t.Errorf("ranges cover [0, %d), want [0, 23)", next)
	}
}
