// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalHeights(assigned []span) int64 {
	var n int64
	for _, sp := range assigned {
		n += sp.length()
	}
	return n
}

func TestPartitionSplitsEvenly(t *testing.T) {
	// 1000 heights over 4 workers: everyone gets 250.
	parts := []span{{Start: 1, End: 1001}}
	assigned := partition(parts, 4)

	require.Len(t, assigned, 4)
	for _, workerParts := range assigned {
		assert.EqualValues(t, 250, totalHeights(workerParts))
	}
}

func TestPartitionRemainderGoesToLastWorker(t *testing.T) {
	parts := []span{{Start: 1, End: 1004}} // 1003 heights
	assigned := partition(parts, 4)

	require.Len(t, assigned, 4)
	assert.EqualValues(t, 250, totalHeights(assigned[0]))
	assert.EqualValues(t, 250, totalHeights(assigned[1]))
	assert.EqualValues(t, 250, totalHeights(assigned[2]))
	assert.EqualValues(t, 253, totalHeights(assigned[3]))
}

func TestPartitionCoversEveryHeightExactlyOnce(t *testing.T) {
	parts := []span{
		{Start: 1, End: 101},
		{Start: 500, End: 517},
		{Start: 900, End: 901},
	}
	assigned := partition(parts, 3)

	seen := map[int64]int{}
	for _, workerParts := range assigned {
		for _, sp := range workerParts {
			for h := sp.Start; h < sp.End; h++ {
				seen[h]++
			}
		}
	}

	var want int64
	for _, sp := range parts {
		for h := sp.Start; h < sp.End; h++ {
			want++
			assert.Equal(t, 1, seen[h], "height %d", h)
		}
	}
	assert.EqualValues(t, want, len(seen))
}

func TestPartitionSingleWorker(t *testing.T) {
	parts := []span{{Start: 10, End: 20}}
	assigned := partition(parts, 1)
	require.Len(t, assigned, 1)
	assert.EqualValues(t, 10, totalHeights(assigned[0]))
}

func TestPartitionTinyRange(t *testing.T) {
	// Fewer heights than workers: everything lands on the last worker.
	parts := []span{{Start: 1, End: 3}}
	assigned := partition(parts, 4)

	var total int64
	for _, workerParts := range assigned {
		total += totalHeights(workerParts)
	}
	assert.EqualValues(t, 2, total)
}
