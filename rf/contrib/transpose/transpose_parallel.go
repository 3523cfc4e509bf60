// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package transpose

import (
	"github.com/ajroetker/go-recfilter/rf"
	"github.com/ajroetker/go-recfilter/rf/contrib/workerpool"
)

// Transpose tuning parameters
const (
	// MinParallelElements is the minimum size before parallelizing.
	MinParallelElements = 64 * 64

	// RowsPerStrip defines how many source rows each work item processes.
	RowsPerStrip = 64
)

// ParallelTranspose2D transposes an M×K row-major matrix to K×M using a
// persistent worker pool. Work is split into horizontal strips of the
// source, which become vertical strips of the destination; strips never
// write the same destination element.
func ParallelTranspose2D[T rf.Floats](pool *workerpool.Pool, src []T, m, k int, dst []T) {
	if len(src) < m*k || len(dst) < k*m {
		return
	}

	if m*k < MinParallelElements || pool.NumWorkers() == 1 {
		Transpose2D(src, m, k, dst)
		return
	}

	numStrips := (m + RowsPerStrip - 1) / RowsPerStrip
	pool.ParallelFor(numStrips, func(start, end int) {
		for strip := start; strip < end; strip++ {
			rowStart := strip * RowsPerStrip
			rowEnd := min(rowStart+RowsPerStrip, m)
			Transpose2DStrided(src, rowStart, rowEnd, k, m, dst)
		}
	})
}
