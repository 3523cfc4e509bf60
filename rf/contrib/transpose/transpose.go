// Copyright 2025 The go-recfilter Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package transpose provides cache-blocked, optionally parallel matrix
// transposition. The filtering pipeline uses it to run its column pass
// with the same row kernels as its row pass.
package transpose

import (
	"github.com/ajroetker/go-recfilter/rf"
)

// blockDim is the side of the square block moved at a time. Both the
// source rows and destination rows of one block stay in L1.
const blockDim = 16

// Transpose2DStrided transposes rows [rowStart, rowEnd) of an M×K matrix
// into columns [rowStart, rowEnd) of the K×M destination.
// dstM is the row stride of the destination (typically M).
//
// Source: src[i*k + j]; destination: dst[j*dstM + i].
func Transpose2DStrided[T rf.Floats](src []T, rowStart, rowEnd, k, dstM int, dst []T) {
	for i0 := rowStart; i0 < rowEnd; i0 += blockDim {
		i1 := min(i0+blockDim, rowEnd)
		for j0 := 0; j0 < k; j0 += blockDim {
			j1 := min(j0+blockDim, k)
			transposeBlock(src, dst, i0, i1, j0, j1, k, dstM)
		}
	}
}

// transposeBlock moves the [i0,i1)×[j0,j1) block. The inner loop walks
// the destination row so stores are sequential.
func transposeBlock[T rf.Floats](src, dst []T, i0, i1, j0, j1, k, dstM int) {
	for j := j0; j < j1; j++ {
		drow := dst[j*dstM:]
		for i := i0; i < i1; i++ {
			drow[i] = src[i*k+j]
		}
	}
}

// Transpose2D transposes an M×K row-major matrix to K×M.
// It does nothing when either buffer is too small.
func Transpose2D[T rf.Floats](src []T, m, k int, dst []T) {
	if len(src) < m*k || len(dst) < k*m {
		return
	}
	Transpose2DStrided(src, 0, m, k, m, dst)
}
