// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package filter

import "github.com/ajroetker/go-recfilter/rf"

// fixupRow adds the effect of the true incoming carry c to a row segment
// that was filtered from a zero carry: seg[j] += Σ_k H[j][k]*c[k].
// The map is affine in c, so fixing up with c1 and c2 differs by exactly
// T(c1) - T(c2).
func fixupRow[T rf.Floats](seg []T, t *Transfer[T], c *rf.Carry[T]) {
	switch {
	case t.unit:
		addConst(seg, c[0], t.lanes)
	case t.order == 1:
		c0 := c[0]
		h := t.h[:len(seg)]
		for j := range seg {
			seg[j] += h[j][0] * c0
		}
	default:
		fixupBlocked(seg, t, c)
	}
}

// addConst adds v to every sample, lanes samples per block so the inner
// loop has a constant trip count the compiler can unroll.
func addConst[T rf.Floats](seg []T, v T, lanes int) {
	j := 0
	for ; j+lanes <= len(seg); j += lanes {
		blk := seg[j : j+lanes : j+lanes]
		for i := range blk {
			blk[i] += v
		}
	}
	for ; j < len(seg); j++ {
		seg[j] += v
	}
}

// fixupBlocked handles orders above one. The carry is consumed one element
// at a time across a block of lanes samples, which keeps a block of
// partial sums live instead of re-reading each H row R times.
func fixupBlocked[T rf.Floats](seg []T, t *Transfer[T], c *rf.Carry[T]) {
	r := t.order
	for j0 := 0; j0 < len(seg); j0 += t.lanes {
		j1 := min(j0+t.lanes, len(seg))
		blk := seg[j0:j1]
		h := t.h[j0:j1]
		for k := range r {
			ck := c[k]
			if ck == 0 {
				continue
			}
			for i := range blk {
				blk[i] += h[i][k] * ck
			}
		}
	}
}
