// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package filter

import "github.com/ajroetker/go-recfilter/rf"

// localRow filters one row segment of a tile in place, starting from a
// zero carry, and returns the carry it leaves: the last R outputs, most
// recent first. Segments shorter than R leave zeros in the older slots.
func localRow[T rf.Floats](seg []T, k *rf.Kernel[T]) rf.Carry[T] {
	var c rf.Carry[T]
	if k.Order == 1 {
		a0, b1 := k.A0, k.B[0]
		var y T
		for j, x := range seg {
			y = a0*x - b1*y
			seg[j] = y
		}
		c[0] = y
		return c
	}
	for j, x := range seg {
		seg[j] = k.Step(x, &c)
	}
	return c
}
