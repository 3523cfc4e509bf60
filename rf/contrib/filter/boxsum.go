// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package filter

import (
	"github.com/ajroetker/go-recfilter/rf"
	"github.com/ajroetker/go-recfilter/rf/contrib/image"
)

// BoxSum returns the sum of the source pixels in [x0,x1)×[y0,y1) from
// its summed-area table in four lookups. The rectangle is clipped to the
// image; an empty rectangle sums to zero.
func BoxSum[T rf.Floats](sat *image.Image[T], x0, y0, x1, y1 int) T {
	r := image.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}.Intersect(sat.Bounds())
	if r.IsEmpty() {
		return 0
	}
	// At is zero left of and above the image.
	return sat.At(r.X1-1, r.Y1-1) - sat.At(r.X0-1, r.Y1-1) -
		sat.At(r.X1-1, r.Y0-1) + sat.At(r.X0-1, r.Y0-1)
}
