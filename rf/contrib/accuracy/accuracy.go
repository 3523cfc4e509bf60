// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

// Package accuracy compares an accelerated result against the reference
// pixel by pixel. It reports; it never decides. Callers pick tolerances.
package accuracy

import (
	"fmt"
	"math"

	"github.com/chewxy/math32"

	"github.com/ajroetker/go-recfilter/rf"
	"github.com/ajroetker/go-recfilter/rf/contrib/image"
)

// Metrics holds the maxima of the per-pixel errors.
type Metrics struct {
	MaxAbs float64 // max |got - want|
	MaxRel float64 // max |got - want| / |want| over pixels with want != 0
}

// Within reports whether both maxima are inside the given tolerances.
// NaN metrics are never within tolerance.
func (m Metrics) Within(absTol, relTol float64) bool {
	return m.MaxAbs <= absTol && m.MaxRel <= relTol
}

func (m Metrics) String() string {
	return fmt.Sprintf("max abs error %e, max rel error %e", m.MaxAbs, m.MaxRel)
}

func checkShape(n, m, width, height int) error {
	switch {
	case width <= 0 || height <= 0:
		return rf.ConfigErrorf("image dimensions %dx%d must be positive", width, height)
	case n != m:
		return rf.ConfigErrorf("buffers differ in length: %d vs %d", n, m)
	case n != width*height:
		return rf.ConfigErrorf("buffers hold %d samples, want %d for %dx%d", n, width*height, width, height)
	}
	return nil
}

// Check returns the maximum absolute and relative error of got against
// want, two width×height buffers. err is set only for mismatched shapes.
func Check[T rf.Floats](got, want []T, width, height int) (maxAbs, maxRel float64, err error) {
	if err := checkShape(len(got), len(want), width, height); err != nil {
		return 0, 0, err
	}
	for i, w := range want {
		ref := float64(w)
		d := math.Abs(float64(got[i]) - ref)
		maxAbs = max(maxAbs, d)
		if ref != 0 {
			maxRel = max(maxRel, d/math.Abs(ref))
		}
	}
	return maxAbs, maxRel, nil
}

// Check32 is Check for float32 buffers with the arithmetic kept in
// float32, so the reported errors are those a float32 consumer sees.
func Check32(got, want []float32, width, height int) (maxAbs, maxRel float64, err error) {
	if err := checkShape(len(got), len(want), width, height); err != nil {
		return 0, 0, err
	}
	var a, r float32
	for i, w := range want {
		d := math32.Abs(got[i] - w)
		a = math32.Max(a, d)
		if w != 0 {
			r = math32.Max(r, d/math32.Abs(w))
		}
	}
	return float64(a), float64(r), nil
}

// Compare runs Check on two images.
func Compare[T rf.Floats](got, want *image.Image[T]) (Metrics, error) {
	if got.Empty() || want.Empty() {
		return Metrics{}, rf.ConfigErrorf("cannot compare an empty image")
	}
	if !image.SameSize(got, want) {
		return Metrics{}, rf.ConfigErrorf("image sizes differ: %dx%d vs %dx%d",
			got.Width(), got.Height(), want.Width(), want.Height())
	}
	a, r, err := Check(got.Data(), want.Data(), want.Width(), want.Height())
	return Metrics{MaxAbs: a, MaxRel: r}, err
}
