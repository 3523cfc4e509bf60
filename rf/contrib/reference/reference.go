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

// Package reference is the sequential recursive-filter evaluator used as
// ground truth for the block-parallel engine.
//
// Each row, then each column, is filtered one sample at a time in strict
// index order. The loops must stay in this order: reordering the
// accumulation changes rounding and invalidates tolerance comparisons.
//
// Border handling: every 1D pass logically extends its input line by
// Extent samples on both sides using the border policy, runs the
// recurrence over the extended line and keeps the in-image part.
package reference

import (
	"github.com/ajroetker/go-recfilter/rf"
	"github.com/ajroetker/go-recfilter/rf/contrib/border"
)

// Options configures a reference run.
type Options struct {
	Weights   rf.Weights
	Border    border.Type
	Extent    int  // extension in pixels on each side of every line
	Symmetric bool // also run the anticausal recurrence after each causal pass
}

// Validate checks o for a width×height image stored in n samples.
func (o Options) Validate(n, width, height int) error {
	switch {
	case width <= 0 || height <= 0:
		return rf.ConfigErrorf("image dimensions %dx%d must be positive", width, height)
	case n != width*height:
		return rf.ConfigErrorf("buffer has %d samples, want %d", n, width*height)
	case o.Weights.IsZero():
		return rf.ConfigErrorf("filter weights not set")
	case o.Extent < 0:
		return rf.ConfigErrorf("border extent %d must not be negative", o.Extent)
	case !o.Border.Valid():
		return rf.ConfigErrorf("invalid border type %d", o.Border)
	}
	return nil
}

// Filter applies the 2D recursive filter to data in place.
func Filter[T rf.Floats](data []T, width, height int, opts Options) error {
	if err := opts.Validate(len(data), width, height); err != nil {
		return err
	}
	k := rf.KernelOf[T](opts.Weights)

	for y := range height {
		row := data[y*width : (y+1)*width]
		Causal(row, &k, opts.Border, opts.Extent)
		if opts.Symmetric {
			AntiCausal(row, &k, opts.Border, opts.Extent)
		}
	}

	col := make([]T, height)
	for x := range width {
		for y := range height {
			col[y] = data[y*width+x]
		}
		Causal(col, &k, opts.Border, opts.Extent)
		if opts.Symmetric {
			AntiCausal(col, &k, opts.Border, opts.Extent)
		}
		for y := range height {
			data[y*width+x] = col[y]
		}
	}
	return nil
}

// SAT computes the summed-area table of data in place.
func SAT[T rf.Floats](data []T, width, height int) error {
	return Filter(data, width, height, Options{Weights: rf.SATWeights()})
}

// Causal runs y[i] = a0*x[i] - Σ b_k*y[i-k] over line in increasing order.
// The extent samples before the line are taken from the border policy.
func Causal[T rf.Floats](line []T, k *rf.Kernel[T], b border.Type, extent int) {
	var c rf.Carry[T]
	for p := -extent; p < 0; p++ {
		k.Step(border.Sample(b, line, p), &c)
	}
	for p := range line {
		line[p] = k.Step(line[p], &c)
	}
}

// AntiCausal runs z[i] = a0*y[i] - Σ b_k*z[i+k] over line in decreasing
// order. The extent samples after the line are taken from the border policy.
func AntiCausal[T rf.Floats](line []T, k *rf.Kernel[T], b border.Type, extent int) {
	var c rf.Carry[T]
	n := len(line)
	for p := n - 1 + extent; p >= n; p-- {
		k.Step(border.Sample(b, line, p), &c)
	}
	for p := n - 1; p >= 0; p-- {
		line[p] = k.Step(line[p], &c)
	}
}
