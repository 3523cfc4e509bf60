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

// Package rf holds the types shared by the recursive-filter engines:
// filter weights, carry state vectors, runtime kernel dispatch, logging
// and configuration errors.
//
// A recursive filter of order R is defined by R+1 weights {a0, b1..bR}
// and evaluates, for each sample along a line,
//
//	y[i] = a0*x[i] - b1*y[i-1] - ... - bR*y[i-R]
//
// The summed-area table is the order-1 filter with weights {1, -1},
// applied along rows and then along columns:
//
//	w := rf.SATWeights()
//	out, err := filter.Filter(img, filter.Options{Weights: w})
package rf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxOrder is the largest filter order supported by the engines.
// Carry state and transfer maps are fixed-size arrays of this length.
const MaxOrder = 4

// Floats is a constraint for the sample types the engines operate on.
type Floats interface {
	~float32 | ~float64
}

// Carry is the feedback state crossing a tile boundary along one line.
// Element k holds y[-1-k] relative to the first sample after the boundary,
// so Carry[0] is the most recent output. Only the first Order() elements
// are meaningful.
type Carry[T Floats] [MaxOrder]T

// IsZero reports whether the first r elements are all zero.
func (c *Carry[T]) IsZero(r int) bool {
	for k := range r {
		if c[k] != 0 {
			return false
		}
	}
	return true
}

// Weights are the immutable coefficients of a recursive filter.
type Weights struct {
	order int
	a0    float64
	b     [MaxOrder]float64
}

// NewWeights builds filter weights from {a0, b1, ..., bR}.
// It fails with ErrConfig when the order is outside [1, MaxOrder]
// or when any coefficient is not finite, and when a0 is zero.
func NewWeights(coeffs ...float64) (Weights, error) {
	r := len(coeffs) - 1
	if r < 1 || r > MaxOrder {
		return Weights{}, ConfigErrorf("filter order %d not in [1, %d]", r, MaxOrder)
	}
	for i, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return Weights{}, ConfigErrorf("weight %d is not finite: %v", i, c)
		}
	}
	if coeffs[0] == 0 {
		return Weights{}, ConfigErrorf("feedforward weight a0 must not be zero")
	}
	w := Weights{order: r, a0: coeffs[0]}
	copy(w.b[:], coeffs[1:])
	return w, nil
}

// SATWeights returns the order-1 weights {1, -1} whose response along a
// line is the running sum.
func SATWeights() Weights {
	return Weights{order: 1, a0: 1, b: [MaxOrder]float64{-1}}
}

// ParseWeights parses a comma separated list such as "1,-1".
func ParseWeights(s string) (Weights, error) {
	fields := strings.Split(s, ",")
	coeffs := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Weights{}, ConfigErrorf("weight %q: %v", f, err)
		}
		coeffs = append(coeffs, v)
	}
	return NewWeights(coeffs...)
}

// Order returns R, the number of feedback weights.
func (w Weights) Order() int {
	return w.order
}

// Feedforward returns a0.
func (w Weights) Feedforward() float64 {
	return w.a0
}

// Feedback returns b_k for k in [1, Order()], and 0 otherwise.
func (w Weights) Feedback(k int) float64 {
	if k < 1 || k > w.order {
		return 0
	}
	return w.b[k-1]
}

// Coefficients returns a fresh slice {a0, b1, ..., bR}.
func (w Weights) Coefficients() []float64 {
	out := make([]float64, 0, w.order+1)
	out = append(out, w.a0)
	return append(out, w.b[:w.order]...)
}

// IsZero reports whether w is the zero value (no order set).
func (w Weights) IsZero() bool {
	return w.order == 0
}

// IsSAT reports whether w are the summed-area table weights.
func (w Weights) IsSAT() bool {
	return w.order == 1 && w.a0 == 1 && w.b[0] == -1
}

func (w Weights) String() string {
	parts := make([]string, 0, w.order+1)
	for _, c := range w.Coefficients() {
		parts = append(parts, strconv.FormatFloat(c, 'g', -1, 64))
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// Kernel holds the weights converted to the sample type, ready for use
// inside the hot loops.
type Kernel[T Floats] struct {
	Order int
	A0    T
	B     [MaxOrder]T
}

// KernelOf converts w to sample type T.
func KernelOf[T Floats](w Weights) Kernel[T] {
	k := Kernel[T]{Order: w.order, A0: T(w.a0)}
	for i := range w.order {
		k.B[i] = T(w.b[i])
	}
	return k
}

// Step evaluates one sample of the causal recurrence given the carry of
// the previous outputs (most recent first) and shifts the carry.
func (k *Kernel[T]) Step(x T, c *Carry[T]) T {
	y := k.A0 * x
	for i := range k.Order {
		y -= k.B[i] * c[i]
	}
	for i := k.Order - 1; i > 0; i-- {
		c[i] = c[i-1]
	}
	c[0] = y
	return y
}
