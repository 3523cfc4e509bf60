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

package filter

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-recfilter/rf"
)

// Matrix is a fixed-size R×R matrix; only the leading Order()×Order()
// block is meaningful.
type Matrix[T rf.Floats] [rf.MaxOrder][rf.MaxOrder]T

// Identity returns the identity matrix.
func Identity[T rf.Floats]() Matrix[T] {
	var m Matrix[T]
	for i := range rf.MaxOrder {
		m[i][i] = 1
	}
	return m
}

// Transfer is the linear map from a tile's incoming carry to its additive
// effect on the tile's locally filtered samples. It depends only on the
// filter weights and the tile size, so it is computed once per pipeline.
//
// With zero input the recurrence evolves the state
// s_j = (y[j], y[j-1], ..., y[j-R+1]) as s_j = M s_{j-1}, where M is the
// companion matrix of the feedback weights and s_{-1} is the incoming
// carry c. Hence
//
//	y[j] = local[j] + (M^{j+1} c)[0]   (the fix-up)
//	carry out of m samples = M^m c + local carry
type Transfer[T rf.Floats] struct {
	order     int
	size      int
	unit      bool               // every response entry is exactly 1 (SAT)
	h         [][rf.MaxOrder]T   // h[j][k] = (M^{j+1})[0][k]
	full      Matrix[T]          // M^size
	companion *mat.Dense
	lanes     int
}

// NewTransfer computes the transfer map of w for tiles of the given size.
func NewTransfer[T rf.Floats](w rf.Weights, size int) *Transfer[T] {
	r := w.Order()
	data := make([]float64, r*r)
	for k := range r {
		data[k] = -w.Feedback(k + 1)
	}
	for i := 1; i < r; i++ {
		data[i*r+i-1] = 1
	}
	companion := mat.NewDense(r, r, data)

	t := &Transfer[T]{
		order:     r,
		size:      size,
		unit:      true,
		h:         make([][rf.MaxOrder]T, size),
		companion: companion,
		lanes:     rf.MaxLanes[T](),
	}

	cur := mat.DenseCopyOf(companion) // M^1
	next := mat.NewDense(r, r, nil)
	for j := range size {
		for k := range r {
			v := cur.At(0, k)
			t.h[j][k] = T(v)
			if v != 1 {
				t.unit = false
			}
		}
		if j == size-1 {
			t.full = toMatrix[T](cur)
		}
		next.Mul(companion, cur)
		cur, next = next, cur
	}
	if r != 1 {
		t.unit = false
	}
	return t
}

func toMatrix[T rf.Floats](d mat.Matrix) Matrix[T] {
	var m Matrix[T]
	r, c := d.Dims()
	for i := range r {
		for j := range c {
			m[i][j] = T(d.At(i, j))
		}
	}
	return m
}

// Order returns the filter order R.
func (t *Transfer[T]) Order() int { return t.order }

// Size returns the tile size the map was built for.
func (t *Transfer[T]) Size() int { return t.size }

// H returns row j of the map: the effect of each carry element on
// the j-th sample of a tile.
func (t *Transfer[T]) H(j int) [rf.MaxOrder]T {
	return t.h[j]
}

// Effect returns the additive correction of sample j for incoming carry c.
func (t *Transfer[T]) Effect(j int, c *rf.Carry[T]) T {
	var d T
	hj := &t.h[j]
	for k := range t.order {
		d += hj[k] * c[k]
	}
	return d
}

// Carry returns M^m, the map from the carry entering a segment of m
// samples to the carry leaving it (before adding the segment's local carry).
func (t *Transfer[T]) Carry(m int) Matrix[T] {
	if m == t.size {
		return t.full
	}
	var p mat.Dense
	p.Pow(t.companion, m)
	return toMatrix[T](&p)
}
