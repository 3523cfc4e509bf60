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
	"fmt"

	"github.com/ajroetker/go-recfilter/rf"
)

// ScanMode selects how carries are propagated along a line of tiles.
type ScanMode int

const (
	// ScanSequential walks the tiles of a line in order.
	ScanSequential ScanMode = iota
	// ScanTree runs a Hillis-Steele inclusive scan over affine carry maps.
	// Each of its log2(n) levels is data-parallel.
	ScanTree
)

func (s ScanMode) String() string {
	switch s {
	case ScanSequential:
		return "sequential"
	case ScanTree:
		return "tree"
	default:
		return fmt.Sprintf("ScanMode(%d)", int(s))
	}
}

// ParseScanMode parses "sequential" or "tree".
func ParseScanMode(s string) (ScanMode, error) {
	switch s {
	case "sequential", "seq", "":
		return ScanSequential, nil
	case "tree":
		return ScanTree, nil
	default:
		return ScanSequential, rf.ConfigErrorf("unknown scan mode %q", s)
	}
}

// Affine is the carry map c -> A c + B of one tile or of a run of tiles.
type Affine[T rf.Floats] struct {
	A Matrix[T]
	B rf.Carry[T]
}

// IdentityAffine returns the map that leaves a carry unchanged.
func IdentityAffine[T rf.Floats]() Affine[T] {
	return Affine[T]{A: Identity[T]()}
}

// Apply returns A c + B using the leading r×r block.
func (f *Affine[T]) Apply(c *rf.Carry[T], r int) rf.Carry[T] {
	out := f.B
	for i := range r {
		for k := range r {
			out[i] += f.A[i][k] * c[k]
		}
	}
	return out
}

// Compose returns next ∘ f, the map applying f first and next second.
// Composition is associative, which is what makes the tree scan valid.
func (f *Affine[T]) Compose(next *Affine[T], r int) Affine[T] {
	var out Affine[T]
	for i := range r {
		for j := range r {
			var s T
			for k := range r {
				s += next.A[i][k] * f.A[k][j]
			}
			out.A[i][j] = s
		}
	}
	out.B = next.Apply(&f.B, r)
	return out
}

// propagateSequential computes the true incoming carry of every tile of a
// line: incoming[0] = 0 and incoming[i+1] = A incoming[i] + local[i].
// Every tile but possibly the last is full, so a single A serves the line.
func propagateSequential[T rf.Floats](local, incoming []rf.Carry[T], a *Matrix[T], r int) {
	var c rf.Carry[T]
	if r == 1 {
		a00 := a[0][0]
		for i := range local {
			incoming[i] = c
			c[0] = a00*c[0] + local[i][0]
		}
		return
	}
	f := Affine[T]{A: *a}
	for i := range local {
		incoming[i] = c
		f.B = local[i]
		c = f.Apply(&c, r)
	}
}

// propagateTree computes the same carries as propagateSequential with an
// inclusive scan of the tile maps f_i(c) = A c + local[i]. After the scan
// buf[i] = f_i ∘ ... ∘ f_0, so the carry entering tile i+1 is buf[i](0),
// which is buf[i].B. buf must hold len(local) elements.
func propagateTree[T rf.Floats](local, incoming []rf.Carry[T], a *Matrix[T], r int, buf []Affine[T]) {
	n := len(local)
	if n == 0 {
		return
	}
	for i := range n {
		buf[i] = Affine[T]{A: *a, B: local[i]}
	}
	for d := 1; d < n; d <<= 1 {
		// Descending i keeps buf[i-d] at the previous level's value.
		for i := n - 1; i >= d; i-- {
			buf[i] = buf[i-d].Compose(&buf[i], r)
		}
	}
	incoming[0] = rf.Carry[T]{}
	for i := 1; i < n; i++ {
		incoming[i] = buf[i-1].B
	}
}
