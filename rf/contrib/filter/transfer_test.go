// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package filter

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-recfilter/rf"
)

func TestTransferSAT(t *testing.T) {
	tr := NewTransfer[float64](rf.SATWeights(), 8)
	assert.Equal(t, 1, tr.Order())
	assert.Equal(t, 8, tr.Size())
	assert.True(t, tr.unit)
	for j := range tr.Size() {
		assert.Equal(t, 1.0, tr.H(j)[0], "H(%d)", j)
	}
	assert.Equal(t, 1.0, tr.Carry(8)[0][0])
	assert.Equal(t, 1.0, tr.Carry(3)[0][0])
}

func TestTransferOrder2(t *testing.T) {
	w := mustWeights(t, 1, -0.5, 0.25)
	tr := NewTransfer[float64](w, 6)
	assert.False(t, tr.unit)

	// The first response row is the feedback itself.
	assert.Equal(t, [rf.MaxOrder]float64{0.5, -0.25}, tr.H(0))
	c0 := tr.Carry(0)
	assert.Equal(t, [rf.MaxOrder]float64{1, 0}, c0[0])
	assert.Equal(t, [rf.MaxOrder]float64{0, 1}, c0[1])

	c1 := tr.Carry(1)
	assert.Equal(t, 0.5, c1[0][0])
	assert.Equal(t, -0.25, c1[0][1])
	assert.Equal(t, 1.0, c1[1][0])
	assert.Equal(t, 0.0, c1[1][1])

	// Cached full map equals the computed power.
	assert.Equal(t, tr.full, tr.Carry(6))
	for j := range 6 {
		assert.Equal(t, tr.H(j)[0], tr.Carry(j + 1)[0][0], "j=%d", j)
	}
}

// Filtering a segment with a non-zero starting carry equals filtering it
// from zero and fixing it up, and the carry it leaves follows the map.
func TestLocalPlusFixup(t *testing.T) {
	weights := []rf.Weights{
		rf.SATWeights(),
		mustWeights(t, 0.5, -0.5),
		mustWeights(t, 0.36, -1.0, 0.36),
		mustWeights(t, 0.5, -0.6, -0.07, 0.06),
		mustWeights(t, 0.3, -0.8, 0.05, 0.074, -0.012),
	}
	rng := rand.New(rand.NewPCG(1, 2))
	for _, w := range weights {
		const size = 13
		tr := NewTransfer[float64](w, size)
		k := rf.KernelOf[float64](w)
		for _, n := range []int{1, 3, size} {
			seg := make([]float64, n)
			for i := range seg {
				seg[i] = rng.Float64()
			}
			var c rf.Carry[float64]
			for i := range w.Order() {
				c[i] = rng.Float64()*2 - 1
			}

			direct := slices.Clone(seg)
			dc := c
			for i := range direct {
				direct[i] = k.Step(direct[i], &dc)
			}

			local := slices.Clone(seg)
			lc := localRow(local, &k)
			fixupRow(local, tr, &c)
			for i := range local {
				assert.InDelta(t, direct[i], local[i], 1e-12, "%s n=%d i=%d", w, n, i)
			}

			f := Affine[float64]{A: tr.Carry(n), B: lc}
			out := f.Apply(&c, w.Order())
			for i := range w.Order() {
				assert.InDelta(t, dc[i], out[i], 1e-12, "%s n=%d carry %d", w, n, i)
			}
		}
	}
}

func TestFixupIsAffine(t *testing.T) {
	w := mustWeights(t, 1, -0.5, 0.25)
	const size = 8
	tr := NewTransfer[float64](w, size)
	base := []float64{3, -1, 4, 1, -5, 9, 2, -6}
	c1 := rf.Carry[float64]{2, -3}
	c2 := rf.Carry[float64]{-1, 5}

	s1 := slices.Clone(base)
	s2 := slices.Clone(base)
	fixupRow(s1, tr, &c1)
	fixupRow(s2, tr, &c2)
	for j := range size {
		assert.Equal(t, tr.Effect(j, &c1)-tr.Effect(j, &c2), s1[j]-s2[j], "j=%d", j)
	}

	zero := slices.Clone(base)
	fixupRow(zero, tr, &rf.Carry[float64]{})
	require.Equal(t, base, zero)
}

func TestAddConstBlocks(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 33} {
		seg := make([]float32, n)
		addConst(seg, 2.5, 8)
		for i, v := range seg {
			assert.Equal(t, float32(2.5), v, "n=%d i=%d", n, i)
		}
	}
}
