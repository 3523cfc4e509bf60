// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package rf

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeights(t *testing.T) {
	w, err := NewWeights(0.5, -0.25, 0.125)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Order())
	assert.Equal(t, 0.5, w.Feedforward())
	assert.Equal(t, -0.25, w.Feedback(1))
	assert.Equal(t, 0.125, w.Feedback(2))
	assert.Zero(t, w.Feedback(3))
	assert.Zero(t, w.Feedback(0))
	assert.Equal(t, []float64{0.5, -0.25, 0.125}, w.Coefficients())
	assert.False(t, w.IsSAT())
}

func TestNewWeightsRejects(t *testing.T) {
	tests := []struct {
		name   string
		coeffs []float64
	}{
		{"empty", nil},
		{"feedforward_only", []float64{1}},
		{"too_high_order", []float64{1, 1, 1, 1, 1, 1}},
		{"nan", []float64{1, math.NaN()}},
		{"inf", []float64{math.Inf(1), -1}},
		{"zero_feedforward", []float64{0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWeights(tt.coeffs...)
			require.Error(t, err)
			assert.True(t, IsConfigError(err), "got %v", err)
			assert.True(t, errors.Is(err, ErrConfig))
		})
	}
}

func TestSATWeights(t *testing.T) {
	w := SATWeights()
	assert.True(t, w.IsSAT())
	assert.Equal(t, 1, w.Order())
	assert.Equal(t, "{1, -1}", w.String())
	assert.False(t, w.IsZero())
	assert.True(t, Weights{}.IsZero())
}

func TestParseWeights(t *testing.T) {
	w, err := ParseWeights(" 1, -1 ")
	require.NoError(t, err)
	assert.True(t, w.IsSAT())

	w, err = ParseWeights("0.3,-1.2,0.5")
	require.NoError(t, err)
	assert.Equal(t, 2, w.Order())

	_, err = ParseWeights("1,x")
	assert.True(t, IsConfigError(err))
}

func TestKernelStep(t *testing.T) {
	k := KernelOf[float64](SATWeights())
	var c Carry[float64]
	x := []float64{1, 2, 3, 4}
	want := []float64{1, 3, 6, 10}
	for i, v := range x {
		assert.Equal(t, want[i], k.Step(v, &c))
	}
	assert.Equal(t, 10.0, c[0])

	// Order 2: y[i] = x[i] - 0.5*y[i-1] - 0.25*y[i-2]
	w, err := NewWeights(1, 0.5, 0.25)
	require.NoError(t, err)
	k2 := KernelOf[float32](w)
	var c2 Carry[float32]
	assert.Equal(t, float32(1), k2.Step(1, &c2))
	assert.Equal(t, float32(-0.5), k2.Step(0, &c2))
	assert.Equal(t, float32(0), k2.Step(0, &c2))
	assert.Equal(t, [MaxOrder]float32{0, -0.5, 0, 0}, [MaxOrder]float32(c2))
}

func TestCarryIsZero(t *testing.T) {
	var c Carry[float32]
	assert.True(t, c.IsZero(MaxOrder))
	c[2] = 1
	assert.True(t, c.IsZero(2))
	assert.False(t, c.IsZero(3))
}
