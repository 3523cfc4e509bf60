// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package border

import (
	"fmt"
	"testing"

	"github.com/ajroetker/go-recfilter/rf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleAtEdges(t *testing.T) {
	line := []float32{10, 20, 30, 40, 50}
	w := len(line)
	tests := []struct {
		border Type
		minus1 float32
		atW    float32
	}{
		{Zero, 0, 0},
		{Clamp, line[0], line[w-1]},
		{Repeat, line[w-1], line[0]},
		{Reflect, line[1], line[w-2]},
	}
	for _, tt := range tests {
		t.Run(tt.border.String(), func(t *testing.T) {
			for i, v := range line {
				assert.Equal(t, v, Sample(tt.border, line, i), "in-range sample %d", i)
			}
			assert.Equal(t, tt.minus1, Sample(tt.border, line, -1))
			assert.Equal(t, tt.atW, Sample(tt.border, line, w))
		})
	}
}

func TestIndexFarOutside(t *testing.T) {
	const n = 4
	// Reference sequences for coordinates -9..12.
	want := map[Type][]int{
		Clamp:   {0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3},
		Repeat:  {3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0},
		Reflect: {3, 2, 1, 0, 1, 2, 3, 2, 1, 0, 1, 2, 3, 2, 1, 0, 1, 2, 3, 2, 1, 0},
	}
	for border, seq := range want {
		t.Run(border.String(), func(t *testing.T) {
			for k, w := range seq {
				i := k - 9
				got, ok := Index(border, i, n)
				require.True(t, ok)
				assert.Equal(t, w, got, "Index(%v, %d, %d)", border, i, n)
			}
		})
	}
	for i := -9; i < 13; i++ {
		_, ok := Index(Zero, i, n)
		assert.Equal(t, i >= 0 && i < n, ok, "Zero at %d", i)
	}
}

func TestSingleSampleLine(t *testing.T) {
	line := []float64{7}
	for _, b := range []Type{Clamp, Repeat, Reflect} {
		for i := -5; i <= 5; i++ {
			assert.Equal(t, 7.0, Sample(b, line, i), "%v at %d", b, i)
		}
	}
	assert.Equal(t, 0.0, Sample(Zero, line, -1))
}

func TestParse(t *testing.T) {
	for _, b := range []Type{Zero, Clamp, Repeat, Reflect} {
		got, err := Parse(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
	got, err := Parse(" Reflect ")
	require.NoError(t, err)
	assert.Equal(t, Reflect, got)

	_, err = Parse("mirror")
	assert.True(t, rf.IsConfigError(err))
	assert.False(t, Type(7).Valid())
	assert.Equal(t, "unknown", Type(-1).String())
}

func BenchmarkIndex(b *testing.B) {
	for _, border := range []Type{Zero, Clamp, Repeat, Reflect} {
		b.Run(fmt.Sprint(border), func(b *testing.B) {
			var sink int
			for i := 0; i < b.N; i++ {
				j, _ := Index(border, i%97-48, 32)
				sink += j
			}
			_ = sink
		})
	}
}
