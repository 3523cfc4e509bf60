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

package transpose

import (
	"fmt"
	"slices"
	"testing"

	"github.com/ajroetker/go-recfilter/rf/contrib/workerpool"
)

var sizes = []struct{ m, k int }{
	{1, 1}, {4, 4}, {16, 16}, {32, 32},
	{64, 64}, {256, 256},
	{1, 9}, {9, 1}, {5, 7}, {17, 23}, {100, 200}, {130, 67},
}

func referenceTranspose(src []float32, m, k int) []float32 {
	want := make([]float32, m*k)
	for i := 0; i < m; i++ {
		for j := 0; j < k; j++ {
			want[j*m+i] = src[i*k+j]
		}
	}
	return want
}

func TestTranspose2D(t *testing.T) {
	for _, size := range sizes {
		t.Run(fmt.Sprintf("%dx%d", size.m, size.k), func(t *testing.T) {
			src := make([]float32, size.m*size.k)
			for i := range src {
				src[i] = float32(i)
			}
			got := make([]float32, size.k*size.m)
			Transpose2D(src, size.m, size.k, got)

			want := referenceTranspose(src, size.m, size.k)
			if !slices.Equal(got, want) {
				for i := range got {
					if got[i] != want[i] {
						t.Fatalf("first difference at index %d: got %v, want %v", i, got[i], want[i])
					}
				}
			}
		})
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	m, k := 37, 91
	src := make([]float64, m*k)
	for i := range src {
		src[i] = float64(i) * 0.5
	}
	tmp := make([]float64, m*k)
	back := make([]float64, m*k)
	Transpose2D(src, m, k, tmp)
	Transpose2D(tmp, k, m, back)
	if !slices.Equal(src, back) {
		t.Error("transpose twice should reproduce the input")
	}
}

func TestTransposeShortBufferIsNoop(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6}
	dst := []float64{9, 9, 9, 9, 9}
	Transpose2D(src, 2, 3, dst)
	if !slices.Equal(dst, []float64{9, 9, 9, 9, 9}) {
		t.Errorf("short destination was written: %v", dst)
	}
	ParallelTranspose2D(nil, src, 3, 3, dst)
	if !slices.Equal(dst, []float64{9, 9, 9, 9, 9}) {
		t.Errorf("short source was read: %v", dst)
	}
}

func TestParallelTranspose2D(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	for _, size := range sizes {
		t.Run(fmt.Sprintf("%dx%d", size.m, size.k), func(t *testing.T) {
			src := make([]float32, size.m*size.k)
			for i := range src {
				src[i] = float32(i%251) - 100
			}
			got := make([]float32, size.k*size.m)
			ParallelTranspose2D(pool, src, size.m, size.k, got)
			if !slices.Equal(got, referenceTranspose(src, size.m, size.k)) {
				t.Errorf("parallel transpose mismatch at %dx%d", size.m, size.k)
			}
		})
	}
}

func TestTransposeShortBuffers(t *testing.T) {
	dst := []float32{9, 9, 9, 9}
	Transpose2D([]float32{1, 2, 3}, 2, 2, dst)
	if !slices.Equal(dst, []float32{9, 9, 9, 9}) {
		t.Errorf("short source must leave dst untouched, got %v", dst)
	}
}

func BenchmarkParallelTranspose2D(b *testing.B) {
	pool := workerpool.New(0)
	defer pool.Close()

	for _, n := range []int{256, 1024, 2048} {
		src := make([]float32, n*n)
		dst := make([]float32, n*n)
		b.Run(fmt.Sprintf("%d", n), func(b *testing.B) {
			b.SetBytes(int64(n * n * 4 * 2))
			for b.Loop() {
				ParallelTranspose2D(pool, src, n, n, dst)
			}
		})
	}
}
