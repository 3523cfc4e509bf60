// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"runtime"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestParallelFor(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)
	pool.ParallelFor(n, func(start, end int) {
		for i := start; i < end; i++ {
			results[i] = i * 2
		}
	})

	for i := range n {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForAtomic(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)
	pool.ParallelForAtomic(n, func(i int) {
		results[i] = i * 2
	})

	for i := range n {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForAtomicBatched(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	var visits [100]atomic.Int32
	pool.ParallelForAtomicBatched(n, 7, func(start, end int) {
		for i := start; i < end; i++ {
			visits[i].Add(1)
		}
	})

	for i := range n {
		if got := visits[i].Load(); got != 1 {
			t.Errorf("index %d visited %d times, want 1", i, got)
		}
	}
}

func TestParallelFor2D(t *testing.T) {
	pool := New(3)
	defer pool.Close()

	for _, dims := range [][2]int{{1, 1}, {5, 3}, {3, 17}, {40, 2}} {
		nx, ny := dims[0], dims[1]
		visits := make([]atomic.Int32, nx*ny)
		pool.ParallelFor2D(nx, ny, func(x, y int) {
			visits[y*nx+x].Add(1)
		})
		for i := range visits {
			if got := visits[i].Load(); got != 1 {
				t.Errorf("%dx%d: cell (%d,%d) visited %d times, want 1", nx, ny, i%nx, i/nx, got)
			}
		}
	}
}

// Each call must observe every write made by the previous call.
func TestStageBarrier(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	n := 1000
	stage1 := make([]int, n)
	stage2 := make([]int, n)
	for round := range 20 {
		pool.ParallelForAtomic(n, func(i int) {
			stage1[i] = i + round
		})
		pool.ParallelFor(n, func(start, end int) {
			for i := start; i < end; i++ {
				// Read a value produced by some other worker.
				stage2[i] = stage1[n-1-i]
			}
		})
		for i := range n {
			if stage2[i] != n-1-i+round {
				t.Fatalf("round %d: stage2[%d] = %d, want %d", round, i, stage2[i], n-1-i+round)
			}
		}
	}
}

func TestParallelForSmallN(t *testing.T) {
	pool := New(8)
	defer pool.Close()

	n := 3
	var count atomic.Int32
	pool.ParallelFor(n, func(start, end int) {
		count.Add(int32(end - start))
	})

	if count.Load() != int32(n) {
		t.Errorf("count = %d, want %d", count.Load(), n)
	}
}

func TestParallelForZeroN(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	var called bool
	pool.ParallelFor(0, func(start, end int) { called = true })
	pool.ParallelForAtomic(0, func(i int) { called = true })
	pool.ParallelFor2D(0, 5, func(x, y int) { called = true })
	if called {
		t.Error("zero-sized work should not call fn")
	}
}

func TestNilPoolRunsSequentially(t *testing.T) {
	var pool *Pool
	if pool.NumWorkers() != 1 {
		t.Errorf("nil pool NumWorkers() = %d, want 1", pool.NumWorkers())
	}
	sum := 0
	pool.ParallelFor2D(4, 4, func(x, y int) { sum += x + y })
	if sum != 48 {
		t.Errorf("sum = %d, want 48", sum)
	}
	pool.Close()
}

func TestCloseMultipleTimes(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()

	// Work after close falls back to the caller.
	var count int
	pool.ParallelForAtomic(10, func(i int) { count++ })
	if count != 10 {
		t.Errorf("count = %d, want 10", count)
	}
}

func BenchmarkParallelFor2D(b *testing.B) {
	pool := New(0)
	defer pool.Close()

	data := make([]float32, 64*64*32*32)
	for b.Loop() {
		pool.ParallelFor2D(64, 64, func(x, y int) {
			base := (y*64 + x) * 1024
			for i := range 1024 {
				data[base+i] += 1
			}
		})
	}
}
