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
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ajroetker/go-recfilter/rf"
	"github.com/ajroetker/go-recfilter/rf/contrib/border"
	"github.com/ajroetker/go-recfilter/rf/contrib/image"
	"github.com/ajroetker/go-recfilter/rf/contrib/tile"
	"github.com/ajroetker/go-recfilter/rf/contrib/transpose"
	"github.com/ajroetker/go-recfilter/rf/contrib/workerpool"
)

// Stage is the position of a pipeline inside a run.
type Stage int

const (
	// RowPass filters along x.
	RowPass Stage = iota
	// ColumnPass filters along y through a transposed copy.
	ColumnPass
	// Done means the last run finished.
	Done
)

func (s Stage) String() string {
	switch s {
	case RowPass:
		return "row-pass"
	case ColumnPass:
		return "column-pass"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Pipeline runs the block-parallel filter. It is built once per
// configuration and reused across images; a Pipeline must not run two
// images at the same time.
type Pipeline[T rf.Floats] struct {
	opts     Options
	size     int
	kernel   rf.Kernel[T]
	transfer *Transfer[T]
	full     Matrix[T]

	pool    *workerpool.Pool
	ownPool bool

	stage   Stage
	spare   []T // transposition buffer, grown on demand
	scratch sync.Pool
	log     *slog.Logger
}

// NewPipeline validates opts and precomputes the transfer map.
func NewPipeline[T rf.Floats](opts Options) (*Pipeline[T], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	size := opts.tileSize()
	p := &Pipeline[T]{
		opts:     opts,
		size:     size,
		kernel:   rf.KernelOf[T](opts.Weights),
		transfer: NewTransfer[T](opts.Weights, size),
		pool:     opts.Pool,
		stage:    Done,
	}
	p.full = p.transfer.Carry(size)
	if p.pool == nil {
		p.pool = workerpool.New(opts.Workers)
		p.ownPool = true
	}
	p.scratch.New = func() any {
		buf := make([]T, size)
		return &buf
	}
	p.log = rf.Logger().With(
		"weights", opts.Weights.String(),
		"border", opts.Border.String(),
		"extent", opts.Extent,
		"tile", size,
	)
	return p, nil
}

// Options returns the configuration the pipeline was built with.
func (p *Pipeline[T]) Options() Options { return p.opts }

// Transfer returns the precomputed tile transfer map.
func (p *Pipeline[T]) Transfer() *Transfer[T] { return p.transfer }

// Stage returns the current stage; Done between runs.
func (p *Pipeline[T]) Stage() Stage { return p.stage }

// Close releases the pool if the pipeline created it.
func (p *Pipeline[T]) Close() {
	if p.ownPool {
		p.pool.Close()
	}
	p.spare = nil
}

// Run filters img and returns the result. The buffer is moved out of img,
// which is left empty, and written in place; the returned image owns it.
// Errors are reported before the buffer is moved.
func (p *Pipeline[T]) Run(img *image.Image[T]) (*image.Image[T], error) {
	if img.Empty() {
		return nil, rf.ConfigErrorf("empty image")
	}
	if err := p.opts.CheckSize(img.Width(), img.Height()); err != nil {
		return nil, err
	}
	work, err := image.FromSlice(img.Take())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	p.stage = RowPass
	for p.stage != Done {
		t0 := time.Now()
		switch p.stage {
		case RowPass:
			p.axis(work)
			p.log.Debug("pass finished", "stage", p.stage, "elapsed", time.Since(t0))
			p.stage = ColumnPass
		case ColumnPass:
			p.columns(work)
			p.log.Debug("pass finished", "stage", p.stage, "elapsed", time.Since(t0))
			p.stage = Done
		}
	}
	p.log.Debug("run finished", "width", work.Width(), "height", work.Height(), "elapsed", time.Since(start))
	return work, nil
}

// columns runs the row filter on the transpose of img and transposes back.
func (p *Pipeline[T]) columns(img *image.Image[T]) {
	w, h := img.Width(), img.Height()
	n := w * h
	if cap(p.spare) < n {
		p.spare = make([]T, n)
	}
	// Both transposes are silent no-ops on short buffers, so buf and the
	// image must each hold exactly w*h samples here.
	buf := p.spare[:n]
	transpose.ParallelTranspose2D(p.pool, img.Data(), h, w, buf)
	t, _ := image.FromSlice(buf, h, w)
	p.axis(t)
	transpose.ParallelTranspose2D(p.pool, buf, w, h, img.Data())
}

// axis runs the causal row filter and, in symmetric mode, the anticausal
// one as a causal filter over reversed rows.
func (p *Pipeline[T]) axis(img *image.Image[T]) {
	p.causal(img)
	if !p.opts.Symmetric {
		return
	}
	p.reverseRows(img)
	p.causal(img)
	p.reverseRows(img)
}

func (p *Pipeline[T]) reverseRows(img *image.Image[T]) {
	p.pool.ParallelFor(img.Height(), func(start, end int) {
		for y := start; y < end; y++ {
			slices.Reverse(img.Row(y))
		}
	})
}

// causal filters every row of img along x in three stages. Each stage is
// one pool call and its return is the barrier before the next.
//
// A line is one image row crossing b leading virtual tiles and nx stored
// tiles. Trailing virtual tiles cannot influence a causal pass and are
// not visited.
func (p *Pipeline[T]) causal(img *image.Image[T]) {
	g, err := tile.NewGrid(img, p.size, p.opts.Extent, p.opts.Border)
	if err != nil {
		// Options and sizes were validated before the run started.
		panic(err)
	}
	nx, ny, b := g.TilesX(), g.TilesY(), g.Extent()
	h := img.Height()
	line := b + nx
	r := p.kernel.Order
	local := make([]rf.Carry[T], h*line)
	incoming := make([]rf.Carry[T], h*line)

	// Stage 1: local filtering from a zero carry. Virtual tiles read the
	// image through the border policy, so they run before any stored tile
	// is overwritten. A zero border produces zero carries and is skipped.
	if b > 0 && g.Border() != border.Zero {
		p.pool.ParallelForAtomic(b*ny, func(idx int) {
			i, ty := idx%b, idx/b
			t := g.Tile(i-b, ty)
			bufp := p.scratch.Get().(*[]T)
			for row := range t.Height() {
				seg := t.Row(row, *bufp)
				local[(t.Rect.Y0+row)*line+i] = localRow(seg, &p.kernel)
			}
			p.scratch.Put(bufp)
		})
	}
	p.pool.ParallelFor2D(nx, ny, func(tx, ty int) {
		t := g.Tile(tx, ty)
		for row := range t.Height() {
			local[(t.Rect.Y0+row)*line+b+tx] = localRow(t.Row(row, nil), &p.kernel)
		}
	})

	// Stage 2: carry propagation, one line per work item.
	p.pool.ParallelFor(h, func(start, end int) {
		var buf []Affine[T]
		if p.opts.Scan == ScanTree {
			buf = make([]Affine[T], line)
		}
		for y := start; y < end; y++ {
			l := local[y*line : (y+1)*line]
			in := incoming[y*line : (y+1)*line]
			if buf != nil {
				propagateTree(l, in, &p.full, r, buf)
			} else {
				propagateSequential(l, in, &p.full, r)
			}
		}
	})

	// Stage 3: fix up stored tiles with their true incoming carries.
	p.pool.ParallelFor2D(nx, ny, func(tx, ty int) {
		t := g.Tile(tx, ty)
		for row := range t.Height() {
			c := &incoming[(t.Rect.Y0+row)*line+b+tx]
			if c.IsZero(r) {
				continue
			}
			fixupRow(t.Row(row, nil), p.transfer, c)
		}
	})
}

// Filter runs the 2D recursive filter described by opts on img. The buffer
// is moved out of img and returned, filtered in place, as a new image.
func Filter[T rf.Floats](img *image.Image[T], opts Options) (*image.Image[T], error) {
	p, err := NewPipeline[T](opts)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Run(img)
}

// SAT computes the summed-area table of img with the given pool, which
// may be nil. Like Filter it takes ownership of img's buffer.
func SAT[T rf.Floats](img *image.Image[T], pool *workerpool.Pool) (*image.Image[T], error) {
	opts := SATOptions()
	opts.Pool = pool
	return Filter(img, opts)
}
