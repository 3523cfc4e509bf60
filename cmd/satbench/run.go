// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/ajroetker/go-recfilter/rf"
	"github.com/ajroetker/go-recfilter/rf/contrib/accuracy"
	"github.com/ajroetker/go-recfilter/rf/contrib/filter"
	"github.com/ajroetker/go-recfilter/rf/contrib/image"
	"github.com/ajroetker/go-recfilter/rf/contrib/imageio"
	"github.com/ajroetker/go-recfilter/rf/contrib/reference"
	"github.com/ajroetker/go-recfilter/rf/contrib/workerpool"
)

// source returns the input image of sc.
func (sc Scenario) source() (*image.Image[float32], error) {
	if sc.Input != "" {
		return imageio.Load[float32](sc.Input, sc.Width, sc.Height)
	}
	w, h := sc.Width, sc.Height
	if w == 0 {
		w = defaultSize
	}
	if h == 0 {
		h = defaultSize
	}
	return imageio.Random[float32](w, h, 1), nil
}

// Run executes sc and writes the report to out. Every configuration
// error is returned before any filtering starts.
func Run(sc Scenario, out io.Writer) error {
	opts, err := sc.Options()
	if err != nil {
		return err
	}
	src, err := sc.source()
	if err != nil {
		return err
	}
	w, h := src.Width(), src.Height()
	if err := opts.CheckSize(w, h); err != nil {
		return err
	}

	pool := workerpool.New(sc.Workers)
	defer pool.Close()
	opts.Pool = pool
	p, err := filter.NewPipeline[float32](opts)
	if err != nil {
		return err
	}
	defer p.Close()

	want := src.Clone()
	if err := reference.Filter(want.Data(), w, h, opts.Reference()); err != nil {
		return err
	}

	var got *image.Image[float32]
	start := time.Now()
	for range sc.Reps {
		if got, err = p.Run(src.Clone()); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)
	rf.Logger().Info("filtering finished",
		"reps", sc.Reps,
		"elapsed", elapsed,
		"per_rep", elapsed/time.Duration(sc.Reps),
		"workers", pool.NumWorkers())

	maxAbs, maxRel, err := accuracy.Check32(got.Data(), want.Data(), w, h)
	if err != nil {
		return err
	}
	report(out, sc.Reps, opts, w, h, accuracy.Metrics{MaxAbs: maxAbs, MaxRel: maxRel})
	return nil
}

func report(out io.Writer, reps int, opts filter.Options, w, h int, m accuracy.Metrics) {
	if reps > 1 {
		fmt.Fprintf(out, "%e %e\n", m.MaxAbs, m.MaxRel)
		return
	}
	fmt.Fprintf(out, "image:     %dx%d\n", w, h)
	fmt.Fprintf(out, "weights:   %s (order %d)\n", opts.Weights, opts.Weights.Order())
	fmt.Fprintf(out, "border:    %s, %d tiles (%d px)\n", opts.Border, opts.Extent, opts.BorderPixels())
	fmt.Fprintf(out, "symmetric: %t\n", opts.Symmetric)
	fmt.Fprintf(out, "scan:      %s\n", opts.Scan)
	fmt.Fprintf(out, "kernel:    %s, %d lanes\n", rf.CurrentName(), rf.MaxLanes[float32]())
	fmt.Fprintf(out, "max abs error: %e\n", m.MaxAbs)
	fmt.Fprintf(out, "max rel error: %e\n", m.MaxRel)
}
