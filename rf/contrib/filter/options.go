// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package filter

import (
	"github.com/ajroetker/go-recfilter/rf"
	"github.com/ajroetker/go-recfilter/rf/contrib/border"
	"github.com/ajroetker/go-recfilter/rf/contrib/reference"
	"github.com/ajroetker/go-recfilter/rf/contrib/tile"
	"github.com/ajroetker/go-recfilter/rf/contrib/workerpool"
)

// DefaultMaxPixels bounds the extended image (image plus virtual frame)
// a single run may address.
const DefaultMaxPixels = 1 << 28

// Options configures a Pipeline.
type Options struct {
	Weights rf.Weights
	Border  border.Type

	// Extent is the number of virtual tiles on each side of the image.
	Extent int

	// TileSize is the tile edge in pixels. Zero selects tile.DefaultSize.
	TileSize int

	// Symmetric runs the anticausal recurrence after the causal one on
	// each axis.
	Symmetric bool

	Scan ScanMode

	// Pool runs the stages. When nil the pipeline owns a pool of Workers
	// workers (GOMAXPROCS when Workers is zero).
	Pool    *workerpool.Pool
	Workers int

	// MaxPixels bounds the extended image. Zero selects DefaultMaxPixels.
	MaxPixels int
}

// SATOptions returns the options of a plain summed-area table.
func SATOptions() Options {
	return Options{Weights: rf.SATWeights()}
}

func (o Options) tileSize() int {
	if o.TileSize == 0 {
		return tile.DefaultSize
	}
	return o.TileSize
}

func (o Options) maxPixels() int {
	if o.MaxPixels == 0 {
		return DefaultMaxPixels
	}
	return o.MaxPixels
}

// BorderPixels returns the virtual frame width in pixels.
func (o Options) BorderPixels() int {
	return o.Extent * o.tileSize()
}

// Validate checks everything that does not depend on the image.
func (o Options) Validate() error {
	switch {
	case o.Weights.IsZero():
		return rf.ConfigErrorf("filter weights not set")
	case o.Extent < 0:
		return rf.ConfigErrorf("border extent %d must not be negative", o.Extent)
	case o.TileSize < 0:
		return rf.ConfigErrorf("tile size %d must be at least 1", o.TileSize)
	case !o.Border.Valid():
		return rf.ConfigErrorf("invalid border type %d", o.Border)
	case o.Scan != ScanSequential && o.Scan != ScanTree:
		return rf.ConfigErrorf("invalid scan mode %d", o.Scan)
	case o.Workers < 0:
		return rf.ConfigErrorf("worker count %d must not be negative", o.Workers)
	case o.MaxPixels < 0:
		return rf.ConfigErrorf("pixel budget %d must not be negative", o.MaxPixels)
	}
	return nil
}

// CheckSize checks a width×height image against the options.
func (o Options) CheckSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return rf.ConfigErrorf("image dimensions %dx%d must be positive", width, height)
	}
	limit := o.maxPixels()
	e := o.BorderPixels()
	if e > limit || width > limit || height > limit {
		return rf.TooLargef("%dx%d image with %d border pixels exceeds %d pixels", width, height, e, limit)
	}
	ew, eh := width+2*e, height+2*e
	if ew > limit/eh {
		return rf.TooLargef("extended image %dx%d exceeds %d pixels", ew, eh, limit)
	}
	return nil
}

// Reference returns the equivalent options of the sequential reference
// engine, which counts the border in pixels.
func (o Options) Reference() reference.Options {
	return reference.Options{
		Weights:   o.Weights,
		Border:    o.Border,
		Extent:    o.BorderPixels(),
		Symmetric: o.Symmetric,
	}
}
