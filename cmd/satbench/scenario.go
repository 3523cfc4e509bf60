// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-recfilter/rf"
	"github.com/ajroetker/go-recfilter/rf/contrib/border"
	"github.com/ajroetker/go-recfilter/rf/contrib/filter"
)

// defaultSize is the edge of the random image when no size is given.
const defaultSize = 1024

// Scenario is one benchmark configuration, given by flags or a YAML file:
//
//	width: 640
//	height: 480
//	reps: 10
//	weights: [0.36, -1, 0.36]
//	border: reflect
//	extent: 1
//	symmetric: true
type Scenario struct {
	Width     int       `yaml:"width"`
	Height    int       `yaml:"height"`
	Reps      int       `yaml:"reps"`
	Weights   []float64 `yaml:"weights"`
	Extent    int       `yaml:"extent"`
	Border    string    `yaml:"border"`
	Tile      int       `yaml:"tile"`
	Symmetric bool      `yaml:"symmetric"`
	Scan      string    `yaml:"scan"`
	Workers   int       `yaml:"workers"`
	Input     string    `yaml:"input"`
}

// DefaultScenario is a plain summed-area table of a random image.
func DefaultScenario() Scenario {
	return Scenario{
		Reps:    1,
		Weights: rf.SATWeights().Coefficients(),
		Border:  border.Zero.String(),
		Scan:    filter.ScanSequential.String(),
	}
}

// BindFlags registers one flag per field, with sc's values as defaults.
func (sc *Scenario) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&sc.Width, "width", sc.Width, "image width; 0 means 1024 for random input or the file's width")
	fs.IntVar(&sc.Height, "height", sc.Height, "image height; 0 means 1024 for random input or the file's height")
	fs.IntVar(&sc.Reps, "reps", sc.Reps, "number of filtering repetitions")
	fs.Float64SliceVar(&sc.Weights, "weights", sc.Weights, "filter weights a0,b1,...,bR")
	fs.IntVar(&sc.Extent, "extent", sc.Extent, "border extent in tiles on each side")
	fs.StringVar(&sc.Border, "border", sc.Border, "border type: zero, clamp, repeat or reflect")
	fs.IntVar(&sc.Tile, "tile", sc.Tile, "tile size in pixels; 0 selects the default")
	fs.BoolVar(&sc.Symmetric, "symmetric", sc.Symmetric, "add the anticausal pass on each axis")
	fs.StringVar(&sc.Scan, "scan", sc.Scan, "carry propagation: sequential or tree")
	fs.IntVar(&sc.Workers, "workers", sc.Workers, "worker goroutines; 0 means GOMAXPROCS")
	fs.StringVar(&sc.Input, "input", sc.Input, "image file to filter instead of random data")
}

// LoadScenario reads a YAML scenario. Fields absent from the file keep
// their defaults.
func LoadScenario(path string) (Scenario, error) {
	sc := DefaultScenario()
	data, err := os.ReadFile(path)
	if err != nil {
		return sc, errors.Wrap(err, "read scenario")
	}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return sc, rf.ConfigErrorf("parse scenario %s: %v", path, err)
	}
	return sc, nil
}

// Override returns sc with every flag explicitly set in fs taken from
// flags instead.
func (sc Scenario) Override(flags Scenario, fs *pflag.FlagSet) Scenario {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "width":
			sc.Width = flags.Width
		case "height":
			sc.Height = flags.Height
		case "reps":
			sc.Reps = flags.Reps
		case "weights":
			sc.Weights = flags.Weights
		case "extent":
			sc.Extent = flags.Extent
		case "border":
			sc.Border = flags.Border
		case "tile":
			sc.Tile = flags.Tile
		case "symmetric":
			sc.Symmetric = flags.Symmetric
		case "scan":
			sc.Scan = flags.Scan
		case "workers":
			sc.Workers = flags.Workers
		case "input":
			sc.Input = flags.Input
		}
	})
	return sc
}

// Options validates sc and converts it to pipeline options.
func (sc Scenario) Options() (filter.Options, error) {
	var opts filter.Options
	if sc.Reps < 1 {
		return opts, rf.ConfigErrorf("repetitions %d must be at least 1", sc.Reps)
	}
	if sc.Width < 0 || sc.Height < 0 {
		return opts, rf.ConfigErrorf("image dimensions %dx%d must not be negative", sc.Width, sc.Height)
	}
	w, err := rf.NewWeights(sc.Weights...)
	if err != nil {
		return opts, err
	}
	b, err := border.Parse(sc.Border)
	if err != nil {
		return opts, err
	}
	scan, err := filter.ParseScanMode(sc.Scan)
	if err != nil {
		return opts, err
	}
	opts = filter.Options{
		Weights:   w,
		Border:    b,
		Extent:    sc.Extent,
		TileSize:  sc.Tile,
		Symmetric: sc.Symmetric,
		Scan:      scan,
		Workers:   sc.Workers,
	}
	return opts, opts.Validate()
}
