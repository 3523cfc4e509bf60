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

// Package tile partitions an image into the square blocks that form the
// unit of parallel work.
//
// A Grid covers an H×W image with ceil(H/T)×ceil(W/T) stored tiles. With a
// border extent b > 0 it also exposes b rings of virtual tiles around the
// image. A virtual tile holds no data: its samples are computed from the
// border policy, so consumers treat both kinds the same way through
// Tile.Row and Tile.At.
//
// Tile coordinates run over [-b, n+b) on each axis. Leading virtual tiles
// are aligned to the image origin; trailing virtual tiles start right
// after the last pixel, so a partial last stored tile is followed by
// virtual tiles that are full along the out-of-range axis. Along the other
// axis a virtual tile takes the span of its stored neighbour, which may be
// partial; a leading tile beside the last stored row is as tall as that row.
//
//	x pixels:  [-2T,-T) [-T,0) | [0,T) [T,2T) [2T,W) | [W,W+T) [W+T,W+2T)
//	kind:       virtual virtual | stored stored stored | virtual virtual
package tile

import (
	"fmt"

	"github.com/ajroetker/go-recfilter/rf"
	"github.com/ajroetker/go-recfilter/rf/contrib/border"
	"github.com/ajroetker/go-recfilter/rf/contrib/image"
)

// DefaultSize is the tile side used when none is configured.
const DefaultSize = 32

// Kind tags a tile as backed by image storage or derived from the border policy.
type Kind int

const (
	// Stored tiles alias image memory.
	Stored Kind = iota
	// Virtual tiles lie outside the image; their content is computed.
	Virtual
)

func (k Kind) String() string {
	switch k {
	case Stored:
		return "stored"
	case Virtual:
		return "virtual"
	default:
		return "unknown"
	}
}

// Grid is the tile decomposition of one image.
type Grid[T rf.Floats] struct {
	img    *image.Image[T]
	size   int
	extent int
	border border.Type
	nx, ny int
}

// NewGrid decomposes img into size×size tiles with extent rings of
// virtual border tiles.
func NewGrid[T rf.Floats](img *image.Image[T], size, extent int, b border.Type) (*Grid[T], error) {
	switch {
	case img.Empty():
		return nil, rf.ConfigErrorf("cannot tile an empty image")
	case size < 1:
		return nil, rf.ConfigErrorf("tile size %d must be at least 1", size)
	case extent < 0:
		return nil, rf.ConfigErrorf("border extent %d must not be negative", extent)
	case !b.Valid():
		return nil, rf.ConfigErrorf("invalid border type %d", b)
	}
	return &Grid[T]{
		img:    img,
		size:   size,
		extent: extent,
		border: b,
		nx:     (img.Width() + size - 1) / size,
		ny:     (img.Height() + size - 1) / size,
	}, nil
}

// Image returns the image the grid was built over.
func (g *Grid[T]) Image() *image.Image[T] { return g.img }

// Size returns the tile side T.
func (g *Grid[T]) Size() int { return g.size }

// Extent returns the number of virtual tile rings.
func (g *Grid[T]) Extent() int { return g.extent }

// Border returns the policy used for virtual tiles.
func (g *Grid[T]) Border() border.Type { return g.border }

// TilesX returns the number of stored tile columns.
func (g *Grid[T]) TilesX() int { return g.nx }

// TilesY returns the number of stored tile rows.
func (g *Grid[T]) TilesY() int { return g.ny }

// Count returns the total number of tiles, virtual ones included.
func (g *Grid[T]) Count() int {
	return (g.nx + 2*g.extent) * (g.ny + 2*g.extent)
}

// BorderPixels returns the width of the virtual frame in pixels.
func (g *Grid[T]) BorderPixels() int {
	return g.extent * g.size
}

// span returns the pixel range of tile coordinate t along an axis of
// length n holding nt stored tiles.
func (g *Grid[T]) span(t, n, nt int) (int, int) {
	switch {
	case t < 0:
		return t * g.size, (t + 1) * g.size
	case t >= nt:
		start := n + (t-nt)*g.size
		return start, start + g.size
	default:
		return t * g.size, min((t+1)*g.size, n)
	}
}

// Tile returns the tile at tile coordinates (tx, ty), which may be
// negative or beyond the stored range for virtual tiles.
func (g *Grid[T]) Tile(tx, ty int) Tile[T] {
	x0, x1 := g.span(tx, g.img.Width(), g.nx)
	y0, y1 := g.span(ty, g.img.Height(), g.ny)
	kind := Stored
	if tx < 0 || tx >= g.nx || ty < 0 || ty >= g.ny {
		kind = Virtual
	}
	return Tile[T]{
		Kind: kind,
		X:    tx,
		Y:    ty,
		Rect: image.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1},
		grid: g,
	}
}

// Tiles returns every tile in row-major tile order, virtual ones included.
func (g *Grid[T]) Tiles() []Tile[T] {
	out := make([]Tile[T], 0, g.Count())
	for ty := -g.extent; ty < g.ny+g.extent; ty++ {
		for tx := -g.extent; tx < g.nx+g.extent; tx++ {
			out = append(out, g.Tile(tx, ty))
		}
	}
	return out
}

// Tile is one block of a Grid.
type Tile[T rf.Floats] struct {
	Kind Kind
	X, Y int        // tile coordinates
	Rect image.Rect // pixel coordinates, relative to the image origin
	grid *Grid[T]
}

// Stored reports whether the tile aliases image memory.
func (t Tile[T]) Stored() bool { return t.Kind == Stored }

// Width returns the tile width in pixels (smaller than T for a partial edge tile).
func (t Tile[T]) Width() int { return t.Rect.Width() }

// Height returns the tile height in pixels.
func (t Tile[T]) Height() int { return t.Rect.Height() }

func (t Tile[T]) String() string {
	return fmt.Sprintf("%s tile (%d,%d) %dx%d at (%d,%d)", t.Kind, t.X, t.Y, t.Width(), t.Height(), t.Rect.X0, t.Rect.Y0)
}

// At returns the sample at tile-local coordinates (x, y).
func (t Tile[T]) At(x, y int) T {
	img := t.grid.img
	ix, okx := border.Index(t.grid.border, t.Rect.X0+x, img.Width())
	iy, oky := border.Index(t.grid.border, t.Rect.Y0+y, img.Height())
	if !okx || !oky {
		return 0
	}
	return img.At(ix, iy)
}

// Row returns row r of the tile. For a stored tile this is the image
// memory itself and writes go straight to the image. For a virtual tile
// the row is computed into scratch, which must hold at least Width()
// samples, and the returned slice aliases scratch.
func (t Tile[T]) Row(r int, scratch []T) []T {
	img := t.grid.img
	if t.Kind == Stored {
		return img.Row(t.Rect.Y0 + r)[t.Rect.X0:t.Rect.X1]
	}
	out := scratch[:t.Width()]
	iy, ok := border.Index(t.grid.border, t.Rect.Y0+r, img.Height())
	if !ok {
		clear(out)
		return out
	}
	src := img.Row(iy)
	for x := range out {
		out[x] = border.Sample(t.grid.border, src, t.Rect.X0+x)
	}
	return out
}

// Block is a detached copy of one stored tile.
type Block[T rf.Floats] struct {
	Tile Tile[T]
	Data []T // Height()×Width(), row-major
}

// Split copies every stored tile out of the grid's image.
func Split[T rf.Floats](g *Grid[T]) []Block[T] {
	blocks := make([]Block[T], 0, g.nx*g.ny)
	for ty := range g.ny {
		for tx := range g.nx {
			t := g.Tile(tx, ty)
			data := make([]T, 0, t.Width()*t.Height())
			for r := range t.Height() {
				data = append(data, t.Row(r, nil)...)
			}
			blocks = append(blocks, Block[T]{Tile: t, Data: data})
		}
	}
	return blocks
}

// Assemble writes blocks into a new width×height image. Blocks of
// virtual tiles are rejected.
func Assemble[T rf.Floats](blocks []Block[T], width, height int) (*image.Image[T], error) {
	out := image.NewImage[T](width, height)
	if out.Empty() {
		return nil, rf.ConfigErrorf("image dimensions %dx%d must be positive", width, height)
	}
	for _, b := range blocks {
		r := b.Tile.Rect
		if !b.Tile.Stored() || !out.Bounds().Contains(r) {
			return nil, rf.ConfigErrorf("%v does not fit a %dx%d image", b.Tile, width, height)
		}
		if len(b.Data) != r.Width()*r.Height() {
			return nil, rf.ConfigErrorf("%v carries %d samples", b.Tile, len(b.Data))
		}
		for y := range r.Height() {
			copy(out.Row(r.Y0 + y)[r.X0:r.X1], b.Data[y*r.Width():(y+1)*r.Width()])
		}
	}
	return out, nil
}
