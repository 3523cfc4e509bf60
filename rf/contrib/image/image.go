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

// Package image provides the dense single-channel buffer the filters run on.
//
// An Image is a width×height row-major slice with no row padding, so the
// backing slice is exactly the flat buffer exchanged at the engine
// boundary. Ownership is explicit: Take moves the buffer out and leaves the
// Image empty, which is how the filtering pipeline claims a buffer for the
// duration of a run.
//
// Example usage:
//
//	img := image.NewImage[float32](640, 480)
//	img.Fill(1)
//	out, err := filter.SAT(img, nil) // img is empty from here on
package image

import (
	"github.com/ajroetker/go-recfilter/rf"
)

// Image is a single-channel 2D array stored row-major.
type Image[T rf.Floats] struct {
	data   []T
	width  int
	height int
}

// NewImage creates a zeroed image with the specified dimensions.
// Non-positive dimensions yield an empty image.
func NewImage[T rf.Floats](width, height int) *Image[T] {
	if width <= 0 || height <= 0 {
		return &Image[T]{}
	}
	return &Image[T]{
		data:   make([]T, width*height),
		width:  width,
		height: height,
	}
}

// FromSlice wraps data as a width×height image. The image takes ownership
// of data; the caller must not keep using it.
func FromSlice[T rf.Floats](data []T, width, height int) (*Image[T], error) {
	if width <= 0 || height <= 0 {
		return nil, rf.ConfigErrorf("image dimensions %dx%d must be positive", width, height)
	}
	if len(data) != width*height {
		return nil, rf.ConfigErrorf("buffer has %d samples, want %d for %dx%d", len(data), width*height, width, height)
	}
	return &Image[T]{data: data, width: width, height: height}, nil
}

// Width returns the image width in pixels.
func (img *Image[T]) Width() int {
	return img.width
}

// Height returns the image height in pixels.
func (img *Image[T]) Height() int {
	return img.height
}

// Len returns the number of samples.
func (img *Image[T]) Len() int {
	return len(img.data)
}

// Empty reports whether the image holds no buffer, either because it was
// created empty or because its buffer was moved out with Take.
func (img *Image[T]) Empty() bool {
	return img == nil || img.data == nil
}

// Data returns the backing row-major buffer.
func (img *Image[T]) Data() []T {
	return img.data
}

// Take moves the buffer out of img and leaves img empty.
func (img *Image[T]) Take() (data []T, width, height int) {
	data, width, height = img.data, img.width, img.height
	img.data, img.width, img.height = nil, 0, 0
	return data, width, height
}

// Row returns a mutable slice for the specified row.
func (img *Image[T]) Row(y int) []T {
	if y < 0 || y >= img.height || img.data == nil {
		return nil
	}
	start := y * img.width
	return img.data[start : start+img.width : start+img.width]
}

// At returns the value at position (x, y), or zero outside the image.
func (img *Image[T]) At(x, y int) T {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || img.data == nil {
		return 0
	}
	return img.data[y*img.width+x]
}

// Set sets the value at position (x, y). Out-of-range writes are ignored.
func (img *Image[T]) Set(x, y int, value T) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || img.data == nil {
		return
	}
	img.data[y*img.width+x] = value
}

// SameSize returns true if both images have the same dimensions.
func SameSize[T, U rf.Floats](a *Image[T], b *Image[U]) bool {
	return a.width == b.width && a.height == b.height
}

// Clone creates a deep copy of the image.
func (img *Image[T]) Clone() *Image[T] {
	if img.data == nil {
		return &Image[T]{}
	}
	clone := &Image[T]{
		data:   make([]T, len(img.data)),
		width:  img.width,
		height: img.height,
	}
	copy(clone.data, img.data)
	return clone
}

// Fill sets all pixels to the specified value.
func (img *Image[T]) Fill(value T) {
	for i := range img.data {
		img.data[i] = value
	}
}

// Rect defines a rectangular region in pixel coordinates. Coordinates may
// be negative or exceed the image size when describing border regions.
type Rect struct {
	X0, Y0 int // Top-left corner (inclusive)
	X1, Y1 int // Bottom-right corner (exclusive)
}

// Width returns the rectangle width.
func (r Rect) Width() int {
	return r.X1 - r.X0
}

// Height returns the rectangle height.
func (r Rect) Height() int {
	return r.Y1 - r.Y0
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Intersect returns the intersection of two rectangles.
func (r Rect) Intersect(other Rect) Rect {
	return Rect{
		X0: max(r.X0, other.X0),
		Y0: max(r.Y0, other.Y0),
		X1: min(r.X1, other.X1),
		Y1: min(r.Y1, other.Y1),
	}
}

// Contains reports whether r fully contains other.
func (r Rect) Contains(other Rect) bool {
	return other.X0 >= r.X0 && other.Y0 >= r.Y0 && other.X1 <= r.X1 && other.Y1 <= r.Y1
}

// Bounds returns the bounding rectangle of the image.
func (img *Image[T]) Bounds() Rect {
	return Rect{X0: 0, Y0: 0, X1: img.width, Y1: img.height}
}
