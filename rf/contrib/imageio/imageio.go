// Copyright 2025 The go-recfilter Authors. SPDX-License-Identifier: Apache-2.0

// Package imageio converts between image files and the flat float
// buffers the filters consume. The filtering packages never touch files;
// drivers use this package at the edge.
//
// Decoding supports PNG, JPEG and GIF from the standard library and BMP,
// TIFF and WebP from golang.org/x/image. Color input is reduced to luma.
package imageio

import (
	stdimage "image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"math/rand/v2"
	"os"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ajroetker/go-recfilter/rf"
	"github.com/ajroetker/go-recfilter/rf/contrib/image"
)

// Random returns a width×height image of uniform samples in [0, 1). The
// same seed always yields the same image.
func Random[T rf.Floats](width, height int, seed uint64) *image.Image[T] {
	img := image.NewImage[T](width, height)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := img.Data()
	for i := range data {
		data[i] = T(rng.Float64())
	}
	return img
}

// Load decodes the image file at path. See Decode for width and height.
func Load[T rf.Floats](path string, width, height int) (*image.Image[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open input image")
	}
	defer f.Close()
	img, err := Decode[T](f, width, height)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return img, nil
}

// Decode reads an encoded image and returns its luma in [0, 1]. When
// width or height is positive the image is first resized with bilinear
// interpolation; a zero in one of them keeps the aspect ratio.
func Decode[T rf.Floats](r io.Reader, width, height int) (*image.Image[T], error) {
	if width < 0 || height < 0 {
		return nil, rf.ConfigErrorf("target size %dx%d must not be negative", width, height)
	}
	src, format, err := stdimage.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	b := src.Bounds()
	if (width > 0 || height > 0) && (width != b.Dx() || height != b.Dy()) {
		src = resize.Resize(uint(width), uint(height), src, resize.Bilinear)
		b = src.Bounds()
	}
	if b.Empty() {
		return nil, errors.Errorf("decoded %s image is empty", format)
	}

	gray := stdimage.NewGray16(stdimage.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(gray, gray.Bounds(), src, b.Min, xdraw.Src)

	out := image.NewImage[T](b.Dx(), b.Dy())
	for y := range b.Dy() {
		row := out.Row(y)
		for x := range row {
			row[x] = T(gray.Gray16At(x, y).Y) / 65535
		}
	}
	rf.Logger().Debug("decoded image", "format", format, "width", b.Dx(), "height", b.Dy())
	return out, nil
}

// Quantize maps img linearly onto 16-bit gray, sending its minimum to
// black and its maximum to white. A constant image maps to black.
func Quantize[T rf.Floats](img *image.Image[T]) *stdimage.Gray16 {
	gray := stdimage.NewGray16(stdimage.Rect(0, 0, img.Width(), img.Height()))
	data := img.Data()
	if len(data) == 0 {
		return gray
	}
	lo, hi := data[0], data[0]
	for _, v := range data {
		lo, hi = min(lo, v), max(hi, v)
	}
	scale := float64(0)
	if hi > lo {
		scale = 65535 / float64(hi-lo)
	}
	for i, v := range data {
		q := uint16(min(float64(v-lo)*scale+0.5, 65535))
		gray.Pix[2*i] = byte(q >> 8)
		gray.Pix[2*i+1] = byte(q)
	}
	return gray
}

// Encode writes img as a 16-bit gray PNG after Quantize.
func Encode[T rf.Floats](w io.Writer, img *image.Image[T]) error {
	if img.Empty() {
		return rf.ConfigErrorf("cannot encode an empty image")
	}
	return errors.Wrap(png.Encode(w, Quantize(img)), "encode png")
}

// Save writes img to path as PNG.
func Save[T rf.Floats](path string, img *image.Image[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output image")
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}
