// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"math"
)

// DefaultMinMargin is the smallest gap between the canvas and the edge of
// the viewport, in drawing units.
const DefaultMinMargin uint32 = 50

// Geometry is the layout of the canvas inside the viewport.
type Geometry struct {
	// CanvasWidth and CanvasHeight are the buffer dimensions.
	CanvasWidth, CanvasHeight uint32

	// MarginX and MarginY are the offsets of the canvas from the top-left
	// corner of the drawing context.
	MarginX, MarginY uint32

	// Scale is the display magnification of the canvas. Zero means 1.
	Scale float64
}

// Size returns the displayed canvas size in drawing units.
func (g Geometry) Size() (width, height uint32) {
	return scaled(g.CanvasWidth, g.Scale), scaled(g.CanvasHeight, g.Scale)
}

// Canvas returns the rectangle the canvas image occupies.
func (g Geometry) Canvas() image.Rectangle {
	w, h := g.Size()
	return image.Rect(
		int(g.MarginX),
		int(g.MarginY),
		int(g.MarginX)+int(w),
		int(g.MarginY)+int(h),
	)
}

// Visible maps a rectangle of the drawing context back to buffer pixels,
// clipped to the buffer. Partially covered pixels are included.
func (g Geometry) Visible(area image.Rectangle) image.Rectangle {
	s := g.Scale
	if s == 0 {
		s = 1
	}
	mx, my := float64(g.MarginX), float64(g.MarginY)
	r := image.Rect(
		int(math.Floor((float64(area.Min.X)-mx)/s)),
		int(math.Floor((float64(area.Min.Y)-my)/s)),
		int(math.Ceil((float64(area.Max.X)-mx)/s)),
		int(math.Ceil((float64(area.Max.Y)-my)/s)),
	)
	return r.Intersect(image.Rect(0, 0, int(g.CanvasWidth), int(g.CanvasHeight)))
}

// margin centers size inside alloc but never goes below minimum. An
// allocation smaller than the canvas saturates to minimum.
func margin(alloc, size, minimum uint32) uint32 {
	return max(minimum, satsub(alloc, size)/2)
}

// scaled multiplies n by s, rounding and saturating at math.MaxUint32.
func scaled(n uint32, s float64) uint32 {
	if s == 0 || s == 1 {
		return n
	}
	v := math.Round(float64(n) * s)
	if v >= math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

func satsub(a, b uint32) uint32 {
	if a < b {
		return 0
	}
	return a - b
}

func satadd(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}
