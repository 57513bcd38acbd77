// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"
)

// Texture is a display-side pixel store with a fixed size and format.
//
// Implementations wrap a toolkit resource: a GPU texture, a gg image
// buffer, or a plain in-memory image.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Format returns the pixel format fixed at creation.
	Format() gputypes.TextureFormat

	// WriteRegion uploads a size.X by size.Y block of pixels whose top-left
	// pixel lands at origin. Row r of the block starts at data[r*bytesPerRow];
	// only the first size.X*4 bytes of each row are read, so the last row may
	// be short. bytesPerRow is the stride of the SOURCE buffer, which is
	// wider than the block for partial-width updates.
	WriteRegion(origin, size image.Point, data []byte, bytesPerRow int) error

	// Destroy releases the underlying resource. Destroy is idempotent.
	Destroy()
}

// TextureFactory allocates textures for one toolkit.
type TextureFactory interface {
	// NewTexture creates a texture of the given size and format.
	NewTexture(width, height int, format gputypes.TextureFormat) (Texture, error)
}

// TextureDrawer is a drawing context that can blit a whole texture into a
// destination rectangle, scaling as needed. It is borrowed for the duration
// of one draw and never retained.
type TextureDrawer interface {
	DrawTexture(tex Texture, dst Rect) error
}

// Rect is a destination rectangle in drawing-context units.
type Rect struct {
	X, Y float64
	W, H float64
}

// Pixels returns the pixel-aligned rectangle for r. The origin is floored
// and the size rounded, so a fractional origin never changes the size.
func (r Rect) Pixels() image.Rectangle {
	x, y := int(math.Floor(r.X)), int(math.Floor(r.Y))
	return image.Rect(x, y, x+int(math.Round(r.W)), y+int(math.Round(r.H)))
}

// Point is a position in drawing-context units.
type Point struct {
	X, Y float64
}

// regionBytes returns the number of bytes WriteRegion reads for a block
// of the given size with the given stride.
func regionBytes(size image.Point, bytesPerRow int) int {
	if size.X <= 0 || size.Y <= 0 {
		return 0
	}
	return (size.Y-1)*bytesPerRow + size.X*4
}

// CheckRegion validates WriteRegion arguments against a texture of the
// given dimensions. Backends call it before touching their storage.
func CheckRegion(texW, texH int, origin, size image.Point, data []byte, bytesPerRow int) error {
	r := image.Rectangle{Min: origin, Max: origin.Add(size)}
	switch {
	case size.X <= 0 || size.Y <= 0 || !r.In(image.Rect(0, 0, texW, texH)):
		return &RegionError{Region: r, Width: texW, Height: texH, Reason: "out of bounds"}
	case bytesPerRow < size.X*4:
		return &RegionError{Region: r, Width: texW, Height: texH,
			Reason: fmt.Sprintf("stride %d shorter than a row", bytesPerRow)}
	case len(data) < regionBytes(size, bytesPerRow):
		return &RegionError{Region: r, Width: texW, Height: texH,
			Reason: fmt.Sprintf("%d bytes, need %d", len(data), regionBytes(size, bytesPerRow))}
	}
	return nil
}
