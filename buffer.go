package paint

import (
	"errors"
	"fmt"
	"image"
)

// Common errors returned by paint operations.
var (
	// ErrOutOfBounds is the panic value of the Must* accessors.
	ErrOutOfBounds = errors.New("paint: pixel out of bounds")

	// ErrDimensionMismatch is returned when a snapshot does not match the
	// dimensions of the buffer it is compared against.
	ErrDimensionMismatch = errors.New("paint: dimension mismatch")

	// ErrInvalidColor is returned by Hex for malformed input.
	ErrInvalidColor = errors.New("paint: invalid color")
)

// BytesPerPixel is the storage size of one pixel.
const BytesPerPixel = 4

// Buffer is the canonical pixel storage of one raster surface.
//
// Pixels are stored row-major, 4 bytes each, in B, G, R, A order; callers
// see R, G, B, A through Color. The length of the storage is always
// width*height*4 and the 4 bytes of a pixel are only ever written together.
//
// Buffer is NOT safe for concurrent use. Share it through Shared.
type Buffer struct {
	width  uint32
	height uint32
	data   []byte
}

// NewBuffer creates a buffer with every pixel set to opaque white.
// Zero width or height is legal and yields an empty buffer.
func NewBuffer(width, height uint32) *Buffer {
	b := &Buffer{
		width:  width,
		height: height,
		data:   make([]byte, int(width)*int(height)*BytesPerPixel),
	}
	b.Fill(White)
	return b
}

// Width returns the width of the buffer in pixels.
func (b *Buffer) Width() uint32 {
	return b.width
}

// Height returns the height of the buffer in pixels.
func (b *Buffer) Height() uint32 {
	return b.height
}

// Area returns width*height.
func (b *Buffer) Area() int {
	return int(b.width) * int(b.height)
}

// Stride returns the number of bytes per row.
func (b *Buffer) Stride() int {
	return int(b.width) * BytesPerPixel
}

// Bounds returns the pixel rectangle covered by the buffer.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(b.width), int(b.height))
}

// Data returns the raw storage in B, G, R, A order.
// The slice aliases the buffer and must not be modified by the caller.
func (b *Buffer) Data() []byte {
	return b.data
}

// offset returns the byte offset of (x, y) and whether it is in bounds.
func (b *Buffer) offset(x, y uint32) (int, bool) {
	if x >= b.width || y >= b.height {
		return 0, false
	}
	return (int(y)*int(b.width) + int(x)) * BytesPerPixel, true
}

// Pixel returns the color at (x, y).
// The second result is false when the coordinates are outside the buffer.
func (b *Buffer) Pixel(x, y uint32) (Color, bool) {
	i, ok := b.offset(x, y)
	if !ok {
		return Color{}, false
	}
	return decode(b.data, i), true
}

// SetPixel writes c at (x, y).
// Out-of-bounds coordinates leave the buffer untouched and return false.
func (b *Buffer) SetPixel(x, y uint32, c Color) bool {
	i, ok := b.offset(x, y)
	if !ok {
		return false
	}
	encode(b.data, i, c)
	return true
}

// MustPixel is like Pixel but panics when (x, y) is out of bounds.
// Use only where out-of-range coordinates are a programming mistake.
func (b *Buffer) MustPixel(x, y uint32) Color {
	c, ok := b.Pixel(x, y)
	if !ok {
		panic(fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height))
	}
	return c
}

// MustSetPixel is like SetPixel but panics when (x, y) is out of bounds.
func (b *Buffer) MustSetPixel(x, y uint32, c Color) {
	if !b.SetPixel(x, y, c) {
		panic(fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height))
	}
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c Color) {
	for i := 0; i < len(b.data); i += BytesPerPixel {
		encode(b.data, i, c)
	}
}

// FillRect sets every pixel of r, clipped to the buffer, to c and
// returns the number of pixels written.
func (b *Buffer) FillRect(r image.Rectangle, c Color) int {
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return 0
	}
	stride := b.Stride()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * stride
		for x := r.Min.X; x < r.Max.X; x++ {
			encode(b.data, row+x*BytesPerPixel, c)
		}
	}
	return r.Dx() * r.Dy()
}

// ContainsPoint reports whether the canvas-space point (x, y) lies inside
// the half-open rectangle [0, width) x [0, height).
func (b *Buffer) ContainsPoint(x, y float64) bool {
	return x >= 0 && x < float64(b.width) && y >= 0 && y < float64(b.height)
}

// PresentationBytes returns a copy of the storage with R and B swapped,
// i.e. in R, G, B, A order. The buffer itself is not modified.
// The cost is proportional to the area; use it for export, not per frame.
func (b *Buffer) PresentationBytes() []byte {
	out := make([]byte, len(b.data))
	for i := 0; i < len(b.data); i += BytesPerPixel {
		out[i+0] = b.data[i+2]
		out[i+1] = b.data[i+1]
		out[i+2] = b.data[i+0]
		out[i+3] = b.data[i+3]
	}
	return out
}

// Image returns a non-premultiplied copy of the buffer as an image.NRGBA.
func (b *Buffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.PresentationBytes(),
		Stride: b.Stride(),
		Rect:   b.Bounds(),
	}
}

// decode reads the pixel stored at byte offset i.
func decode(data []byte, i int) Color {
	p := data[i : i+BytesPerPixel : i+BytesPerPixel]
	return Color{R: p[2], G: p[1], B: p[0], A: p[3]}
}

// encode stores c at byte offset i.
func encode(data []byte, i int, c Color) {
	p := data[i : i+BytesPerPixel : i+BytesPerPixel]
	p[0] = c.B
	p[1] = c.G
	p[2] = c.R
	p[3] = c.A
}
