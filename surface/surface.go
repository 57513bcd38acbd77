// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/paint"
)

// Format is the pixel format of every presentation texture. It matches the
// B, G, R, A storage order of paint.Buffer, so uploads copy bytes verbatim.
const Format = gputypes.TextureFormatBGRA8Unorm

// Surface mirrors a paint.Buffer into one texture and blits scaled copies
// of it into drawing contexts.
//
// The Surface owns its TextureFactory and the single texture created from
// it; both live until Close. The texture never changes size: a canvas of a
// different size needs a new Surface.
//
// Surface is NOT safe for concurrent use. Buffer access goes through the
// shared handle's read lock, so edits on other goroutines are fine.
type Surface struct {
	factory TextureFactory
	shared  *paint.Shared
	texture Texture
	width   int
	height  int
	closed  bool
	stats   Stats
}

// Stats counts texture uploads made by a Surface.
type Stats struct {
	// Syncs is the number of non-empty region uploads.
	Syncs int

	// Bytes is the total number of bytes handed to WriteRegion.
	Bytes int

	// LastRegion is the clipped rectangle of the most recent upload.
	LastRegion image.Rectangle
}

// DrawOptions controls Draw.
type DrawOptions struct {
	// Scale is the uniform magnification of the texture; must be positive.
	// Fractional scales rely on the drawer's filtering.
	Scale float64

	// Visible is the buffer rectangle to re-upload before drawing, in pixels.
	// It is clipped to the buffer.
	Visible image.Rectangle

	// Origin is where the top-left corner of the texture is drawn.
	Origin Point
}

// DefaultDrawOptions returns options that draw at scale 1 from (0, 0)
// with nothing to re-upload.
func DefaultDrawOptions() DrawOptions {
	return DrawOptions{Scale: 1}
}

// New creates a Surface for the buffer behind shared and allocates its
// texture from factory.
//
// Returns error if factory or shared is nil, the buffer has zero area,
// or texture creation fails.
func New(factory TextureFactory, shared *paint.Shared) (*Surface, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	if shared == nil {
		return nil, ErrNilBuffer
	}

	w, h := shared.Size()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, w, h)
	}

	tex, err := factory.NewTexture(int(w), int(h), Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTextureCreation, err)
	}
	if tex.Width() != int(w) || tex.Height() != int(h) {
		tex.Destroy()
		return nil, fmt.Errorf("%w: got %dx%d texture for %dx%d buffer",
			ErrTextureCreation, tex.Width(), tex.Height(), w, h)
	}

	paint.Logger().Info("surface: texture allocated", "width", w, "height", h)

	return &Surface{
		factory: factory,
		shared:  shared,
		texture: tex,
		width:   int(w),
		height:  int(h),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(factory TextureFactory, shared *paint.Shared) *Surface {
	s, err := New(factory, shared)
	if err != nil {
		panic(err)
	}
	return s
}

// Width returns the texture width in pixels.
func (s *Surface) Width() int {
	return s.width
}

// Height returns the texture height in pixels.
func (s *Surface) Height() int {
	return s.height
}

// Texture returns the presentation texture, or nil after Close.
func (s *Surface) Texture() Texture {
	if s.closed {
		return nil
	}
	return s.texture
}

// Stats returns the upload counters.
func (s *Surface) Stats() Stats {
	return s.stats
}

// SyncRegion re-uploads the part of the buffer inside visible.
//
// visible is clipped to the buffer; an empty result uploads nothing. The
// uploaded bytes run from the top-left pixel to the bottom-right pixel of
// the clipped rectangle in row-major order, and the texture is told the
// FULL buffer stride. Passing the rectangle's own stride would make the
// texture read every row after the first from the wrong place.
func (s *Surface) SyncRegion(visible image.Rectangle) error {
	if s.closed {
		return ErrSurfaceClosed
	}

	var err error
	s.shared.Read(func(b *paint.Buffer) {
		err = s.syncLocked(b, visible)
	})
	return err
}

// syncLocked uploads the clipped region. The caller holds the read lock.
func (s *Surface) syncLocked(b *paint.Buffer, visible image.Rectangle) error {
	if int(b.Width()) != s.width || int(b.Height()) != s.height {
		return fmt.Errorf("%w: buffer is %dx%d, texture is %dx%d",
			ErrTextureUpdate, b.Width(), b.Height(), s.width, s.height)
	}

	r := visible.Intersect(b.Bounds())
	if r.Empty() {
		return nil
	}

	stride := b.Stride()
	start := r.Min.Y*stride + r.Min.X*paint.BytesPerPixel
	end := (r.Max.Y-1)*stride + r.Max.X*paint.BytesPerPixel
	data := b.Data()[start:end]

	if err := s.texture.WriteRegion(r.Min, r.Size(), data, stride); err != nil {
		return fmt.Errorf("%w: region %v: %w", ErrTextureUpdate, r, err)
	}

	s.stats.Syncs++
	s.stats.Bytes += len(data)
	s.stats.LastRegion = r
	paint.Logger().Debug("surface: region synced", "region", r, "bytes", len(data))
	return nil
}

// Draw re-uploads opts.Visible and then blits the whole texture into dc,
// scaled by opts.Scale with its top-left corner at opts.Origin.
func (s *Surface) Draw(dc TextureDrawer, opts DrawOptions) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	if !(opts.Scale > 0) || math.IsInf(opts.Scale, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, opts.Scale)
	}

	if err := s.SyncRegion(opts.Visible); err != nil {
		return err
	}

	dst := Rect{
		X: opts.Origin.X,
		Y: opts.Origin.Y,
		W: opts.Scale * float64(s.width),
		H: opts.Scale * float64(s.height),
	}
	if err := dc.DrawTexture(s.texture, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrDraw, err)
	}
	return nil
}

// Close destroys the texture. Close is idempotent.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	s.factory = nil
	return nil
}
