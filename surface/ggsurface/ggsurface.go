// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ggsurface is a surface backend that stores textures in gg image
// buffers and draws them through a gg.Context.
//
// Importing the package registers the "gg" backend:
//
//	import _ "github.com/gogpu/paint/surface/ggsurface"
//
//	dc := gg.NewContext(1000, 800)
//	s, _ := surface.New(ggsurface.Factory{}, shared)
//	_ = s.Draw(ggsurface.Drawer{DC: dc}, opts)
package ggsurface

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/paint/surface"
)

func init() {
	surface.Register("gg", 20, func(gpucontext.DeviceProvider) (surface.TextureFactory, error) {
		return Factory{}, nil
	}, nil)
}

// Factory creates Textures backed by gg.ImageBuf.
type Factory struct{}

// NewTexture creates a gg image buffer texture. BGRA8 and RGBA8 are
// supported and stored without conversion.
func (Factory) NewTexture(width, height int, format gputypes.TextureFormat) (surface.Texture, error) {
	var f gg.ImageFormat
	switch format {
	case gputypes.TextureFormatBGRA8Unorm:
		f = gg.FormatBGRA8
	case gputypes.TextureFormatRGBA8Unorm:
		f = gg.FormatRGBA8
	default:
		return nil, surface.ErrUnsupportedFormat
	}

	buf, err := gg.NewImageBuf(width, height, f)
	if err != nil {
		return nil, fmt.Errorf("ggsurface: %w", err)
	}
	return &Texture{buf: buf, format: format}, nil
}

// Texture is a surface.Texture stored in a gg.ImageBuf.
type Texture struct {
	buf       *gg.ImageBuf
	format    gputypes.TextureFormat
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.buf.Width() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.buf.Height() }

// Format returns the texture format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// ImageBuf returns the backing buffer. It aliases the texture.
func (t *Texture) ImageBuf() *gg.ImageBuf { return t.buf }

// WriteRegion copies rows into the image buffer.
func (t *Texture) WriteRegion(origin, size image.Point, data []byte, bytesPerRow int) error {
	if t.destroyed {
		return surface.ErrTextureDestroyed
	}
	if err := surface.CheckRegion(t.Width(), t.Height(), origin, size, data, bytesPerRow); err != nil {
		return err
	}

	rowBytes := size.X * 4
	for y := 0; y < size.Y; y++ {
		row := t.buf.RowBytes(origin.Y + y)
		copy(row[origin.X*4:origin.X*4+rowBytes], data[y*bytesPerRow:])
	}
	// The buffer caches a premultiplied copy for blending.
	t.buf.InvalidatePremulCache()
	return nil
}

// Destroy marks the texture unusable. Destroy is idempotent.
func (t *Texture) Destroy() {
	t.destroyed = true
}

// Drawer draws Textures into a gg.Context.
type Drawer struct {
	// DC is the drawing target.
	DC *gg.Context

	// Scaler resamples the texture when the destination size differs from
	// the texture size. nil means draw.ApproxBiLinear.
	Scaler draw.Scaler
}

// DrawTexture draws tex into dst.Pixels().
//
// gg.Context.DrawImageEx copies at 1:1, so scaled draws are resampled with
// x/image first and the result is composited at its natural size.
func (d Drawer) DrawTexture(tex surface.Texture, dst surface.Rect) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("%w: %T", surface.ErrForeignTexture, tex)
	}
	if t.destroyed {
		return surface.ErrTextureDestroyed
	}
	if d.DC == nil {
		return surface.ErrNilTarget
	}

	r := dst.Pixels()
	if r.Empty() {
		return nil
	}

	src := t.buf
	if r.Dx() != t.Width() || r.Dy() != t.Height() {
		scaled := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		scaler := d.Scaler
		if scaler == nil {
			scaler = draw.ApproxBiLinear
		}
		std := t.buf.ToStdImage()
		scaler.Scale(scaled, scaled.Bounds(), std, std.Bounds(), draw.Src, nil)
		src = gg.ImageBufFromImage(scaled)
	}

	d.DC.DrawImageEx(src, gg.DrawImageOptions{
		X:             float64(r.Min.X),
		Y:             float64(r.Min.Y),
		Interpolation: gg.InterpNearest,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
	return nil
}
