// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// ImageFactory creates CPU textures backed by *image.NRGBA.
//
// It is the software backend: no GPU, no toolkit, suitable for headless
// hosts and tests.
type ImageFactory struct{}

// NewTexture creates an ImageTexture. Only BGRA8 and RGBA8 are supported.
func (ImageFactory) NewTexture(width, height int, format gputypes.TextureFormat) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	switch format {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm:
	default:
		return nil, ErrUnsupportedFormat
	}
	return &ImageTexture{
		img:    image.NewNRGBA(image.Rect(0, 0, width, height)),
		format: format,
	}, nil
}

// ImageTexture is a texture stored as a non-premultiplied RGBA image.
// Uploads in BGRA8 format are swizzled while rows are reconstructed.
type ImageTexture struct {
	img       *image.NRGBA
	format    gputypes.TextureFormat
	destroyed bool
}

// Width returns the texture width in pixels.
func (t *ImageTexture) Width() int { return t.img.Rect.Dx() }

// Height returns the texture height in pixels.
func (t *ImageTexture) Height() int { return t.img.Rect.Dy() }

// Format returns the upload format.
func (t *ImageTexture) Format() gputypes.TextureFormat { return t.format }

// Image returns the texture contents. The image aliases the texture.
func (t *ImageTexture) Image() *image.NRGBA { return t.img }

// WriteRegion copies a block of rows into the texture.
func (t *ImageTexture) WriteRegion(origin, size image.Point, data []byte, bytesPerRow int) error {
	if t.destroyed {
		return ErrTextureDestroyed
	}
	if err := CheckRegion(t.Width(), t.Height(), origin, size, data, bytesPerRow); err != nil {
		return err
	}

	rowBytes := size.X * 4
	swap := t.format == gputypes.TextureFormatBGRA8Unorm
	for y := 0; y < size.Y; y++ {
		src := data[y*bytesPerRow : y*bytesPerRow+rowBytes]
		off := t.img.PixOffset(origin.X, origin.Y+y)
		dst := t.img.Pix[off : off+rowBytes]
		if !swap {
			copy(dst, src)
			continue
		}
		for i := 0; i < rowBytes; i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return nil
}

// Destroy marks the texture unusable. Destroy is idempotent.
func (t *ImageTexture) Destroy() {
	t.destroyed = true
}

// ImageDrawer blits ImageTextures into a draw.Image with an x/image scaler.
type ImageDrawer struct {
	// Dst is the drawing target.
	Dst draw.Image

	// Scaler resamples the texture; nil means draw.ApproxBiLinear.
	Scaler draw.Scaler
}

// DrawTexture scales tex into dst.Pixels(), compositing over the existing
// contents.
func (d ImageDrawer) DrawTexture(tex Texture, dst Rect) error {
	it, ok := tex.(*ImageTexture)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	if it.destroyed {
		return ErrTextureDestroyed
	}
	if d.Dst == nil {
		return ErrNilTarget
	}

	r := dst.Pixels()
	if r.Empty() {
		return nil
	}

	scaler := d.Scaler
	if scaler == nil {
		scaler = draw.ApproxBiLinear
	}
	scaler.Scale(d.Dst, r, it.img, it.img.Bounds(), draw.Over, nil)
	return nil
}
