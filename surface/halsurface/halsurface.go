// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package halsurface is a surface backend that keeps presentation textures
// on the GPU through the wgpu HAL.
//
// Textures are created with TextureBinding usage so a host render pass can
// sample Raw() directly. Region uploads go through Queue.WriteTexture with
// the source buffer stride, so only the visible rows are transferred.
//
// Importing the package registers the "hal" backend at the highest
// priority. It is available when the host's DeviceProvider exposes
// HalDevice() and HalQueue().
package halsurface

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/surface"
)

// ErrNoHALProvider is returned by FromProvider when the provider does not
// expose HAL types.
var ErrNoHALProvider = errors.New("halsurface: provider does not expose HAL device and queue")

func init() {
	surface.Register("hal", 100, func(provider gpucontext.DeviceProvider) (surface.TextureFactory, error) {
		f, err := FromProvider(provider)
		if err != nil {
			return nil, err
		}
		return f, nil
	}, nil)
}

// halProvider is implemented by device providers that share their HAL
// device, such as the gogpu application context.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Factory creates GPU textures on one HAL device.
type Factory struct {
	device hal.Device
	queue  hal.Queue
}

// NewFactory returns a Factory that allocates on device and uploads through queue.
func NewFactory(device hal.Device, queue hal.Queue) (*Factory, error) {
	if device == nil || queue == nil {
		return nil, ErrNoHALProvider
	}
	return &Factory{device: device, queue: queue}, nil
}

// FromProvider extracts the HAL device and queue from a gpucontext
// provider and returns a Factory using them. The device stays owned by
// the provider.
func FromProvider(provider gpucontext.DeviceProvider) (*Factory, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return NewFactory(device, queue)
}

// NewTexture creates a 2D texture that can be sampled and written.
func (f *Factory) NewTexture(width, height int, format gputypes.TextureFormat) (surface.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", surface.ErrInvalidDimensions, width, height)
	}
	switch format {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatRGBA8Unorm:
	default:
		return nil, surface.ErrUnsupportedFormat
	}

	tex, err := f.device.CreateTexture(&hal.TextureDescriptor{
		Label: "paint_presentation",
		Size: hal.Extent3D{
			Width:              uint32(width),  //nolint:gosec // checked positive above
			Height:             uint32(height), //nolint:gosec // checked positive above
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}

	paint.Logger().Debug("halsurface: texture created", "width", width, "height", height, "format", format)
	return &Texture{
		device: f.device,
		queue:  f.queue,
		raw:    tex,
		width:  width,
		height: height,
		format: format,
	}, nil
}

// Texture is a surface.Texture living on the GPU.
type Texture struct {
	device hal.Device
	queue  hal.Queue
	raw    hal.Texture
	width  int
	height int
	format gputypes.TextureFormat

	once sync.Once
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.height }

// Format returns the texture format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Raw returns the HAL texture for sampling in a host render pass, or nil
// after Destroy.
func (t *Texture) Raw() hal.Texture { return t.raw }

// WriteRegion queues an upload of the block at origin. The data layout
// carries bytesPerRow unchanged, so the GPU skips the bytes between rows
// that lie outside the block.
func (t *Texture) WriteRegion(origin, size image.Point, data []byte, bytesPerRow int) error {
	if t.raw == nil {
		return surface.ErrTextureDestroyed
	}
	if err := surface.CheckRegion(t.width, t.height, origin, size, data, bytesPerRow); err != nil {
		return err
	}

	dst, layout, extent := regionCopy(t.raw, origin, size, bytesPerRow)
	t.queue.WriteTexture(dst, data, layout, extent)
	return nil
}

// regionCopy describes an upload of a size block at origin whose source
// rows are bytesPerRow apart. Arguments must have passed CheckRegion.
//
//nolint:gosec // CheckRegion bounds every value by the texture size
func regionCopy(raw hal.Texture, origin, size image.Point, bytesPerRow int) (*hal.ImageCopyTexture, *hal.ImageDataLayout, *hal.Extent3D) {
	return &hal.ImageCopyTexture{
			Texture:  raw,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(origin.X), Y: uint32(origin.Y), Z: 0},
		},
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(bytesPerRow),
			RowsPerImage: uint32(size.Y),
		},
		&hal.Extent3D{Width: uint32(size.X), Height: uint32(size.Y), DepthOrArrayLayers: 1}
}

// Destroy releases the GPU texture. Destroy is idempotent.
func (t *Texture) Destroy() {
	t.once.Do(func() {
		if t.raw != nil {
			t.device.DestroyTexture(t.raw)
			t.raw = nil
		}
	})
}
