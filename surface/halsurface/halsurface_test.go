// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halsurface

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/surface"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

// countingDevice counts DestroyTexture calls.
type countingDevice struct {
	hal.Device
	destroyed int
}

func (d *countingDevice) DestroyTexture(texture hal.Texture) {
	d.destroyed++
	d.Device.DestroyTexture(texture)
}

// mockProvider implements gpucontext.DeviceProvider and optionally exposes HAL types.
type mockProvider struct {
	device any
	queue  any
}

func (m *mockProvider) Device() gpucontext.Device             { return nil }
func (m *mockProvider) Queue() gpucontext.Queue               { return nil }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

// Compile-time checks that the mocks satisfy the provider contract.
var (
	_ gpucontext.DeviceProvider = (*mockProvider)(nil)
	_ gpucontext.DeviceProvider = (*mockHALProvider)(nil)
)

type mockHALProvider struct {
	mockProvider
}

func (m *mockHALProvider) HalDevice() any { return m.device }
func (m *mockHALProvider) HalQueue() any  { return m.queue }

func TestNewFactory(t *testing.T) {
	device, queue := createNoopDevice(t)

	if _, err := NewFactory(nil, queue); !errors.Is(err, ErrNoHALProvider) {
		t.Errorf("NewFactory(nil device) error = %v", err)
	}
	if _, err := NewFactory(device, nil); !errors.Is(err, ErrNoHALProvider) {
		t.Errorf("NewFactory(nil queue) error = %v", err)
	}
	if _, err := NewFactory(device, queue); err != nil {
		t.Errorf("NewFactory() error = %v", err)
	}
}

func TestFromProvider(t *testing.T) {
	device, queue := createNoopDevice(t)

	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		ok       bool
	}{
		{"hal provider", &mockHALProvider{mockProvider{device, queue}}, true},
		{"plain provider", &mockProvider{device, queue}, false},
		{"wrong device type", &mockHALProvider{mockProvider{"device", queue}}, false},
		{"nil queue", &mockHALProvider{mockProvider{device, nil}}, false},
		{"nil provider", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := FromProvider(tt.provider)
			if tt.ok {
				if err != nil || f == nil {
					t.Fatalf("FromProvider() = %v, %v", f, err)
				}
				return
			}
			if !errors.Is(err, ErrNoHALProvider) {
				t.Errorf("FromProvider() error = %v, want ErrNoHALProvider", err)
			}
		})
	}
}

func TestNewTexture(t *testing.T) {
	device, queue := createNoopDevice(t)
	f, _ := NewFactory(device, queue)

	tex, err := f.NewTexture(64, 32, surface.Format)
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	defer tex.Destroy()

	if tex.Width() != 64 || tex.Height() != 32 || tex.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("texture = %dx%d %v", tex.Width(), tex.Height(), tex.Format())
	}
	if tex.(*Texture).Raw() == nil {
		t.Error("Raw() = nil")
	}

	if _, err := f.NewTexture(0, 32, surface.Format); !errors.Is(err, surface.ErrInvalidDimensions) {
		t.Errorf("NewTexture(0, 32) error = %v", err)
	}
	if _, err := f.NewTexture(4, 4, gputypes.TextureFormatR8Unorm); !errors.Is(err, surface.ErrUnsupportedFormat) {
		t.Errorf("NewTexture(R8) error = %v", err)
	}
}

func TestRegionCopy(t *testing.T) {
	dst, layout, extent := regionCopy(nil, image.Pt(100, 50), image.Pt(200, 200), 800*4)

	if dst.Origin != (hal.Origin3D{X: 100, Y: 50}) {
		t.Errorf("Origin = %+v, want {100 50 0}", dst.Origin)
	}
	if layout.BytesPerRow != 800*4 {
		t.Errorf("BytesPerRow = %d, want %d (source stride)", layout.BytesPerRow, 800*4)
	}
	if layout.RowsPerImage != 200 {
		t.Errorf("RowsPerImage = %d, want 200", layout.RowsPerImage)
	}
	if *extent != (hal.Extent3D{Width: 200, Height: 200, DepthOrArrayLayers: 1}) {
		t.Errorf("extent = %+v", *extent)
	}
}

func TestSyncRegionUpload(t *testing.T) {
	device, queue := createNoopDevice(t)
	f, _ := NewFactory(device, queue)

	shared := paint.NewShared(paint.NewBuffer(800, 600))
	s, err := surface.New(f, shared)
	if err != nil {
		t.Fatalf("surface.New() error = %v", err)
	}
	defer s.Close()

	if err := s.SyncRegion(image.Rect(100, 50, 300, 250)); err != nil {
		t.Fatalf("SyncRegion() error = %v", err)
	}
	st := s.Stats()
	if want := 199*800*4 + 200*4; st.Bytes != want {
		t.Errorf("uploaded %d bytes, want %d", st.Bytes, want)
	}
}

func TestWriteRegionInvalid(t *testing.T) {
	device, queue := createNoopDevice(t)
	f, _ := NewFactory(device, queue)

	tex, _ := f.NewTexture(4, 4, surface.Format)
	defer tex.Destroy()

	err := tex.WriteRegion(image.Pt(3, 3), image.Pt(2, 2), make([]byte, 64), 16)
	if !errors.Is(err, surface.ErrInvalidRegion) {
		t.Errorf("WriteRegion() error = %v, want ErrInvalidRegion", err)
	}
}

func TestDestroyIdempotent(t *testing.T) {
	device, queue := createNoopDevice(t)
	cd := &countingDevice{Device: device}
	f, _ := NewFactory(cd, queue)

	tex, err := f.NewTexture(8, 8, surface.Format)
	if err != nil {
		t.Fatalf("NewTexture() error = %v", err)
	}
	tex.Destroy()
	tex.Destroy()

	if cd.destroyed != 1 {
		t.Errorf("DestroyTexture calls = %d, want 1", cd.destroyed)
	}
	if tex.(*Texture).Raw() != nil {
		t.Error("Raw() after Destroy != nil")
	}
	if err := tex.WriteRegion(image.Pt(0, 0), image.Pt(1, 1), make([]byte, 4), 4); !errors.Is(err, surface.ErrTextureDestroyed) {
		t.Errorf("WriteRegion() after Destroy error = %v", err)
	}
}

func TestRegistryFallback(t *testing.T) {
	// Without a HAL provider the registry falls back to a CPU backend.
	f, err := surface.NewFactory(nil)
	if err != nil {
		t.Fatalf("surface.NewFactory(nil) error = %v", err)
	}
	if _, ok := f.(*Factory); ok {
		t.Error("hal backend selected without a device")
	}

	device, queue := createNoopDevice(t)
	f, err = surface.NewFactory(&mockHALProvider{mockProvider{device, queue}})
	if err != nil {
		t.Fatalf("surface.NewFactory() error = %v", err)
	}
	if _, ok := f.(*Factory); !ok {
		t.Errorf("factory = %T, want *Factory", f)
	}
}
