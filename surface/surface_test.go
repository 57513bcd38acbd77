// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"bytes"
	"errors"
	"image"
	"math"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/paint"
)

// writeCall records one WriteRegion invocation.
type writeCall struct {
	origin, size image.Point
	data         []byte
	bytesPerRow  int
}

// mockTexture implements Texture and records uploads. Its pixels are
// reconstructed exactly like a driver would, in BGRA order.
type mockTexture struct {
	width, height int
	format        gputypes.TextureFormat
	pix           []byte
	writes        []writeCall
	failWrite     error
	destroyed     int
}

func (m *mockTexture) Width() int                     { return m.width }
func (m *mockTexture) Height() int                    { return m.height }
func (m *mockTexture) Format() gputypes.TextureFormat { return m.format }
func (m *mockTexture) Destroy()                       { m.destroyed++ }

func (m *mockTexture) WriteRegion(origin, size image.Point, data []byte, bytesPerRow int) error {
	if m.failWrite != nil {
		return m.failWrite
	}
	if err := CheckRegion(m.width, m.height, origin, size, data, bytesPerRow); err != nil {
		return err
	}
	m.writes = append(m.writes, writeCall{origin, size, append([]byte(nil), data...), bytesPerRow})
	for y := 0; y < size.Y; y++ {
		src := data[y*bytesPerRow : y*bytesPerRow+size.X*4]
		off := ((origin.Y+y)*m.width + origin.X) * 4
		copy(m.pix[off:off+size.X*4], src)
	}
	return nil
}

// mockFactory implements TextureFactory for testing.
type mockFactory struct {
	textures []*mockTexture
	failNext error
	shrink   bool
}

func (m *mockFactory) NewTexture(width, height int, format gputypes.TextureFormat) (Texture, error) {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return nil, err
	}
	if m.shrink {
		width--
	}
	tex := &mockTexture{width: width, height: height, format: format, pix: make([]byte, width*height*4)}
	m.textures = append(m.textures, tex)
	return tex, nil
}

// mockDrawer implements TextureDrawer for testing.
type mockDrawer struct {
	drawn     Texture
	dst       Rect
	drawCount int
	fail      error
}

func (m *mockDrawer) DrawTexture(tex Texture, dst Rect) error {
	if m.fail != nil {
		return m.fail
	}
	m.drawn = tex
	m.dst = dst
	m.drawCount++
	return nil
}

func newTestSurface(t *testing.T, w, h uint32) (*Surface, *paint.Shared, *mockTexture) {
	t.Helper()
	shared := paint.NewShared(paint.NewBuffer(w, h))
	f := &mockFactory{}
	s, err := New(f, shared)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, shared, f.textures[0]
}

func TestNew(t *testing.T) {
	shared := paint.NewShared(paint.NewBuffer(800, 600))

	tests := []struct {
		name    string
		factory TextureFactory
		shared  *paint.Shared
		wantErr error
	}{
		{name: "valid", factory: &mockFactory{}, shared: shared},
		{name: "nil factory", factory: nil, shared: shared, wantErr: ErrNilFactory},
		{name: "nil buffer", factory: &mockFactory{}, shared: nil, wantErr: ErrNilBuffer},
		{name: "zero width", factory: &mockFactory{}, shared: paint.NewShared(paint.NewBuffer(0, 10)), wantErr: ErrInvalidDimensions},
		{name: "creation failure", factory: &mockFactory{failNext: errors.New("out of memory")}, shared: shared, wantErr: ErrTextureCreation},
		{name: "wrong size", factory: &mockFactory{shrink: true}, shared: shared, wantErr: ErrTextureCreation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.factory, tt.shared)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error = %v", err)
			}
			defer s.Close()

			if s.Width() != 800 || s.Height() != 600 {
				t.Errorf("size = %dx%d, want 800x600", s.Width(), s.Height())
			}
			if s.Texture().Format() != gputypes.TextureFormatBGRA8Unorm {
				t.Errorf("Format() = %v, want BGRA8Unorm", s.Texture().Format())
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustNew(nil, nil) did not panic")
		}
	}()
	MustNew(nil, nil)
}

func TestSyncRegionUsesFullStride(t *testing.T) {
	s, _, tex := newTestSurface(t, 10, 8)

	if err := s.SyncRegion(image.Rect(2, 3, 5, 6)); err != nil {
		t.Fatalf("SyncRegion() error = %v", err)
	}
	if len(tex.writes) != 1 {
		t.Fatalf("writes = %d, want 1", len(tex.writes))
	}
	w := tex.writes[0]
	if w.origin != image.Pt(2, 3) || w.size != image.Pt(3, 3) {
		t.Errorf("origin=%v size=%v, want (2,3) (3,3)", w.origin, w.size)
	}
	if w.bytesPerRow != 40 {
		t.Errorf("bytesPerRow = %d, want 40 (full buffer stride)", w.bytesPerRow)
	}
	// From pixel (2,3) to pixel (4,5) inclusive: 2 full strides plus 3 pixels.
	if want := 2*40 + 3*4; len(w.data) != want {
		t.Errorf("len(data) = %d, want %d", len(w.data), want)
	}

	st := s.Stats()
	if st.Syncs != 1 || st.Bytes != len(w.data) || st.LastRegion != image.Rect(2, 3, 5, 6) {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestSyncRegionReconstructsPixels(t *testing.T) {
	s, shared, tex := newTestSurface(t, 9, 7)

	shared.Write(func(b *paint.Buffer) {
		for y := uint32(0); y < 7; y++ {
			for x := uint32(0); x < 9; x++ {
				b.SetPixel(x, y, paint.Color{R: uint8(x * 20), G: uint8(y * 30), B: uint8(x + y), A: 255})
			}
		}
	})

	region := image.Rect(1, 2, 6, 5)
	if err := s.SyncRegion(region); err != nil {
		t.Fatalf("SyncRegion() error = %v", err)
	}

	shared.Read(func(b *paint.Buffer) {
		data := b.Data()
		for y := 0; y < 7; y++ {
			for x := 0; x < 9; x++ {
				off := (y*9 + x) * 4
				got := tex.pix[off : off+4]
				inside := image.Pt(x, y).In(region)
				if inside && !bytes.Equal(got, data[off:off+4]) {
					t.Errorf("texture pixel (%d,%d) = %v, want %v", x, y, got, data[off:off+4])
				}
				if !inside && !bytes.Equal(got, []byte{0, 0, 0, 0}) {
					t.Errorf("texture pixel (%d,%d) outside region written: %v", x, y, got)
				}
			}
		}
	})
}

func TestSyncRegionIdempotent(t *testing.T) {
	s, shared, tex := newTestSurface(t, 16, 16)
	shared.Write(func(b *paint.Buffer) {
		b.FillRect(image.Rect(4, 4, 12, 12), paint.Red)
	})

	region := image.Rect(3, 5, 13, 9)
	if err := s.SyncRegion(region); err != nil {
		t.Fatalf("SyncRegion() error = %v", err)
	}
	first := append([]byte(nil), tex.pix...)

	for i := 0; i < 3; i++ {
		if err := s.SyncRegion(region); err != nil {
			t.Fatalf("SyncRegion() error = %v", err)
		}
		if !bytes.Equal(tex.pix, first) {
			t.Fatalf("resync %d changed texture contents", i)
		}
	}
}

func TestSyncRegionClipping(t *testing.T) {
	s, _, tex := newTestSurface(t, 4, 4)

	tests := []struct {
		name      string
		visible   image.Rectangle
		wantWrite bool
		wantSize  image.Point
	}{
		{"empty", image.Rectangle{}, false, image.Point{}},
		{"outside", image.Rect(10, 10, 20, 20), false, image.Point{}},
		{"negative", image.Rect(-5, -5, -1, -1), false, image.Point{}},
		{"overhang", image.Rect(-2, 2, 10, 10), true, image.Pt(4, 2)},
		{"full", image.Rect(0, 0, 4, 4), true, image.Pt(4, 4)},
		{"single pixel", image.Rect(3, 3, 4, 4), true, image.Pt(1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := len(tex.writes)
			if err := s.SyncRegion(tt.visible); err != nil {
				t.Fatalf("SyncRegion(%v) error = %v", tt.visible, err)
			}
			wrote := len(tex.writes) > before
			if wrote != tt.wantWrite {
				t.Fatalf("wrote = %v, want %v", wrote, tt.wantWrite)
			}
			if wrote && tex.writes[len(tex.writes)-1].size != tt.wantSize {
				t.Errorf("size = %v, want %v", tex.writes[len(tex.writes)-1].size, tt.wantSize)
			}
		})
	}
}

func TestSyncRegionFailure(t *testing.T) {
	s, _, tex := newTestSurface(t, 4, 4)
	tex.failWrite = errors.New("device lost")

	if err := s.SyncRegion(image.Rect(0, 0, 4, 4)); !errors.Is(err, ErrTextureUpdate) {
		t.Errorf("SyncRegion() error = %v, want ErrTextureUpdate", err)
	}
}

func TestDraw(t *testing.T) {
	s, _, tex := newTestSurface(t, 80, 60)
	dc := &mockDrawer{}

	opts := DrawOptions{
		Scale:   1.5,
		Visible: image.Rect(0, 0, 40, 30),
		Origin:  Point{X: 100, Y: 50},
	}
	if err := s.Draw(dc, opts); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}

	if dc.drawCount != 1 || dc.drawn != Texture(tex) {
		t.Fatalf("drawCount = %d, drawn = %v", dc.drawCount, dc.drawn)
	}
	want := Rect{X: 100, Y: 50, W: 120, H: 90}
	if dc.dst != want {
		t.Errorf("dst = %+v, want %+v", dc.dst, want)
	}
	if len(tex.writes) != 1 || tex.writes[0].size != image.Pt(40, 30) {
		t.Errorf("Draw() did not sync the visible rectangle: %d writes", len(tex.writes))
	}
}

func TestDrawErrors(t *testing.T) {
	s, _, _ := newTestSurface(t, 4, 4)

	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		dc := &mockDrawer{}
		if err := s.Draw(dc, DrawOptions{Scale: scale}); !errors.Is(err, ErrInvalidScale) {
			t.Errorf("Draw(scale %v) error = %v, want ErrInvalidScale", scale, err)
		}
		if dc.drawCount != 0 {
			t.Errorf("Draw(scale %v) reached the drawer", scale)
		}
	}
	if err := s.Draw(&mockDrawer{fail: errors.New("lost")}, DefaultDrawOptions()); !errors.Is(err, ErrDraw) {
		t.Errorf("Draw(failing drawer) error = %v, want ErrDraw", err)
	}
}

func TestClose(t *testing.T) {
	s, _, tex := newTestSurface(t, 4, 4)

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if tex.destroyed != 1 {
		t.Errorf("texture destroyed %d times, want 1", tex.destroyed)
	}
	if s.Texture() != nil {
		t.Error("Texture() after Close() != nil")
	}
	if err := s.SyncRegion(image.Rect(0, 0, 1, 1)); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("SyncRegion() after Close() error = %v, want ErrSurfaceClosed", err)
	}
	if err := s.Draw(&mockDrawer{}, DefaultDrawOptions()); !errors.Is(err, ErrSurfaceClosed) {
		t.Errorf("Draw() after Close() error = %v, want ErrSurfaceClosed", err)
	}
}

func TestCheckRegion(t *testing.T) {
	data := make([]byte, 100)
	tests := []struct {
		name        string
		origin      image.Point
		size        image.Point
		data        []byte
		bytesPerRow int
		ok          bool
	}{
		{"fits", image.Pt(0, 0), image.Pt(2, 2), data, 16, true},
		{"short last row", image.Pt(1, 1), image.Pt(2, 3), make([]byte, 2*16+8), 16, true},
		{"too short", image.Pt(1, 1), image.Pt(2, 3), make([]byte, 2*16+7), 16, false},
		{"outside", image.Pt(3, 0), image.Pt(2, 1), data, 16, false},
		{"empty", image.Pt(0, 0), image.Pt(0, 1), data, 16, false},
		{"narrow stride", image.Pt(0, 0), image.Pt(4, 1), data, 8, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckRegion(4, 4, tt.origin, tt.size, tt.data, tt.bytesPerRow)
			if tt.ok && err != nil {
				t.Errorf("CheckRegion() error = %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidRegion) {
				t.Errorf("CheckRegion() error = %v, want ErrInvalidRegion", err)
			}
		})
	}
}

func TestRectPixels(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want image.Rectangle
	}{
		{"integral", Rect{X: 5, Y: 6, W: 4, H: 4}, image.Rect(5, 6, 9, 10)},
		{"fractional origin keeps size", Rect{X: 5.5, Y: 6.25, W: 4, H: 4}, image.Rect(5, 6, 9, 10)},
		{"fractional size rounds", Rect{X: 0, Y: 0, W: 4.4, H: 4.6}, image.Rect(0, 0, 4, 5)},
		{"negative origin", Rect{X: -1.5, Y: -0.5, W: 3, H: 2}, image.Rect(-2, -1, 1, 1)},
		{"empty", Rect{X: 3, Y: 3}, image.Rect(3, 3, 3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Pixels(); got != tt.want {
				t.Errorf("Pixels() = %v, want %v", got, tt.want)
			}
		})
	}
}
