// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/surface"
)

// ErrPaint wraps failures reported by a Painter while filling or stroking.
var ErrPaint = errors.New("render: painter failed")

// Painter is the subset of a 2D drawing context the Renderer issues
// commands to. *gg.Context satisfies it.
type Painter interface {
	SetRGB(r, g, b float64)
	SetLineWidth(width float64)
	DrawRectangle(x, y, w, h float64)
	Fill() error
	Stroke() error
	Width() int
	Height() int
}

// ring is one stroke of the drop shadow.
type ring struct {
	offset float64 // distance outside the canvas edge
	shade  float64 // darkness; the stroke gray is 1-shade
}

// shadowRings go from the innermost, darkest ring outwards.
var shadowRings = [...]ring{
	{offset: 0.5, shade: 0.6},
	{offset: 1.5, shade: 0.3},
	{offset: 2.5, shade: 0.15},
}

// Renderer places the canvas in the viewport and draws it with its
// background and drop shadow.
type Renderer struct {
	shared     *paint.Shared
	surface    *surface.Surface
	minMargin  uint32
	background gg.RGBA

	allocWidth, allocHeight uint32

	// viewport is the host-visible part of the buffer; empty means all.
	viewport image.Rectangle
	scale    float64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSurface makes Draw blit the buffer pixels through s instead of the
// white placeholder. s must mirror the same shared buffer.
func WithSurface(s *surface.Surface) Option {
	return func(r *Renderer) {
		r.surface = s
	}
}

// WithMinMargin sets the minimum margin around the canvas.
func WithMinMargin(m uint32) Option {
	return func(r *Renderer) {
		r.minMargin = m
	}
}

// WithBackground sets the viewport background color. Alpha is ignored.
func WithBackground(c gg.RGBA) Option {
	return func(r *Renderer) {
		r.background = c
	}
}

// DefaultBackground is the light gray behind the canvas.
var DefaultBackground = gg.RGBA{R: 0.9, G: 0.9, B: 0.9, A: 1}

// New creates a Renderer for the buffer behind shared.
func New(shared *paint.Shared, opts ...Option) *Renderer {
	r := &Renderer{
		shared:     shared,
		minMargin:  DefaultMinMargin,
		background: DefaultBackground,
		scale:      1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetAllocation records the size of the viewport the canvas is laid out in.
// It only stores the values; nothing is drawn.
func (r *Renderer) SetAllocation(width, height uint32) {
	r.allocWidth = width
	r.allocHeight = height
}

// Allocation returns the last viewport size passed to SetAllocation.
func (r *Renderer) Allocation() (width, height uint32) {
	return r.allocWidth, r.allocHeight
}

// SetViewport records the host's scroll and zoom state for the next
// draws. visible is the part of the buffer, in pixels, the host can show;
// the empty rectangle means the whole buffer. scale magnifies the canvas
// and must be positive and finite.
func (r *Renderer) SetViewport(visible image.Rectangle, scale float64) error {
	if !(scale > 0) || math.IsInf(scale, 1) {
		return fmt.Errorf("%w: %v", surface.ErrInvalidScale, scale)
	}
	r.viewport = visible.Canon()
	r.scale = scale
	return nil
}

// Viewport returns the values last passed to SetViewport.
func (r *Renderer) Viewport() (visible image.Rectangle, scale float64) {
	return r.viewport, r.scale
}

// MinTotalSize returns the displayed canvas size plus the minimum margin on
// both sides of each axis. Hosts use it as the minimum widget size. The
// result saturates at math.MaxUint32.
func (r *Renderer) MinTotalSize() (width, height uint32) {
	w, h := r.Geometry().Size()
	m := satadd(r.minMargin, r.minMargin)
	return satadd(w, m), satadd(h, m)
}

// Geometry returns the canvas layout for the current allocation and scale.
func (r *Renderer) Geometry() Geometry {
	w, h := r.shared.Size()
	dw, dh := scaled(w, r.scale), scaled(h, r.scale)
	return Geometry{
		CanvasWidth:  w,
		CanvasHeight: h,
		MarginX:      margin(r.allocWidth, dw, r.minMargin),
		MarginY:      margin(r.allocHeight, dh, r.minMargin),
		Scale:        r.scale,
	}
}

// Draw paints the background over all of p, strokes the drop shadow, and
// then draws the canvas image at the margin offset.
//
// With a surface and a non-nil dc, the image step re-uploads only the
// buffer pixels that land inside p and inside the viewport, then blits the
// texture into dc at the viewport scale. Otherwise it fills a white
// rectangle where the image would be. Any painter or surface failure is
// returned; callers treat it as fatal.
func (r *Renderer) Draw(p Painter, dc surface.TextureDrawer) error {
	g := r.Geometry()

	p.SetRGB(r.background.R, r.background.G, r.background.B)
	p.DrawRectangle(0, 0, float64(p.Width()), float64(p.Height()))
	if err := p.Fill(); err != nil {
		return fmt.Errorf("%w: background: %w", ErrPaint, err)
	}

	if err := r.drawShadow(p, g); err != nil {
		return err
	}

	if r.surface != nil && dc != nil {
		visible := g.Visible(image.Rect(0, 0, p.Width(), p.Height()))
		if !r.viewport.Empty() {
			visible = visible.Intersect(r.viewport)
		}
		return r.surface.Draw(dc, surface.DrawOptions{
			Scale:   r.scale,
			Visible: visible,
			Origin:  surface.Point{X: float64(g.MarginX), Y: float64(g.MarginY)},
		})
	}

	cw, ch := g.Size()
	p.SetRGB(1, 1, 1)
	p.DrawRectangle(float64(g.MarginX), float64(g.MarginY), float64(cw), float64(ch))
	if err := p.Fill(); err != nil {
		return fmt.Errorf("%w: placeholder: %w", ErrPaint, err)
	}
	return nil
}

func (r *Renderer) drawShadow(p Painter, g Geometry) error {
	mx, my := float64(g.MarginX), float64(g.MarginY)
	w, h := g.Size()
	cw, ch := float64(w), float64(h)

	p.SetLineWidth(1)
	for _, s := range shadowRings {
		l := 1 - s.shade
		p.SetRGB(l, l, l)
		p.DrawRectangle(mx-s.offset, my-s.offset, cw+2*s.offset, ch+2*s.offset)
		if err := p.Stroke(); err != nil {
			return fmt.Errorf("%w: shadow: %w", ErrPaint, err)
		}
	}
	return nil
}
