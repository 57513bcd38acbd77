// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render lays out a paint canvas inside a viewport and draws it.
//
// A Renderer knows the canvas size (from the shared buffer) and the last
// viewport allocation reported by the host. From those it derives the
// margins that center the canvas, and it draws three layers in order:
//
//  1. a light-gray background over the whole drawing context
//  2. a drop shadow of three stroked rings around the canvas
//  3. the canvas pixels, blitted through a surface.Surface, or a white
//     placeholder when no surface is configured
//
// Only the buffer pixels that fall inside the drawing context and the
// host's viewport (SetViewport) are re-uploaded on each Draw.
//
// # Key Principle
//
// The Renderer issues drawing commands into a context it BORROWS for one
// Draw call. It never retains the context and never creates one.
//
// # Usage
//
// Integration with gg:
//
//	shared := paint.NewShared(paint.NewBuffer(800, 600))
//	s, _ := surface.New(ggsurface.Factory{}, shared)
//	r := render.New(shared, render.WithSurface(s))
//
//	w, h := r.MinTotalSize() // host minimum widget size
//	r.SetAllocation(1000, 800)
//	_ = r.SetViewport(image.Rect(0, 0, 400, 300), 1) // host scroll state
//
//	dc := gg.NewContext(1000, 800)
//	if err := r.Draw(dc, ggsurface.Drawer{DC: dc}); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// A Renderer is NOT safe for concurrent use; drive it from the UI
// goroutine. Buffer reads go through the shared handle's read lock, so
// edits on other goroutines may run concurrently with Draw.
package render
