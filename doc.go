// Package paint provides the raster-editing core of a 2D paint program.
//
// # Overview
//
// The core is three layers, leaves first:
//
//   - Buffer (this package): canonical pixel storage with bounds-checked
//     access, snapshots, and reversible diffs.
//   - surface.Surface: a texture mirror of the buffer that re-uploads only
//     the visible region and blits a scaled copy into a drawing context.
//   - render.Renderer: lays the canvas out inside the host allocation and
//     draws background, drop shadow, and the image.
//
// # Quick Start
//
//	buf := paint.NewBuffer(800, 600)
//	shared := paint.NewShared(buf)
//	hist := paint.NewHistory(shared)
//
//	// Edit under the write lock; the change is recorded for undo.
//	hist.Edit("square", func(b *paint.Buffer) {
//	    b.FillRect(image.Rect(10, 10, 60, 60), paint.Red)
//	})
//
//	hist.Undo()
//	hist.Redo()
//
// # Storage Order
//
// Pixels are stored as B, G, R, A bytes, matching the BGRA8 texture format
// used for presentation, so region uploads need no per-pixel conversion.
// Color values exposed by Pixel and SetPixel are always R, G, B, A.
// PresentationBytes and Image produce R, G, B, A copies for export.
//
// # Diffs
//
// DiffAgainst compares the buffer with a Snapshot and yields a Diff with one
// PixelDelta per changed pixel. Apply replays it Forward (towards the
// after state) or Reverse (towards the before state).
//
// # Concurrency
//
// Buffer is not safe for concurrent use. Shared wraps it in a read/write
// lock with a single-writer, many-reader discipline; History, Surface and
// Renderer all go through a Shared handle.
package paint
