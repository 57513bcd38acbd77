// Command paintdemo edits a canvas through the undo history and renders it
// centered in a viewport with its drop shadow.
package main

import (
	"flag"
	"image"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/gogpu/gg"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/render"
	"github.com/gogpu/paint/surface"
	"github.com/gogpu/paint/surface/ggsurface"
)

func main() {
	var (
		width       = flag.Uint("width", 800, "canvas width")
		height      = flag.Uint("height", 600, "canvas height")
		viewWidth   = flag.Uint("view-width", 1000, "viewport width")
		viewHeight  = flag.Uint("view-height", 800, "viewport height")
		undo        = flag.Int("undo", 1, "number of edits to undo before rendering")
		scale       = flag.Float64("scale", 1, "canvas zoom factor")
		placeholder = flag.Bool("placeholder", false, "draw the white placeholder instead of the pixels")
		output      = flag.String("output", "paint.png", "output file")
		verbose     = flag.Bool("v", false, "log surface and history activity")
	)
	flag.Parse()

	if *verbose {
		paint.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	shared := paint.NewShared(paint.NewBuffer(uint32(*width), uint32(*height))) //nolint:gosec // flag values
	history := paint.NewHistory(shared)
	edit(history, *width, *height)

	for i := 0; i < *undo; i++ {
		if _, ok := history.Undo(); !ok {
			break
		}
	}
	labels, cursor := history.Labels()
	log.Printf("history: %d records, %d applied %v", len(labels), cursor, labels[:cursor])

	factory, err := surface.NewFactoryByName("gg", nil)
	if err != nil {
		log.Fatalf("Failed to create texture factory: %v", err)
	}
	s, err := surface.New(factory, shared)
	if err != nil {
		log.Fatalf("Failed to create surface: %v", err)
	}
	defer s.Close()

	opts := []render.Option{}
	if !*placeholder {
		opts = append(opts, render.WithSurface(s))
	}
	r := render.New(shared, opts...)
	r.SetAllocation(uint32(*viewWidth), uint32(*viewHeight)) //nolint:gosec // flag values
	if err := r.SetViewport(image.Rectangle{}, *scale); err != nil {
		log.Fatalf("Invalid viewport: %v", err)
	}

	// The context is never smaller than the minimum widget size.
	minW, minH := r.MinTotalSize()
	dc := gg.NewContext(int(max(uint32(*viewWidth), minW)), int(max(uint32(*viewHeight), minH))) //nolint:gosec // flag values
	defer dc.Close()

	if err := r.Draw(dc, ggsurface.Drawer{DC: dc}); err != nil {
		log.Fatalf("Failed to draw: %v", err)
	}

	if err := dc.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Canvas saved to %s (%dx%d, canvas at %v)\n", *output, dc.Width(), dc.Height(), r.Geometry().Canvas())
}

// edit records a few tool strokes, one history record each.
func edit(h *paint.History, w, ht uint) {
	cx, cy := float64(w)/2, float64(ht)/2

	mustEdit(h, "fill", func(b *paint.Buffer) {
		b.FillRect(image.Rect(int(w)/8, int(ht)/8, int(w)*7/8, int(ht)*7/8), paint.RGB(250, 240, 210))
	})
	mustEdit(h, "sun", func(b *paint.Buffer) {
		dab(b, cx, cy, math.Min(cx, cy)/2, paint.RGB(240, 160, 30))
	})
	mustEdit(h, "stroke", func(b *paint.Buffer) {
		for t := 0.0; t <= 1; t += 0.01 {
			x := float64(w)/8 + t*float64(w)*3/4
			y := cy + math.Sin(t*2*math.Pi)*float64(ht)/4
			dab(b, x, y, 6, paint.RGB(40, 70, 160))
		}
	})
	mustEdit(h, "mark", func(b *paint.Buffer) {
		dab(b, cx, cy, 20, paint.Red)
	})
}

func mustEdit(h *paint.History, label string, fn func(*paint.Buffer)) {
	if _, err := h.Edit(label, fn); err != nil {
		log.Fatalf("Edit %q failed: %v", label, err)
	}
}

// dab paints a filled circle, skipping pixels outside the canvas.
func dab(b *paint.Buffer, cx, cy, r float64, c paint.Color) {
	for y := math.Floor(cy - r); y <= cy+r; y++ {
		for x := math.Floor(cx - r); x <= cx+r; x++ {
			if !b.ContainsPoint(x, y) {
				continue
			}
			dx, dy := x+0.5-cx, y+0.5-cy
			if dx*dx+dy*dy <= r*r {
				b.SetPixel(uint32(x), uint32(y), c)
			}
		}
	}
}
