package paint

import (
	"fmt"
	"image"
)

// Snapshot is an independent copy of a buffer's raw storage, used as the
// "before" reference when diffing. It is owned by the caller (typically a
// History), never by the Buffer.
type Snapshot struct {
	width  uint32
	height uint32
	data   []byte
}

// Width returns the width of the buffer the snapshot was taken from.
func (s *Snapshot) Width() uint32 { return s.width }

// Height returns the height of the buffer the snapshot was taken from.
func (s *Snapshot) Height() uint32 { return s.height }

// Snapshot returns an independent copy of the buffer's storage.
func (b *Buffer) Snapshot() *Snapshot {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &Snapshot{width: b.width, height: b.height, data: data}
}

// RefreshSnapshot overwrites s with the current storage. The existing
// allocation is reused when the dimensions match.
func (b *Buffer) RefreshSnapshot(s *Snapshot) {
	if len(s.data) != len(b.data) {
		s.data = make([]byte, len(b.data))
	}
	s.width, s.height = b.width, b.height
	copy(s.data, b.data)
}

// Direction selects which side of a delta Apply writes.
type Direction uint8

const (
	// Forward writes each delta's After color.
	Forward Direction = iota
	// Reverse writes each delta's Before color.
	Reverse
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Reverse:
		return "reverse"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Invert returns the opposite direction.
func (d Direction) Invert() Direction {
	if d == Forward {
		return Reverse
	}
	return Forward
}

// DiffKind identifies the representation of a Diff.
type DiffKind uint8

const (
	// KindSparse is a list of per-pixel deltas in scan order.
	KindSparse DiffKind = iota
)

// String returns the kind name.
func (k DiffKind) String() string {
	switch k {
	case KindSparse:
		return "sparse"
	default:
		return fmt.Sprintf("DiffKind(%d)", uint8(k))
	}
}

// Diff is a directional record of pixel changes between two buffer states.
//
// Diff is a closed set of representations; today the only one is
// *SparseDiff. Switch on Kind (or a type switch) to handle each variant.
// A Diff is immutable once built.
type Diff interface {
	// Kind returns the representation of the diff.
	Kind() DiffKind

	// Len returns the number of changed pixels.
	Len() int

	// Empty reports whether the diff changes nothing.
	Empty() bool

	// Bounds returns the smallest rectangle covering every changed pixel of
	// a buffer with the given width. Empty diffs return the zero rectangle.
	Bounds(width uint32) image.Rectangle

	// apply writes the diff into data in the given direction.
	apply(b *Buffer, dir Direction)
}

// PixelDelta is one changed pixel: its linear index (not byte offset) and
// its color before and after the change.
type PixelDelta struct {
	Index  int
	Before Color
	After  Color
}

// SparseDiff lists one PixelDelta per changed pixel, in ascending index
// order, with no repeated index. A missing index means unchanged.
type SparseDiff struct {
	deltas []PixelDelta
}

// NewSparseDiff builds a SparseDiff from deltas. The deltas must be in
// strictly ascending index order; otherwise an error is returned.
func NewSparseDiff(deltas []PixelDelta) (*SparseDiff, error) {
	for i := 1; i < len(deltas); i++ {
		if deltas[i].Index <= deltas[i-1].Index {
			return nil, fmt.Errorf("paint: sparse diff indices not ascending at %d (%d after %d)",
				i, deltas[i].Index, deltas[i-1].Index)
		}
	}
	cp := make([]PixelDelta, len(deltas))
	copy(cp, deltas)
	return &SparseDiff{deltas: cp}, nil
}

// Kind returns KindSparse.
func (d *SparseDiff) Kind() DiffKind { return KindSparse }

// Len returns the number of deltas.
func (d *SparseDiff) Len() int { return len(d.deltas) }

// Empty reports whether there are no deltas.
func (d *SparseDiff) Empty() bool { return len(d.deltas) == 0 }

// Deltas returns the deltas in scan order. The slice must not be modified.
func (d *SparseDiff) Deltas() []PixelDelta { return d.deltas }

// Bounds returns the rectangle covering all changed pixels.
func (d *SparseDiff) Bounds(width uint32) image.Rectangle {
	if len(d.deltas) == 0 || width == 0 {
		return image.Rectangle{}
	}
	w := int(width)
	first, last := d.deltas[0].Index, d.deltas[len(d.deltas)-1].Index
	minX, maxX := w, -1
	for _, pd := range d.deltas {
		x := pd.Index % w
		if x < minX {
			minX = x
		}
		if x > maxX {
			maxX = x
		}
	}
	return image.Rect(minX, first/w, maxX+1, last/w+1)
}

func (d *SparseDiff) apply(b *Buffer, dir Direction) {
	area := b.Area()
	for _, pd := range d.deltas {
		if pd.Index < 0 || pd.Index >= area {
			continue
		}
		c := pd.After
		if dir == Reverse {
			c = pd.Before
		}
		encode(b.data, pd.Index*BytesPerPixel, c)
	}
}

// DiffAgainst compares the live buffer with s and returns one delta per
// pixel whose color differs, in ascending index order. The Before color
// comes from s, the After color from the buffer. Identical states yield an
// empty diff, not an error.
func (b *Buffer) DiffAgainst(s *Snapshot) (Diff, error) {
	if s == nil || s.width != b.width || s.height != b.height || len(s.data) != len(b.data) {
		w, h := uint32(0), uint32(0)
		if s != nil {
			w, h = s.width, s.height
		}
		return nil, fmt.Errorf("%w: snapshot %dx%d, buffer %dx%d",
			ErrDimensionMismatch, w, h, b.width, b.height)
	}

	var deltas []PixelDelta
	for i := 0; i < len(b.data); i += BytesPerPixel {
		before := decode(s.data, i)
		after := decode(b.data, i)
		if before != after {
			deltas = append(deltas, PixelDelta{
				Index:  i / BytesPerPixel,
				Before: before,
				After:  after,
			})
		}
	}
	return &SparseDiff{deltas: deltas}, nil
}

// Apply writes d into the buffer: the After colors for Forward, the Before
// colors for Reverse. Pixels not covered by d are never touched, so diffs
// over disjoint pixels commute. Indices outside the buffer are skipped.
func (b *Buffer) Apply(d Diff, dir Direction) {
	if d == nil {
		return
	}
	d.apply(b, dir)
}
