package paint

import (
	"errors"
	"fmt"
)

// ErrNilShared is returned when a History is used without a buffer handle.
var ErrNilShared = errors.New("paint: nil shared buffer")

// DefaultHistoryLimit is the number of records a History keeps by default.
const DefaultHistoryLimit = 100

// record is one undoable edit.
type record struct {
	label string
	diff  Diff
}

// History records edits to a shared buffer as diffs and replays them for
// undo and redo.
//
// History owns the shadow snapshot used as the "before" reference for each
// edit. The cursor points one past the last applied record: records before
// it can be undone, records from it onward can be redone. A new edit drops
// the redo tail.
//
// History is safe for concurrent use; buffer access goes through the
// Shared write lock.
type History struct {
	shared *Shared
	limit  int

	// guarded by shared's write lock
	shadow  *Snapshot
	records []record
	cursor  int
}

// HistoryOption configures a History.
type HistoryOption func(*History)

// WithLimit caps the number of records kept. Older records are dropped
// first. Values below 1 are ignored.
func WithLimit(n int) HistoryOption {
	return func(h *History) {
		if n >= 1 {
			h.limit = n
		}
	}
}

// NewHistory creates an empty history for shared.
func NewHistory(shared *Shared, opts ...HistoryOption) *History {
	h := &History{
		shared: shared,
		limit:  DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Edit runs fn with the buffer under the write lock and records the
// resulting change under label. The diff is returned even when empty;
// empty diffs are not recorded and leave the redo tail intact.
func (h *History) Edit(label string, fn func(*Buffer)) (Diff, error) {
	if h.shared == nil {
		return nil, ErrNilShared
	}

	var (
		diff Diff
		err  error
	)
	h.shared.Write(func(b *Buffer) {
		if h.shadow == nil {
			h.shadow = b.Snapshot()
		} else {
			b.RefreshSnapshot(h.shadow)
		}
		fn(b)
		diff, err = b.DiffAgainst(h.shadow)
		if err != nil || diff.Empty() {
			return
		}
		h.push(label, diff)
	})
	if err != nil {
		return nil, fmt.Errorf("paint: edit %q: %w", label, err)
	}
	return diff, nil
}

// push appends a record, dropping the redo tail and trimming to the limit.
// Must be called under the write lock.
func (h *History) push(label string, diff Diff) {
	h.records = append(h.records[:h.cursor], record{label: label, diff: diff})
	h.cursor = len(h.records)

	if over := len(h.records) - h.limit; over > 0 {
		h.records = append(h.records[:0], h.records[over:]...)
		h.cursor -= over
		Logger().Debug("history: trimmed", "dropped", over)
	}
	Logger().Debug("history: record pushed",
		"label", label, "pixels", diff.Len(), "records", len(h.records))
}

// Undo reverts the most recent applied record. It returns the reverted diff
// and false when there is nothing to undo.
func (h *History) Undo() (Diff, bool) {
	return h.step(Reverse)
}

// Redo re-applies the next undone record. It returns the applied diff and
// false when there is nothing to redo.
func (h *History) Redo() (Diff, bool) {
	return h.step(Forward)
}

func (h *History) step(dir Direction) (Diff, bool) {
	if h.shared == nil {
		return nil, false
	}
	var (
		rec record
		ok  bool
	)
	h.shared.Write(func(b *Buffer) {
		switch dir {
		case Reverse:
			if h.cursor == 0 {
				return
			}
			h.cursor--
			rec = h.records[h.cursor]
		case Forward:
			if h.cursor == len(h.records) {
				return
			}
			rec = h.records[h.cursor]
			h.cursor++
		}
		b.Apply(rec.diff, dir)
		ok = true
	})
	if ok {
		Logger().Debug("history: step", "direction", dir, "label", rec.label, "pixels", rec.diff.Len())
	}
	return rec.diff, ok
}

// CanUndo reports whether Undo would change the buffer.
func (h *History) CanUndo() bool {
	var ok bool
	h.read(func() { ok = h.cursor > 0 })
	return ok
}

// CanRedo reports whether Redo would change the buffer.
func (h *History) CanRedo() bool {
	var ok bool
	h.read(func() { ok = h.cursor < len(h.records) })
	return ok
}

// Len returns the number of records, applied or undone.
func (h *History) Len() int {
	var n int
	h.read(func() { n = len(h.records) })
	return n
}

// Labels returns the labels of all records in order, and the cursor
// position (the number of applied records).
func (h *History) Labels() (labels []string, cursor int) {
	h.read(func() {
		labels = make([]string, len(h.records))
		for i, r := range h.records {
			labels[i] = r.label
		}
		cursor = h.cursor
	})
	return labels, cursor
}

// Clear drops all records without touching the buffer.
func (h *History) Clear() {
	if h.shared == nil {
		return
	}
	h.shared.Write(func(*Buffer) {
		h.records = nil
		h.cursor = 0
	})
}

// read runs fn under the shared read lock; history state is written only
// under the write lock.
func (h *History) read(fn func()) {
	if h.shared == nil {
		fn()
		return
	}
	h.shared.Read(func(*Buffer) { fn() })
}
