package paint

import "sync"

// Shared is a lock-protected handle to a Buffer that several components
// hold at once: the renderer and presentation surface read through it,
// tools and History write through it.
//
// The discipline is single writer, many readers. A drawing pass holds the
// read lock for one draw, a tool holds the write lock for one edit batch.
// Callbacks passed to Read and Write must not call back into the same
// Shared; the lock is not reentrant.
type Shared struct {
	mu  sync.RWMutex
	buf *Buffer
}

// NewShared wraps b. The caller must not use b directly afterwards.
func NewShared(b *Buffer) *Shared {
	return &Shared{buf: b}
}

// Read calls fn with the buffer under the read lock.
// fn must not modify the buffer or retain it after returning.
func (s *Shared) Read(fn func(*Buffer)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.buf)
}

// Write calls fn with the buffer under the write lock.
func (s *Shared) Write(fn func(*Buffer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.buf)
}

// Size returns the buffer dimensions.
func (s *Shared) Size() (width, height uint32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buf.width, s.buf.height
}
