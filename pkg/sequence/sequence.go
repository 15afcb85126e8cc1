// Package sequence provides explicit id allocators for orders and trades.
// Allocators are owned by the wiring layer and passed in, so tests can run
// with deterministic, reset-able ids instead of hidden package-level counters.
package sequence

import "sync/atomic"

// Sequence hands out monotonically increasing int64 ids starting at 1.
type Sequence struct {
	n atomic.Int64
}

// New returns a Sequence whose first Next() call yields 1.
func New() *Sequence {
	return &Sequence{}
}

// Next returns the next id.
func (s *Sequence) Next() int64 {
	return s.n.Add(1)
}

// Current returns the most recently allocated id, 0 if none.
func (s *Sequence) Current() int64 {
	return s.n.Load()
}

// Reset rewinds the allocator so the next id is n+1.
func (s *Sequence) Reset(n int64) {
	s.n.Store(n)
}
