// Package cache provides the single-slot, load-once caches that hold the
// in-memory artifact indices.
//
// Each index is keyed by the artifact path it was built from. Loading a
// second path evicts the first; callers that alternate paths will reload
// on every call. Evicted values that implement io.Closer are closed so
// mmap handles do not leak.
package cache

import (
	"io"
	"sync"
)

// Slot is a single-entry cache keyed by artifact path.
//
// Concurrent first-time loads of the same key are not coordinated: two
// callers may both run the loader. Builds are deterministic and touch no
// shared state, so the only cost is the duplicate work; the last writer
// wins the slot and the loser's value is closed.
type Slot[T any] struct {
	mu  sync.RWMutex
	key string
	val T
	ok  bool
}

// Get returns the cached value for key, running load on a miss.
func (s *Slot[T]) Get(key string, load func() (T, error)) (T, error) {
	s.mu.RLock()
	if s.ok && s.key == key {
		v := s.val
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ok && s.key == key {
		// Lost the race; keep the resident value.
		closeValue(v)
		return s.val, nil
	}
	if s.ok {
		closeValue(s.val)
	}
	s.key, s.val, s.ok = key, v, true
	return v, nil
}

// Evict drops the cached value, closing it if it is a Closer.
func (s *Slot[T]) Evict() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ok {
		closeValue(s.val)
	}
	var zero T
	s.key, s.val, s.ok = "", zero, false
}

func closeValue(v any) {
	if c, ok := v.(io.Closer); ok {
		_ = c.Close()
	}
}
