package xrcore

import (
	"sync"
	"sync/atomic"

	"github.com/kinectxr/runtime/pkg/xrtypes"
)

// registry is a per-kind handle map: a monotonically increasing counter
// produces the next handle, lookups/inserts/deletes all take the same
// mutex for the minimum interval. Handles are never reused within a
// process lifetime — next only increases.
type registry[T any] struct {
	mu      sync.RWMutex
	next    atomic.Uint64
	entries map[xrtypes.Handle]T
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{entries: make(map[xrtypes.Handle]T)}
}

// insert allocates a fresh handle and stores value under it.
func (r *registry[T]) insert(value T) xrtypes.Handle {
	h := xrtypes.Handle(r.next.Add(1))
	r.mu.Lock()
	r.entries[h] = value
	r.mu.Unlock()
	return h
}

// get returns the value for h and whether it was present.
func (r *registry[T]) get(h xrtypes.Handle) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[h]
	return v, ok
}

// delete removes h, reporting whether it was present.
func (r *registry[T]) delete(h xrtypes.Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[h]
	delete(r.entries, h)
	return ok
}

// count returns the number of live entries.
func (r *registry[T]) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
