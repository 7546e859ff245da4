// Package slab pools the small fixed-size structs the coordinator
// allocates on hot paths (pending-ops entries, inflight sync records),
// so that an absorb or a completion callback firing inside the main
// flush loop doesn't have to pay for a heap allocation every time.
//
// This adapts the teacher's size-bucketed byte-buffer pool
// (internal/queue/pool.go in the ublk tree, which served 128KB-1MB I/O
// buffers) to pool pointers to a single struct type instead: the
// allocator backing the coordinator's pending-ops table and inflight
// entries is meant to stay small and reusable (spec.md §5, "allocations
// are infrequent"), not bucketed by size, so one sync.Pool per type is
// the direct fit rather than size classes.
package slab

import "sync"

// Pool hands out pointers to T, reusing previously-released ones. The
// zero Pool is not usable (Get on it panics); create one with NewPool.
type Pool[T any] struct {
	pool sync.Pool
}

// NewPool creates a Pool that lazily allocates with new(T) when empty.
func NewPool[T any]() *Pool[T] {
	p := &Pool[T]{}
	p.pool.New = func() any { return new(T) }
	return p
}

// Get returns a pooled *T, allocating one if the pool is empty. The
// returned value's fields retain whatever they held on Put; callers
// must reset every field they care about before use.
func (p *Pool[T]) Get() *T {
	return p.pool.Get().(*T)
}

// Put returns v to the pool for reuse. Callers must not use v again
// after calling Put.
func (p *Pool[T]) Put(v *T) {
	p.pool.Put(v)
}
