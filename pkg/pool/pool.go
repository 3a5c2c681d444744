// Package pool implements a lock-free object pool: an index-based free
// list (rather than reference-counting GC pressure) for reusable
// NamedFeedEvent envelopes, grounded directly on code.hybscloud.com/lfq's
// own indirect-queue free-list pattern (Example_bufferPool).
package pool

import "code.hybscloud.com/lfq"

// ResetFunc is invoked on an object the instant its index is returned to
// the pool, before that slot becomes eligible for reuse.
type ResetFunc[T any] func(*T)

// Pool is a fixed-size free list of T values addressed by slot index,
// mirroring the index-based buffer pool pattern documented by
// code.hybscloud.com/lfq (SPSCIndirect holding slot indices rather than
// the values themselves). A Pool is meant to be owned by one publisher or
// one processor group, not shared across agents.
type Pool[T any] struct {
	items    []T
	freeList *lfq.SPSCIndirect
	reset    ResetFunc[T]
}

// New creates a Pool of size preallocated T values, each identified by its
// slot index on the internal free list.
func New[T any](size int, reset ResetFunc[T]) *Pool[T] {
	listCap := size
	if listCap < 2 {
		listCap = 2 // lfq rings require capacity >= 2
	}
	p := &Pool[T]{
		items:    make([]T, size),
		freeList: lfq.NewSPSCIndirect(listCap),
		reset:    reset,
	}
	for i := 0; i < size; i++ {
		_ = p.freeList.Enqueue(uintptr(i))
	}
	return p
}

// Acquire returns the slot index and a pointer into it, or ok=false if the
// pool is exhausted — callers fall back to a fresh allocation on !ok.
func (p *Pool[T]) Acquire() (idx int, item *T, ok bool) {
	i, err := p.freeList.Dequeue()
	if err != nil {
		return 0, nil, false
	}
	return int(i), &p.items[i], true
}

// Release resets the value at idx via the pool's ResetFunc and returns the
// slot to the free list. idx must be one previously returned by Acquire on
// this same Pool and not already released.
func (p *Pool[T]) Release(idx int) {
	if p.reset != nil {
		p.reset(&p.items[idx])
	}
	_ = p.freeList.Enqueue(uintptr(idx))
}

// Cap returns the pool's fixed size.
func (p *Pool[T]) Cap() int { return len(p.items) }
