// Package pool exists purely as a reuse mechanism for NamedFeedEvent
// envelopes: an Acquire/Release pair addressed by slot index rather than
// by pointer, so the free list underneath can be a plain lock-free queue
// of indices instead of a queue of pointers.
package pool
