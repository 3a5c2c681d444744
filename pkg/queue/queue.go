// Package queue implements the queue fabric: named bounded
// single-producer/single-consumer queues connecting one source-side
// publisher to one processor-agent consumer.
//
// The ring buffer itself is code.hybscloud.com/lfq's SPSC[T], a Lamport
// ring with cached indices, generic over the event payload. TargetQueue
// adds the identity (source, subscription key, consumer agent), an
// overflow counter, and an approximate occupancy counter (read by
// pkg/metrics' Collector) on top of the bare ring.
package queue

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"

	"github.com/cuemby/mongoose/pkg/events"
)

// DefaultCapacity is the queue capacity used when a caller does not specify
// one explicitly.
const DefaultCapacity = 2048

// TargetQueue is a bounded SPSC ring buffer identified by
// (sourceName, subscriptionKey, consumerAgentName).
//
// Exactly one writer (the owning EventToQueuePublisher) and exactly one
// reader (the owning agent) may touch a TargetQueue; it is never shared
// between two producers or two consumers.
type TargetQueue struct {
	name         string
	sourceName   string
	key          events.SubscriptionKey
	consumerName string

	ring     *lfq.SPSC[events.Event]
	capacity int

	overflow  atomix.Uint64 // offer() calls that found the ring full
	occupancy atomix.Uint64 // approximate depth, for metrics only; wraps like a signed counter
}

// New creates a TargetQueue for (sourceName, key, consumerName) with the
// given capacity, rounded up to the next power of two by the underlying
// ring (lfq.NewSPSC panics below capacity 2; New enforces DefaultCapacity
// for anything smaller so callers never hit that panic by accident).
func New(sourceName string, key events.SubscriptionKey, consumerName string, capacity int) *TargetQueue {
	if capacity < 2 {
		capacity = DefaultCapacity
	}
	return &TargetQueue{
		name:         key.String() + "/" + consumerName,
		sourceName:   sourceName,
		key:          key,
		consumerName: consumerName,
		ring:         lfq.NewSPSC[events.Event](capacity),
		capacity:     capacity,
	}
}

// Name returns the queue's identity string, usable as a metrics label.
func (q *TargetQueue) Name() string { return q.name }

// SourceName returns the owning source's registered name.
func (q *TargetQueue) SourceName() string { return q.sourceName }

// Key returns the subscription key this queue carries events for.
func (q *TargetQueue) Key() events.SubscriptionKey { return q.key }

// ConsumerName returns the name of the agent that owns the read cursor.
func (q *TargetQueue) ConsumerName() string { return q.consumerName }

// Cap returns the queue's actual (power-of-two) capacity.
func (q *TargetQueue) Cap() int { return q.ring.Cap() }

// Offer attempts a non-blocking enqueue. Returns false if the ring is full;
// the caller (EventToQueuePublisher) is responsible for applying its
// configured SlowConsumerStrategy on failure. Producer-only.
func (q *TargetQueue) Offer(e events.Event) bool {
	if err := q.ring.Enqueue(&e); err != nil {
		q.overflow.AddAcqRel(1)
		return false
	}
	q.occupancy.AddAcqRel(1)
	return true
}

// DrainTo removes up to max events, appending each to dst via the sink
// callback, and returns the number drained. Consumer-only.
//
// Memory ordering: a successful Offer happens-before the matching DrainTo
// observes the element (guaranteed by the ring's acquire/release sequence
// counters).
func (q *TargetQueue) DrainTo(sink func(events.Event), max int) int {
	n := 0
	for n < max {
		e, err := q.ring.Dequeue()
		if err != nil {
			break
		}
		sink(e)
		q.occupancy.AddAcqRel(^uint64(0)) // -1 mod 2^64
		n++
	}
	return n
}

// Len reports an approximate current occupancy, maintained as a plain
// counter alongside the ring rather than derived from its internal
// head/tail cursors (which lfq does not expose). Best-effort, for metrics
// only — never consulted on a correctness path.
func (q *TargetQueue) Len() int {
	return int(int64(q.occupancy.LoadAcquire()))
}

// Overflow returns the cumulative count of Offer calls that found the ring
// full.
func (q *TargetQueue) Overflow() uint64 {
	return q.overflow.LoadAcquire()
}
