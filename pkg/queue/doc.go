/*
Package queue implements the queue fabric connecting publishers to
consumer agents.

A TargetQueue is a named, bounded single-producer/single-consumer ring
buffer identified by (sourceName, subscriptionKey, consumerAgentName). It
wraps code.hybscloud.com/lfq's SPSC[T] — the same lock-free ring the
retrieval pack's upstream queue library ships — adding the identity fields,
an overflow counter for SlowConsumerStrategy=Drop accounting, and an
approximate occupancy counter for pkg/metrics' queue-depth gauge.

Offer and DrainTo never block: Offer returns false immediately when the
ring is full, and DrainTo stops as soon as the ring reports empty. Exactly
one goroutine may call Offer (the owning EventToQueuePublisher) and exactly
one goroutine may call DrainTo (the owning agent) for the lifetime of a
TargetQueue — violating this, as with the underlying SPSC ring itself,
causes undefined behavior rather than a detected error.
*/
package queue
