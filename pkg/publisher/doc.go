/*
Package publisher implements EventToQueuePublisher.

One publisher is created per registered source. It fans a single Publish
call out to every bound target queue, applying — in order — an optional
DataMapper, pre-startComplete caching, cache-flush-before-dispatch,
optional NamedFeedEvent wrapping, and a per-target SlowConsumerStrategy on
queue-full.

Target registration (AddTargetQueue) uses copy-on-write over an
atomic.Pointer so it never takes a lock on the hot Publish path, matching
the error-reporter's copy-on-write listener list (pkg/errreport) and the
flow-manager's never-blocks contract.

MarkStartComplete is the hook a source's startComplete() lifecycle method
calls; it is what turns on post-startComplete direct dispatch and performs
the one-time, in-order replay of anything cached beforehand.
*/
package publisher
