/*
Package processor implements ComposingEventProcessorAgent — the
single-threaded host for one or more processors sharing a group's agent
thread.

A group's structural state (which processors it hosts, which keys each
subscribes to, which queue backs each key) is touched only by the agent's
own goroutine inside DoWork; registration from other goroutines
(AddProcessor, RemoveProcessor, Subscribe, Unsubscribe) goes through a
lock-free MPSC command inbox (code.hybscloud.com/lfq), so no mutex guards
the hot dispatch path and no other goroutine ever races with a running
agent's state.

The subscription handshake: Subscribe enqueues
a command; on the next doWork, the group calls
flow.Manager.GetMappingAgent to obtain (and, the first time, create) the
backing queue, records the processor as a subscriber, and — only on the
first subscriber for that key — calls flow.Manager.Subscribe, which
forwards to the source itself.

MarkStartComplete lets the orchestrator propagate the system-wide
START_COMPLETED transition to every processor already resident in the
group, and latches the flag so processors added afterward get
StartComplete invoked immediately rather than waiting for a transition
that already happened.

Queues are drained round-robin with a rotating start cursor and a small
per-queue batch, so no single queue can starve the others across doWork
cycles. A processor panic inside OnEvent is recovered, reported through
pkg/errreport, and does not tear down the agent or remove the processor.
*/
package processor
