/*
Package scheduler implements the deadline timer wheel service that
MongooseServer exposes to processors for delayed and repeating callbacks.

The scheduler is an external collaborator in the sense that the core
event-dispatch subsystem only depends on the small interface it exposes —
scheduleAtTime, scheduleAfterDelay, and the three clock readers — never on
its internal bucket layout. Callbacks fire on the scheduler's own agent
thread, driven by its doWork loop, so a processor that schedules a callback
from inside its own onEvent is scheduling work onto a different thread than
the one currently executing it.

# Timer Wheel

Pending callbacks are kept in a small min-heap keyed by absolute deadline in
milliseconds. Each doWork cycle pops every entry whose deadline has elapsed
and invokes it inline; a callback that panics is caught and reported through
pkg/errreport rather than killing the scheduler's agent.

	sched := scheduler.New(reporter)
	id := sched.ScheduleAfterDelay(5, func() {
		// runs on the scheduler's agent thread
	})
	sched.Cancel(id)

# Re-entrant Scheduling

A callback is free to call ScheduleAfterDelay again from within itself; the
new entry is pushed onto the same heap. DoWork keeps firing every entry whose
deadline is at or before the clock reading taken when the cycle began, so a
zero-delay entry scheduled within that same millisecond fires in the current
cycle and any later deadline fires on a later one. This gives processors a
way to emit events on a fixed cadence without owning a goroutine of their
own.
*/
package scheduler
