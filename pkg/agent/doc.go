/*
Package agent implements the agent runtime.

One OS thread per Agent. The thread loops:

	for running {
		n := worker.DoWork()
		idleStrategy.Idle(n)
	}
	worker.OnClose()

Worker is satisfied by pkg/processor's ComposingEventProcessorAgent, by a
worker-driven source's doWork adapter, and by sink agents. Idle strategies
come from pkg/idle and are assigned per-Agent via Config.Idle.

CPU pinning (Config.CoreID) is best-effort: a failure to pin is logged and
the agent starts unpinned rather than aborting. Stop sets
running to false and joins the thread; the goroutine finishes its current
DoWork cycle, calls OnClose, and exits.
*/
package agent
