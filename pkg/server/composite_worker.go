package server

import (
	"sync/atomic"

	"github.com/cuemby/mongoose/pkg/agent"
)

// compositeWorker aggregates every sub-worker sharing one agent thread:
// each source worker may be placed on its own agent, or share an agent
// with other sources. The worker list is copy-on-write so registration
// after the agent has started never races with a running DoWork loop. It
// satisfies pkg/agent.Worker.
type compositeWorker struct {
	workers atomic.Pointer[[]agent.Worker]
}

func (c *compositeWorker) add(w agent.Worker) {
	for {
		old := c.workers.Load()
		var prev []agent.Worker
		if old != nil {
			prev = *old
		}
		next := make([]agent.Worker, len(prev), len(prev)+1)
		copy(next, prev)
		next = append(next, w)
		if c.workers.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (c *compositeWorker) DoWork() int {
	ws := c.workers.Load()
	if ws == nil {
		return 0
	}
	total := 0
	for _, w := range *ws {
		total += w.DoWork()
	}
	return total
}

func (c *compositeWorker) OnClose() {
	ws := c.workers.Load()
	if ws == nil {
		return
	}
	for _, w := range *ws {
		w.OnClose()
	}
}

// sourceWorkerAdapter wraps a worker-driven source (one implementing
// DoWork() int) as a pkg/agent.Worker, calling TearDown on close if the
// source implements it.
type sourceWorkerAdapter struct {
	source doWorker
}

type doWorker interface {
	DoWork() int
}

func (a *sourceWorkerAdapter) DoWork() int { return a.source.DoWork() }

func (a *sourceWorkerAdapter) OnClose() {
	if td, ok := a.source.(tearDowner); ok {
		_ = td.TearDown()
	}
}
