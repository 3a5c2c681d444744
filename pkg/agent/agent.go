// Package agent implements the cooperative scheduler at the heart of the
// runtime: one OS thread per agent, running a `doWork` loop driven by a
// pluggable idle strategy, with optional best-effort CPU pinning.
package agent

import (
	"sync"

	"code.hybscloud.com/atomix"
	"github.com/rs/zerolog"

	"github.com/cuemby/mongoose/pkg/idle"
	"github.com/cuemby/mongoose/pkg/log"
	"github.com/cuemby/mongoose/pkg/metrics"
)

// Worker is driven by an Agent's thread. DoWork performs one cycle of work
// and returns the number of events/commands processed (fed to the idle
// strategy); OnClose releases resources once the agent's loop has exited.
type Worker interface {
	DoWork() int
	OnClose()
}

// Agent owns one goroutine running `for running { w := doWork(); idle(w) }`.
// Each processor group is exactly one Agent; a source worker may be
// placed on its own Agent or share one; sinks run on a named Agent,
// shared by default.
type Agent struct {
	name   string
	worker Worker
	idle   idle.Strategy
	coreID *int // nil means no pinning requested

	running atomix.Bool
	done    chan struct{}
	wg      sync.WaitGroup

	logger zerolog.Logger
}

// Config describes how to construct an Agent.
type Config struct {
	Name   string
	Worker Worker
	Idle   idle.Strategy
	CoreID *int // best-effort CPU pin; nil disables pinning
}

// New creates an Agent. The thread is not started until Start is called.
func New(cfg Config) *Agent {
	return &Agent{
		name:   cfg.Name,
		worker: cfg.Worker,
		idle:   cfg.Idle,
		coreID: cfg.CoreID,
		done:   make(chan struct{}),
		logger: log.WithAgent(cfg.Name),
	}
}

// Name returns the agent's registered name.
func (a *Agent) Name() string { return a.name }

// Start launches the agent's thread. Safe to call once per Agent.
func (a *Agent) Start() {
	a.running.StoreRelease(true)
	a.wg.Add(1)
	go a.run()
}

// Stop flips running to false; the loop exits after the current doWork
// cycle and invokes onClose, then Stop returns once the thread has joined.
func (a *Agent) Stop() {
	a.running.StoreRelease(false)
	a.wg.Wait()
}

func (a *Agent) run() {
	defer a.wg.Done()
	defer close(a.done)

	pinCurrentThread(a.coreID, a.logger)

	for a.running.LoadAcquire() {
		timer := metrics.NewTimer()
		n := a.worker.DoWork()
		timer.ObserveDurationVec(metrics.AgentDoWorkDuration, a.name)

		if n <= 0 {
			metrics.AgentIdleCyclesTotal.WithLabelValues(a.name).Inc()
		}
		a.idle.Idle(n)
	}

	a.worker.OnClose()
}
