package scheduler

import (
	"container/heap"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cuemby/mongoose/pkg/errreport"
	"github.com/cuemby/mongoose/pkg/log"
	"github.com/cuemby/mongoose/pkg/metrics"
)

// Callback is the function a scheduled deadline invokes. It runs on the
// scheduler's own agent thread.
type Callback func()

// ID identifies a scheduled callback for cancellation.
type ID string

type entry struct {
	deadlineMs int64
	id         ID
	cb         Callback
	index      int // heap.Interface bookkeeping
}

type entryHeap []*entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].deadlineMs < h[j].deadlineMs }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler is the deadline timer wheel service: a min-heap of pending
// callbacks, polled once per doWork cycle from its own agent. It
// satisfies pkg/agent.Worker.
type Scheduler struct {
	mu      sync.Mutex
	pending entryHeap
	byID    map[ID]*entry

	reporter *errreport.Reporter
	logger   zerolog.Logger
}

// New creates an empty Scheduler.
func New(reporter *errreport.Reporter) *Scheduler {
	return &Scheduler{
		byID:     make(map[ID]*entry),
		reporter: reporter,
		logger:   log.WithComponent("scheduler"),
	}
}

// MilliTime returns the current time in unix milliseconds.
func (s *Scheduler) MilliTime() int64 { return time.Now().UnixMilli() }

// MicroTime returns the current time in unix microseconds.
func (s *Scheduler) MicroTime() int64 { return time.Now().UnixMicro() }

// NanoTime returns the current time in unix nanoseconds.
func (s *Scheduler) NanoTime() int64 { return time.Now().UnixNano() }

// ScheduleAtTime schedules cb to run at absolute deadline absMs (unix
// milliseconds), returning an id usable for cancellation.
func (s *Scheduler) ScheduleAtTime(absMs int64, cb Callback) ID {
	id := ID(uuid.NewString())
	e := &entry{deadlineMs: absMs, id: id, cb: cb}

	s.mu.Lock()
	heap.Push(&s.pending, e)
	s.byID[id] = e
	metrics.ScheduledTasksPending.Set(float64(len(s.pending)))
	s.mu.Unlock()

	return id
}

// ScheduleAfterDelay schedules cb to run waitMs from now.
func (s *Scheduler) ScheduleAfterDelay(waitMs int64, cb Callback) ID {
	return s.ScheduleAtTime(s.MilliTime()+waitMs, cb)
}

// Cancel removes a pending callback by id. Returns false if the id was not
// found (already fired or never existed).
func (s *Scheduler) Cancel(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	if e.index >= 0 {
		heap.Remove(&s.pending, e.index)
	}
	metrics.ScheduledTasksPending.Set(float64(len(s.pending)))
	return true
}

// Pending returns the number of callbacks currently registered.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// DoWork implements pkg/agent.Worker: it pops and fires every entry whose
// deadline has elapsed, catching panics so a misbehaving callback cannot
// kill the scheduler's agent, and returns the number fired.
func (s *Scheduler) DoWork() int {
	now := s.MilliTime()
	fired := 0

	for {
		s.mu.Lock()
		if len(s.pending) == 0 || s.pending[0].deadlineMs > now {
			s.mu.Unlock()
			break
		}
		e := heap.Pop(&s.pending).(*entry)
		delete(s.byID, e.id)
		metrics.ScheduledTasksPending.Set(float64(len(s.pending)))
		s.mu.Unlock()

		s.invoke(e.cb)
		metrics.ScheduledTasksFiredTotal.Inc()
		fired++
	}

	return fired
}

func (s *Scheduler) invoke(cb Callback) {
	defer func() {
		if r := recover(); r != nil {
			if s.reporter != nil {
				s.reporter.Report(errreport.ReportedEvent{
					Severity: errreport.Warning,
					Source:   "scheduler",
					Message:  "scheduled callback panicked",
					Err:      fmt.Errorf("%v", r),
				})
			}
		}
	}()
	cb()
}

// OnClose implements pkg/agent.Worker; the scheduler holds no resources
// that need releasing on shutdown.
func (s *Scheduler) OnClose() {}
