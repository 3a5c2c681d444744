// Package publisher implements EventToQueuePublisher: the per-source
// object that fans a source's events out to every target queue bound to
// it, with optional named-envelope wrapping, value mapping, slow-consumer
// handling, and pre-startComplete caching.
package publisher

import (
	"sync"
	"sync/atomic"
	"time"

	"code.hybscloud.com/spin"
	"github.com/rs/zerolog"

	"github.com/cuemby/mongoose/pkg/errreport"
	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/log"
	"github.com/cuemby/mongoose/pkg/metrics"
)

// backoffSpinLimit bounds the Backoff slow-consumer retry so Publish
// stays non-blocking overall: it must never suspend the publishing
// agent indefinitely on one stalled target.
const backoffSpinLimit = 64

// QueueTarget is the minimal surface EventToQueuePublisher needs from a
// target queue — satisfied by *pkg/queue.TargetQueue.
type QueueTarget interface {
	Name() string
	Offer(events.Event) bool
}

type target struct {
	queue        QueueTarget
	consumerName string
	disconnected atomic.Bool
}

// DataMapper transforms or filters an event before dispatch. Returning nil
// drops the event.
type DataMapper func(events.Event) events.Event

// EventToQueuePublisher is the per-source fan-out object. One is created
// per registered source by pkg/flow.EventFlowManager and wired in via the
// source's setEventToQueuePublisher hook.
type EventToQueuePublisher struct {
	sourceName string

	targets atomic.Pointer[[]*target] // copy-on-write, hot-path read

	mapper               atomic.Pointer[DataMapper]
	wrapStrategy         atomic.Int32 // events.EventWrapStrategy
	slowConsumerStrategy atomic.Int32 // events.SlowConsumerStrategy
	cacheEventLog        atomic.Bool
	startComplete        atomic.Bool
	sequence             atomic.Uint64

	cacheMu sync.Mutex // guards pending and log; single writer pre-startComplete
	pending []events.Event
	log     []events.Event

	reporter *errreport.Reporter
	logger   zerolog.Logger
}

// New creates a publisher for the named source.
func New(sourceName string, reporter *errreport.Reporter) *EventToQueuePublisher {
	p := &EventToQueuePublisher{
		sourceName: sourceName,
		reporter:   reporter,
		logger:     log.WithSource(sourceName),
	}
	empty := []*target{}
	p.targets.Store(&empty)
	return p
}

// AddTargetQueue binds a target queue for consumerName to this publisher.
// Safe to call while the agent is running; uses copy-on-write so Publish
// never blocks on a concurrent registration.
func (p *EventToQueuePublisher) AddTargetQueue(q QueueTarget, consumerName string) {
	for {
		old := p.targets.Load()
		next := make([]*target, len(*old), len(*old)+1)
		copy(next, *old)
		next = append(next, &target{queue: q, consumerName: consumerName})
		if p.targets.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetDataMapper installs a value mapper applied to every event before
// caching or dispatch.
func (p *EventToQueuePublisher) SetDataMapper(fn DataMapper) {
	if fn == nil {
		p.mapper.Store(nil)
		return
	}
	p.mapper.Store(&fn)
}

// SetEventWrapStrategy selects whether dispatched events are wrapped in a
// NamedFeedEvent envelope.
func (p *EventToQueuePublisher) SetEventWrapStrategy(s events.EventWrapStrategy) {
	p.wrapStrategy.Store(int32(s))
}

// SetSlowConsumerStrategy selects the policy applied when a target queue is
// full.
func (p *EventToQueuePublisher) SetSlowConsumerStrategy(s events.SlowConsumerStrategy) {
	p.slowConsumerStrategy.Store(int32(s))
}

// SetCacheEventLog enables or disables pre-startComplete caching.
func (p *EventToQueuePublisher) SetCacheEventLog(enabled bool) {
	p.cacheEventLog.Store(enabled)
}

// MarkStartComplete flips the publisher into post-startComplete mode and
// flushes any pending cache, in insertion order, before returning. Called
// by the owning source's startComplete() lifecycle method.
func (p *EventToQueuePublisher) MarkStartComplete() {
	p.startComplete.Store(true)
	p.DispatchCachedEventLog()
}

// Cache appends an event to the log without dispatching it.
func (p *EventToQueuePublisher) Cache(e events.Event) {
	if e == nil {
		return
	}
	p.cacheMu.Lock()
	p.pending = append(p.pending, e)
	p.cacheMu.Unlock()
}

// DispatchCachedEventLog flushes any pending cached events to every target
// queue, in insertion order, and appends them to the durable event log.
func (p *EventToQueuePublisher) DispatchCachedEventLog() {
	p.cacheMu.Lock()
	pending := p.pending
	p.pending = nil
	p.cacheMu.Unlock()

	for _, e := range pending {
		p.dispatch(e)
	}
}

// GetEventLog returns a copy of the publisher's full event log (cached
// events followed by post-startComplete events, in publish order).
func (p *EventToQueuePublisher) GetEventLog() []events.Event {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	out := make([]events.Event, len(p.log))
	copy(out, p.log)
	return out
}

// Publish runs the full fan-out algorithm: mapping, caching,
// cache flush, envelope wrapping, and per-target offer with slow-consumer
// handling. publish(nil) is a documented no-op.
func (p *EventToQueuePublisher) Publish(e events.Event) {
	if e == nil {
		return
	}

	if m := p.mapper.Load(); m != nil {
		e = (*m)(e)
		if e == nil {
			return
		}
	}

	if p.cacheEventLog.Load() && !p.startComplete.Load() {
		p.Cache(e)
		return
	}

	// Flush any events cached before this one so order is preserved even
	// if startComplete raced with a direct Publish call.
	p.cacheMu.Lock()
	pending := p.pending
	p.pending = nil
	p.cacheMu.Unlock()
	for _, c := range pending {
		p.dispatch(c)
	}

	p.dispatch(e)
}

func (p *EventToQueuePublisher) dispatch(e events.Event) {
	out := e
	if events.EventWrapStrategy(p.wrapStrategy.Load()) == events.WrapWithNamedEvent {
		out = events.NamedFeedEvent{
			FeedName:  p.sourceName,
			Sequence:  p.sequence.Add(1),
			Data:      e,
			EventTime: time.Now().UnixNano(),
		}
	}

	targets := *p.targets.Load()
	for _, t := range targets {
		if t.disconnected.Load() {
			continue
		}
		p.offer(t, out)
	}

	if p.cacheEventLog.Load() {
		p.cacheMu.Lock()
		p.log = append(p.log, out)
		p.cacheMu.Unlock()
	}
}

func (p *EventToQueuePublisher) offer(t *target, e events.Event) {
	if t.queue.Offer(e) {
		metrics.EventsDispatchedTotal.WithLabelValues(t.queue.Name()).Inc()
		return
	}

	switch events.SlowConsumerStrategy(p.slowConsumerStrategy.Load()) {
	case events.Backoff:
		sw := spin.Wait{}
		for i := 0; i < backoffSpinLimit; i++ {
			if t.queue.Offer(e) {
				metrics.EventsDispatchedTotal.WithLabelValues(t.queue.Name()).Inc()
				return
			}
			sw.Once()
		}
		p.reportDrop(t, e)
	case events.Drop:
		p.reportDrop(t, e)
	case events.Disconnect:
		t.disconnected.Store(true)
		p.report(errreport.Warning, "target queue disconnected after overflow: "+t.queue.Name(), nil)
	case events.Exit:
		p.report(errreport.Critical, "fatal: target queue full under EXIT policy: "+t.queue.Name(), nil)
	}
}

func (p *EventToQueuePublisher) reportDrop(t *target, _ events.Event) {
	metrics.EventsDroppedTotal.WithLabelValues(t.queue.Name()).Inc()
	p.report(errreport.Error, "event dropped, target queue full: "+t.queue.Name(), nil)
}

func (p *EventToQueuePublisher) report(sev errreport.Severity, msg string, err error) {
	if p.reporter == nil {
		return
	}
	p.reporter.Report(errreport.ReportedEvent{
		Severity: sev,
		Source:   p.sourceName,
		Message:  msg,
		Err:      err,
	})
}
