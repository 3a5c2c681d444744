// Package processor implements ComposingEventProcessorAgent: the
// single-threaded worker that hosts one or more processors in a
// group, drains their input queues, and applies structural changes
// (add/remove processor, subscribe/unsubscribe) received through a
// lock-free command inbox without ever locking the hot dispatch path.
package processor

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"code.hybscloud.com/lfq"

	"github.com/cuemby/mongoose/pkg/errreport"
	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/flow"
	"github.com/cuemby/mongoose/pkg/log"
	"github.com/cuemby/mongoose/pkg/metrics"
)

// batchSize bounds how many events are drained from one queue per pass
// before moving to the next, keeping per-queue service fair.
const batchSize = 64

// Processor receives events delivered to one of its subscriptions.
type Processor interface {
	OnEvent(e events.Event)
}

// Lifecycle is implemented by processors that need init/start/stop
// callbacks around their residency in a group.
type Lifecycle interface {
	Init() error
	Start() error
	StartComplete() error
	Stop() error
	TearDown() error
}

// FeedSubscriber lets a processor request its own subscriptions once added
// to a group, via an explicit addEventFeed call — processors receive
// feeds through an explicit call rather than via shared-ownership
// back-references.
type FeedSubscriber interface {
	AddEventFeed(feed *EventFeed)
}

// EventFeed is the handle a processor uses to subscribe/unsubscribe itself
// after being added to a group.
type EventFeed struct {
	group     *ComposingEventProcessorAgent
	processor string
}

// Subscribe requests delivery of events published to key to the owning
// processor.
func (f *EventFeed) Subscribe(key events.SubscriptionKey) {
	f.group.Subscribe(f.processor, key)
}

// Unsubscribe cancels a prior Subscribe.
func (f *EventFeed) Unsubscribe(key events.SubscriptionKey) {
	f.group.Unsubscribe(f.processor, key)
}

type commandKind int

const (
	cmdAddProcessor commandKind = iota
	cmdRemoveProcessor
	cmdSubscribe
	cmdUnsubscribe
	cmdMarkStartComplete
)

type command struct {
	kind      commandKind
	name      string
	processor Processor
	key       events.SubscriptionKey
}

type queueEntry struct {
	consumer flow.QueueConsumer
	key      events.SubscriptionKey
}

// ComposingEventProcessorAgent is one thread (via pkg/agent) hosting
// one or more processors that belong to the same group. It satisfies
// pkg/agent.Worker.
type ComposingEventProcessorAgent struct {
	groupName   string
	flowManager *flow.Manager
	reporter    *errreport.Reporter
	logger      zerolog.Logger

	inbox *lfq.MPSC[command]

	// Touched only by this agent's own goroutine — no locking needed.
	processors       map[string]Processor
	processorKeys    map[string]map[events.SubscriptionKey]struct{}
	subscribers      map[events.SubscriptionKey][]string // ordered processor names
	queues           []*queueEntry                       // ordered for round-robin fairness
	queuesByKey      map[events.SubscriptionKey]*queueEntry
	rrCursor         int

	serverStartComplete atomic.Bool
}

// New creates a ComposingEventProcessorAgent for the named group.
func New(groupName string, flowManager *flow.Manager, reporter *errreport.Reporter) *ComposingEventProcessorAgent {
	return &ComposingEventProcessorAgent{
		groupName:     groupName,
		flowManager:   flowManager,
		reporter:      reporter,
		logger:        log.WithComponent("group." + groupName),
		inbox:         lfq.NewMPSC[command](256),
		processors:    make(map[string]Processor),
		processorKeys: make(map[string]map[events.SubscriptionKey]struct{}),
		subscribers:   make(map[events.SubscriptionKey][]string),
		queuesByKey:   make(map[events.SubscriptionKey]*queueEntry),
	}
}

// Name returns the group name, used as the consumer-agent identity in
// EventFlowManager.GetMappingAgent calls.
func (a *ComposingEventProcessorAgent) Name() string { return a.groupName }

// SetServerStartComplete is called by the orchestrator once the server
// overall has reached START_COMPLETED; processors added afterward have
// StartComplete invoked immediately rather than waiting for a transition
// that has already happened.
func (a *ComposingEventProcessorAgent) SetServerStartComplete(v bool) {
	a.serverStartComplete.Store(v)
}

// AddProcessor enqueues an ADD_PROCESSOR command. Safe to call from any
// goroutine (the orchestrator at boot, or another agent at runtime).
func (a *ComposingEventProcessorAgent) AddProcessor(name string, p Processor) error {
	return a.enqueue(command{kind: cmdAddProcessor, name: name, processor: p})
}

// RemoveProcessor enqueues a REMOVE_PROCESSOR command.
func (a *ComposingEventProcessorAgent) RemoveProcessor(name string) error {
	return a.enqueue(command{kind: cmdRemoveProcessor, name: name})
}

// Subscribe enqueues a SUBSCRIBE(processor, key) command — the first half
// of the subscription handshake.
func (a *ComposingEventProcessorAgent) Subscribe(processorName string, key events.SubscriptionKey) error {
	return a.enqueue(command{kind: cmdSubscribe, name: processorName, key: key})
}

// Unsubscribe enqueues an UNSUBSCRIBE(processor, key) command.
func (a *ComposingEventProcessorAgent) Unsubscribe(processorName string, key events.SubscriptionKey) error {
	return a.enqueue(command{kind: cmdUnsubscribe, name: processorName, key: key})
}

// MarkStartComplete enqueues a command that calls StartComplete on every
// processor currently resident in the group and latches
// serverStartComplete so processors added afterward get StartComplete
// invoked immediately by applyAddProcessor, matching the rule that a
// processor added after start-complete gets its StartComplete hook called
// right away rather than waiting for a group-wide signal that already
// fired. Called once by pkg/server as part of the orchestrator's start()
// sequence.
func (a *ComposingEventProcessorAgent) MarkStartComplete() error {
	return a.enqueue(command{kind: cmdMarkStartComplete})
}

func (a *ComposingEventProcessorAgent) enqueue(c command) error {
	if err := a.inbox.Enqueue(&c); err != nil {
		return fmt.Errorf("processor group %s: command inbox full: %w", a.groupName, err)
	}
	return nil
}

// DoWork implements pkg/agent.Worker's single doWork cycle:
// drain the command inbox, apply structural changes, then drain up to
// batchSize events per input queue and dispatch each to every subscribed
// processor in the group. Returns the total number of commands and events
// processed, fed to the agent's idle strategy.
func (a *ComposingEventProcessorAgent) DoWork() int {
	total := a.drainCommands()
	total += a.drainQueues()
	return total
}

func (a *ComposingEventProcessorAgent) drainCommands() int {
	n := 0
	for {
		c, err := a.inbox.Dequeue()
		if err != nil {
			break
		}
		a.apply(c)
		n++
	}
	return n
}

func (a *ComposingEventProcessorAgent) apply(c command) {
	switch c.kind {
	case cmdAddProcessor:
		a.applyAddProcessor(c.name, c.processor)
	case cmdRemoveProcessor:
		a.applyRemoveProcessor(c.name)
	case cmdSubscribe:
		a.applySubscribe(c.name, c.key)
	case cmdUnsubscribe:
		a.applyUnsubscribe(c.name, c.key)
	case cmdMarkStartComplete:
		a.applyMarkStartComplete()
	}
}

func (a *ComposingEventProcessorAgent) applyMarkStartComplete() {
	a.serverStartComplete.Store(true)
	for name, p := range a.processors {
		if lc, ok := p.(Lifecycle); ok {
			if err := lc.StartComplete(); err != nil {
				a.report(errreport.Error, "processor StartComplete failed: "+name, err)
			}
		}
	}
}

func (a *ComposingEventProcessorAgent) applyAddProcessor(name string, p Processor) {
	a.processors[name] = p
	a.processorKeys[name] = make(map[events.SubscriptionKey]struct{})

	if lc, ok := p.(Lifecycle); ok {
		if err := lc.Init(); err != nil {
			a.report(errreport.Error, "processor Init failed: "+name, err)
			return
		}
		if err := lc.Start(); err != nil {
			a.report(errreport.Error, "processor Start failed: "+name, err)
			return
		}
		if a.serverStartComplete.Load() {
			if err := lc.StartComplete(); err != nil {
				a.report(errreport.Error, "processor StartComplete failed: "+name, err)
			}
		}
	}

	if fs, ok := p.(FeedSubscriber); ok {
		fs.AddEventFeed(&EventFeed{group: a, processor: name})
	}

	a.logger.Info().Str("processor", name).Msg("processor added to group")
}

func (a *ComposingEventProcessorAgent) applyRemoveProcessor(name string) {
	p, ok := a.processors[name]
	if !ok {
		return
	}

	if lc, ok := p.(Lifecycle); ok {
		if err := lc.Stop(); err != nil {
			a.report(errreport.Error, "processor Stop failed: "+name, err)
		}
		if err := lc.TearDown(); err != nil {
			a.report(errreport.Error, "processor TearDown failed: "+name, err)
		}
	}

	for key := range a.processorKeys[name] {
		a.removeSubscriber(name, key)
	}

	delete(a.processors, name)
	delete(a.processorKeys, name)
	a.logger.Info().Str("processor", name).Msg("processor removed from group")
}

func (a *ComposingEventProcessorAgent) applySubscribe(processorName string, key events.SubscriptionKey) {
	if _, ok := a.processors[processorName]; !ok {
		return
	}
	if keys, ok := a.processorKeys[processorName]; ok {
		if _, already := keys[key]; already {
			return // idempotent: no duplicate delivery
		}
		keys[key] = struct{}{}
	}

	entry, ok := a.queuesByKey[key]
	if !ok {
		consumer := a.flowManager.GetMappingAgent(key, a.groupName)
		entry = &queueEntry{consumer: consumer, key: key}
		a.queuesByKey[key] = entry
		a.queues = append(a.queues, entry)
	}

	wasEmpty := len(a.subscribers[key]) == 0
	a.subscribers[key] = append(a.subscribers[key], processorName)

	if wasEmpty {
		a.flowManager.Subscribe(key)
	}
}

func (a *ComposingEventProcessorAgent) applyUnsubscribe(processorName string, key events.SubscriptionKey) {
	if keys, ok := a.processorKeys[processorName]; ok {
		delete(keys, key)
	}
	a.removeSubscriber(processorName, key)
}

func (a *ComposingEventProcessorAgent) removeSubscriber(processorName string, key events.SubscriptionKey) {
	subs := a.subscribers[key]
	for i, n := range subs {
		if n == processorName {
			subs = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	a.subscribers[key] = subs

	if len(subs) == 0 {
		a.flowManager.UnSubscribe(key)
	}
}

// drainQueues walks the group's input queues round-robin, starting from a
// rotating cursor so no queue is starved indefinitely across cycles, each
// capped at a small per-queue batch.
func (a *ComposingEventProcessorAgent) drainQueues() int {
	total := 0
	n := len(a.queues)
	for i := 0; i < n; i++ {
		idx := (a.rrCursor + i) % n
		entry := a.queues[idx]
		total += entry.consumer.DrainTo(func(e events.Event) {
			a.dispatch(entry.key, e)
		}, batchSize)
	}
	if n > 0 {
		a.rrCursor = (a.rrCursor + 1) % n
	}
	return total
}

func (a *ComposingEventProcessorAgent) dispatch(key events.SubscriptionKey, e events.Event) {
	for _, name := range a.subscribers[key] {
		p, ok := a.processors[name]
		if !ok {
			continue
		}
		a.safeOnEvent(name, p, e)
	}
}

func (a *ComposingEventProcessorAgent) safeOnEvent(name string, p Processor, e events.Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.AgentExceptionsTotal.WithLabelValues(a.groupName).Inc()
			a.report(errreport.Warning, fmt.Sprintf("processor %s panicked handling event", name), fmt.Errorf("%v", r))
		}
	}()
	timer := metrics.NewTimer()
	p.OnEvent(e)
	timer.ObserveDurationVec(metrics.EventProcessingDuration, name)
}

func (a *ComposingEventProcessorAgent) report(sev errreport.Severity, msg string, err error) {
	if a.reporter == nil {
		return
	}
	a.reporter.Report(errreport.ReportedEvent{
		Severity: sev,
		Source:   a.groupName,
		Message:  msg,
		Err:      err,
	})
}

// OnClose implements pkg/agent.Worker; it tears down every processor still
// resident in the group when the agent's thread exits.
func (a *ComposingEventProcessorAgent) OnClose() {
	for name := range a.processors {
		a.applyRemoveProcessor(name)
	}
}
