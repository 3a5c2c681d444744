// Package flow implements EventFlowManager: the registry of sources and
// subscription keys that creates target queues on demand and binds
// subscribers to sources.
package flow

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/cuemby/mongoose/pkg/errreport"
	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/log"
	"github.com/cuemby/mongoose/pkg/publisher"
	"github.com/cuemby/mongoose/pkg/queue"
)

// Source is the minimal capability set an event source must provide.
// Lifecycle methods are intentionally absent here — they are invoked by
// pkg/server against the richer server.Source interface; EventFlowManager
// itself only needs the subscription hooks.
type Source interface {
	Subscribe(key events.SubscriptionKey)
	UnSubscribe(key events.SubscriptionKey)
	SetEventToQueuePublisher(pub *publisher.EventToQueuePublisher)
}

// QueueConsumer is the handle a ComposingEventProcessorAgent drains. It is
// satisfied by *pkg/queue.TargetQueue.
type QueueConsumer interface {
	Name() string
	Key() events.SubscriptionKey
	DrainTo(sink func(events.Event), max int) int
	Cap() int
	Len() int
}

type registeredSource struct {
	name      string
	source    Source
	publisher *publisher.EventToQueuePublisher
}

// Manager is EventFlowManager: the registry of sources and the (source,
// key, consumerAgent) → queue map. All mutation happens through short,
// coarse-grained critical sections; it never blocks and is safe for
// concurrent registration while agents are running.
type Manager struct {
	mu       sync.Mutex
	sources  map[string]*registeredSource
	queues   map[string]*queue.TargetQueue // key: source/subscriptionKey/consumerAgent
	capacity int

	reporter *errreport.Reporter
	logger   zerolog.Logger
}

// New creates an EventFlowManager. capacity is the default TargetQueue
// capacity for queues created lazily by GetMappingAgent; pass 0 for
// queue.DefaultCapacity.
func New(reporter *errreport.Reporter, capacity int) *Manager {
	if capacity <= 0 {
		capacity = queue.DefaultCapacity
	}
	return &Manager{
		sources:  make(map[string]*registeredSource),
		queues:   make(map[string]*queue.TargetQueue),
		capacity: capacity,
		reporter: reporter,
		logger:   log.WithComponent("flow-manager"),
	}
}

// RegisterEventSource registers a source under name, idempotently, and
// wires a fresh EventToQueuePublisher into it via SetEventToQueuePublisher.
// Re-registering the same name is a no-op and returns the existing
// publisher.
func (m *Manager) RegisterEventSource(name string, source Source) *publisher.EventToQueuePublisher {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sources[name]; ok {
		return existing.publisher
	}

	pub := publisher.New(name, m.reporter)
	source.SetEventToQueuePublisher(pub)
	m.sources[name] = &registeredSource{name: name, source: source, publisher: pub}
	m.logger.Debug().Str("source", name).Msg("event source registered")
	return pub
}

// Publisher returns the publisher bound to a registered source, or nil if
// no source is registered under that name.
func (m *Manager) Publisher(name string) *publisher.EventToQueuePublisher {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rs, ok := m.sources[name]; ok {
		return rs.publisher
	}
	return nil
}

// GetMappingAgent returns the target queue for (source, key, consumerAgent),
// creating it on first request. A (source, key, consumerAgent) triple maps
// to exactly one queue for the life of the server.
func (m *Manager) GetMappingAgent(key events.SubscriptionKey, consumerAgent string) QueueConsumer {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := key.String() + "/" + consumerAgent
	if q, ok := m.queues[id]; ok {
		return q
	}

	q := queue.New(key.Source, key, consumerAgent, m.capacity)
	m.queues[id] = q

	if rs, ok := m.sources[key.Source]; ok {
		rs.publisher.AddTargetQueue(q, consumerAgent)
	}

	return q
}

// Subscribe forwards to the named source's Subscribe, letting the source
// decide whether to activate publishing to the backing queue. Idempotence
// (a second Subscribe for the same key/processor yields one subscription)
// is enforced by the source/processor, not re-checked here, since the
// manager holds no per-processor state.
func (m *Manager) Subscribe(key events.SubscriptionKey) {
	m.mu.Lock()
	rs, ok := m.sources[key.Source]
	m.mu.Unlock()
	if ok {
		rs.source.Subscribe(key)
	}
}

// UnSubscribe forwards to the named source's UnSubscribe.
func (m *Manager) UnSubscribe(key events.SubscriptionKey) {
	m.mu.Lock()
	rs, ok := m.sources[key.Source]
	m.mu.Unlock()
	if ok {
		rs.source.UnSubscribe(key)
	}
}

// Queues returns every TargetQueue created so far, for metrics collection
// (pkg/metrics.Collector) and admin introspection.
func (m *Manager) Queues() []*queue.TargetQueue {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*queue.TargetQueue, 0, len(m.queues))
	for _, q := range m.queues {
		out = append(out, q)
	}
	return out
}
