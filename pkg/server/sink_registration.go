package server

import (
	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/idle"
	"github.com/cuemby/mongoose/pkg/processor"
	"github.com/cuemby/mongoose/pkg/sink"
)

// sinkEntry records a registered sink for RegisteredSinks.
type sinkEntry struct {
	name string
	sink sink.Sink
}

// sinkAdapter hosts a sink.Sink as a processor.Processor so it can ride the
// same group/agent/subscription machinery every other processor uses:
// Accept is invoked on the sink's own agent, the sink's agent being
// exactly the group agent a processor would also run on. It subscribes
// itself to key as soon as it is added to its group.
type sinkAdapter struct {
	sink sink.Sink
	key  events.SubscriptionKey
}

func (a *sinkAdapter) OnEvent(e events.Event) { a.sink.Accept(e) }

func (a *sinkAdapter) AddEventFeed(feed *processor.EventFeed) {
	feed.Subscribe(a.key)
}

// RegisterEventSink registers a named sink.Sink and binds it to key, so
// every event published under key is delivered to the sink's Accept method
// on its own agent (agentName), created on first use with idleStrategy —
// the same per-agent placement rule sources and processor groups get.
// name must be unique across sinks.
func (s *Server) RegisterEventSink(name string, sk sink.Sink, key events.SubscriptionKey, agentName string, idleStrategy idle.Strategy) error {
	s.mu.Lock()
	for _, se := range s.sinks {
		if se.name == name {
			s.mu.Unlock()
			return ErrConfiguration
		}
	}
	s.sinks = append(s.sinks, sinkEntry{name: name, sink: sk})
	s.mu.Unlock()

	return s.AddEventProcessor("sink:"+agentName, "sink:"+name, agentName, idleStrategy, &sinkAdapter{sink: sk, key: key})
}

// RegisteredSinks returns every registered sink's name, in registration
// order.
func (s *Server) RegisteredSinks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sinks))
	for i, se := range s.sinks {
		out[i] = se.name
	}
	return out
}
