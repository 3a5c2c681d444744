// Package sink provides example event sinks as external collaborators:
// ConsoleSink (logs every accepted event) and ChannelSink (forwards
// accepted events onto a Go channel, for tests; cmd/mongoosectl can
// resolve one but never drains it).
package sink

import (
	"github.com/rs/zerolog"

	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/log"
)

// Sink accepts events on its own agent thread.
type Sink interface {
	Accept(e events.Event)
}

// ConsoleSink logs every accepted event at Info level through a
// component-scoped logger (pkg/log), standing in for an external
// telemetry or audit collaborator.
type ConsoleSink struct {
	name   string
	logger zerolog.Logger
}

// NewConsoleSink creates a ConsoleSink named name.
func NewConsoleSink(name string) *ConsoleSink {
	return &ConsoleSink{name: name, logger: log.WithComponent("sink." + name)}
}

func (s *ConsoleSink) Accept(e events.Event) {
	s.logger.Info().Interface("event", e).Msg("event accepted")
}

// ChannelSink forwards every accepted event onto a buffered channel.
// Accept drops the event rather than blocking the sink's agent if the
// channel is full, reporting nothing further: a full channel means
// nobody is draining it, which is a test or CLI wiring concern, not a
// core one.
type ChannelSink struct {
	C chan events.Event
}

// NewChannelSink creates a ChannelSink with the given channel capacity.
func NewChannelSink(capacity int) *ChannelSink {
	return &ChannelSink{C: make(chan events.Event, capacity)}
}

func (s *ChannelSink) Accept(e events.Event) {
	select {
	case s.C <- e:
	default:
	}
}
