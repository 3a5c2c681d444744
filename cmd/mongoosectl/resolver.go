package main

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/flow"
	"github.com/cuemby/mongoose/pkg/log"
	"github.com/cuemby/mongoose/pkg/processor"
	"github.com/cuemby/mongoose/pkg/sink"
	"github.com/cuemby/mongoose/pkg/source"
)

// demoResolver implements pkg/server.Resolver against the small set of
// built-in collaborators this binary ships: pkg/source's MemorySource and
// FileSource, and a trivial logging processor. Building the real mapping
// from instance names to live Go values is an embedder concern; a real
// deployment would supply its own Resolver wired to application-specific
// processors.
type demoResolver struct {
	services map[string]any
}

func newDemoResolver() *demoResolver {
	return &demoResolver{services: make(map[string]any)}
}

// Source resolves a feed's "instance" string. Two forms are understood:
//
//	memory                         -> an in-process MemorySource
//	file:<path>:<READ_STRATEGY>    -> a FileSource tailing path
func (r *demoResolver) Source(instance string) (flow.Source, bool) {
	parts := strings.SplitN(instance, ":", 3)
	switch parts[0] {
	case "memory":
		return source.NewMemorySource(instance, false), true
	case "file":
		if len(parts) != 3 {
			return nil, false
		}
		strategy, ok := parseReadStrategy(parts[2])
		if !ok {
			return nil, false
		}
		return source.NewFileSource(instance, parts[1], strategy), true
	default:
		return nil, false
	}
}

func parseReadStrategy(name string) (source.ReadStrategy, bool) {
	switch strings.ToUpper(name) {
	case "EARLIEST":
		return source.Earliest, true
	case "COMMITED":
		return source.Commited, true
	case "LATEST":
		return source.Latest, true
	case "ONCE_EARLIEST":
		return source.OnceEarliest, true
	case "ONCE_LATEST":
		return source.OnceLatest, true
	default:
		return 0, false
	}
}

// Service resolves a service's "instance" string against services
// registered on the resolver by the caller before BootServer runs. This
// binary ships no built-in services; embedders construct their own and
// call RegisterService before boot.
func (r *demoResolver) Service(instance string) (any, bool) {
	svc, ok := r.services[instance]
	return svc, ok
}

// RegisterService lets an embedder add a named service instance the
// resolver can hand back during boot.
func (r *demoResolver) RegisterService(instance string, svc any) {
	r.services[instance] = svc
}

// Processor resolves a processor's "handler" string, of the form
// "log" or "log:<comma-separated source names>". The built-in "log"
// handler logs every event it receives and subscribes itself to each
// named source via the default ON_EVENT key.
func (r *demoResolver) Processor(handler string) (processor.Processor, bool) {
	parts := strings.SplitN(handler, ":", 2)
	if parts[0] != "log" {
		return nil, false
	}
	p := &loggingProcessor{logger: log.WithComponent("processor.log")}
	if len(parts) == 2 {
		p.feeds = strings.Split(parts[1], ",")
	}
	return p, true
}

// Sink resolves a sink's "instance" string: "console" logs every accepted
// event, "channel" buffers accepted events on an internal channel that is
// otherwise undrained by this binary (demo wiring only).
func (r *demoResolver) Sink(instance string) (sink.Sink, bool) {
	switch instance {
	case "console":
		return sink.NewConsoleSink(instance), true
	case "channel":
		return sink.NewChannelSink(64), true
	default:
		return nil, false
	}
}

// loggingProcessor is the built-in "log" processor handler: it logs every
// event it receives and subscribes itself, on addition to its group, to
// every source name it was configured with.
type loggingProcessor struct {
	logger zerolog.Logger
	feeds  []string
}

func (p *loggingProcessor) AddEventFeed(f *processor.EventFeed) {
	for _, name := range p.feeds {
		f.Subscribe(events.OnEventKey(name))
	}
}

func (p *loggingProcessor) OnEvent(e events.Event) {
	p.logger.Info().Interface("event", e).Msg("event")
}
