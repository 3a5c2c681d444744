package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/cuemby/mongoose/pkg/config"
	"github.com/cuemby/mongoose/pkg/errreport"
	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/flow"
	"github.com/cuemby/mongoose/pkg/idle"
	"github.com/cuemby/mongoose/pkg/processor"
	"github.com/cuemby/mongoose/pkg/sink"
)

// Resolver maps the instance/handler/supplier name strings a config.Config
// carries to the live Go values they name. Building this mapping is the
// external, non-core concern this package scopes out ("the configuration
// builder / YAML loader"); BootServer only needs it to translate an
// already-parsed Config into calls against the core's own registration
// API.
type Resolver interface {
	Source(instance string) (flow.Source, bool)
	Service(instance string) (any, bool)
	Processor(handlerOrSupplier string) (processor.Processor, bool)
	Sink(instance string) (sink.Sink, bool)
}

// defaultSinkAgentName is the agent shared by every configured sink that
// names no agent_name of its own.
const defaultSinkAgentName = "sinks"

// IdleStrategyFor builds an idle.Strategy from one of the named tags:
// "busy-spin", "yielding", "sleeping", "backoff". Unrecognized names
// fall back to Yielding.
func IdleStrategyFor(name string) idle.Strategy {
	switch name {
	case "busy-spin":
		return &idle.BusySpin{}
	case "sleeping":
		return idle.Sleeping{Duration: time.Millisecond}
	case "backoff":
		return &idle.Backoff{}
	default:
		return idle.Yielding{}
	}
}

// BootServer is the convenience entry point: it builds a fully wired
// Server from an already-parsed Config and a Resolver, installs
// logListener on the reporter, and carries the server through Init and
// Start. Callers that need finer control should use RegisterEventSource /
// RegisterService / AddEventProcessor and call Init/Start directly
// instead.
func BootServer(cfg *config.Config, resolve Resolver, logListener errreport.Listener) (*Server, error) {
	s := New(0)
	if logListener != nil {
		s.AddLogListener(logListener)
	}

	for _, svcCfg := range cfg.Services {
		svc, ok := resolve.Service(svcCfg.Instance)
		if !ok {
			return nil, fmt.Errorf("%w: unresolved service instance %q", ErrConfiguration, svcCfg.Instance)
		}
		if err := s.RegisterService(svcCfg.Name, svc); err != nil {
			return nil, err
		}
	}

	for _, feedCfg := range cfg.Feeds {
		src, ok := resolve.Source(feedCfg.Instance)
		if !ok {
			return nil, fmt.Errorf("%w: unresolved source instance %q", ErrConfiguration, feedCfg.Instance)
		}
		s.RegisterEventSource(feedCfg.Name, src, feedCfg.AgentName, IdleStrategyFor(feedCfg.IdleStrategy))
	}

	for _, sinkCfg := range cfg.Sinks {
		sk, ok := resolve.Sink(sinkCfg.Instance)
		if !ok {
			return nil, fmt.Errorf("%w: unresolved sink instance %q", ErrConfiguration, sinkCfg.Instance)
		}
		key := events.OnEventKey(sinkCfg.Source)
		if name, isCustom := strings.CutPrefix(sinkCfg.Callback, "custom:"); isCustom {
			key = events.CustomKey(sinkCfg.Source, name)
		}
		agentName := sinkCfg.AgentName
		if agentName == "" {
			agentName = defaultSinkAgentName
		}
		if err := s.RegisterEventSink(sinkCfg.Name, sk, key, agentName, idle.Yielding{}); err != nil {
			return nil, fmt.Errorf("%w: sink %q: %v", ErrConfiguration, sinkCfg.Name, err)
		}
	}

	for _, groupCfg := range cfg.Groups {
		strategy := IdleStrategyFor(groupCfg.IdleStrategy)
		for procName, procCfg := range groupCfg.Processors {
			key := procCfg.Handler
			if key == "" {
				key = procCfg.Supplier
			}
			proc, ok := resolve.Processor(key)
			if !ok {
				return nil, fmt.Errorf("%w: unresolved processor %q in group %q", ErrConfiguration, procName, groupCfg.AgentName)
			}
			if err := s.AddEventProcessor(groupCfg.AgentName, procName, groupCfg.AgentName, strategy, proc); err != nil {
				return nil, err
			}
		}
	}

	if err := s.Init(); err != nil {
		return nil, err
	}
	if err := s.Start(); err != nil {
		return nil, err
	}
	return s, nil
}
