// Package server implements MongooseServer: the lifecycle coordinator
// that registers sources, sinks, services, and processor groups, performs
// dependency injection, owns every agent, and enforces
// init → start → startComplete → stop → tearDown ordering across all of
// them.
package server

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cuemby/mongoose/pkg/admin"
	"github.com/cuemby/mongoose/pkg/agent"
	"github.com/cuemby/mongoose/pkg/errreport"
	"github.com/cuemby/mongoose/pkg/flow"
	"github.com/cuemby/mongoose/pkg/idle"
	"github.com/cuemby/mongoose/pkg/log"
	"github.com/cuemby/mongoose/pkg/metrics"
	"github.com/cuemby/mongoose/pkg/processor"
	"github.com/cuemby/mongoose/pkg/publisher"
	"github.com/cuemby/mongoose/pkg/scheduler"
)

// schedulerAgentName is the reserved agent name the scheduler service is
// placed on: a deadline timer wheel polled from a scheduler agent's
// doWork. It is not a valid target for RegisterEventSource /
// AddEventProcessor's agentName argument.
const schedulerAgentName = "__scheduler__"

type initializer interface{ Init() error }
type starter interface{ Start() error }
type startCompleter interface{ StartComplete() error }
type stopper interface{ Stop() error }
type tearDowner interface{ TearDown() error }

type sourceEntry struct {
	name      string
	source    flow.Source
	agentName string
}

type serviceEntry struct {
	name string
	svc  any
}

type processorEntry struct {
	group string
	name  string
	proc  processor.Processor
}

type groupEntry struct {
	agentName string
	idle      idle.Strategy
	group     *processor.ComposingEventProcessorAgent
}

// Server is MongooseServer. One instance owns exactly one flow manager,
// one error reporter, one admin command registry, and every agent thread
// created for the sources and processor groups registered on it.
type Server struct {
	mu sync.Mutex

	reporter    *errreport.Reporter
	flowManager *flow.Manager
	registry    *Registry
	Admin       *admin.Registry
	Scheduler   *scheduler.Scheduler

	logger zerolog.Logger

	sources    []sourceEntry
	services   []serviceEntry
	processors []processorEntry
	sinks      []sinkEntry

	groupOrder []string
	groups     map[string]*groupEntry

	agentComposites map[string]*compositeWorker
	agentOrder      []string
	agents          map[string]*agent.Agent

	metricsCollector *metrics.Collector

	inited  bool
	started bool
}

// New creates an empty Server. queueCapacity is the default TargetQueue
// capacity passed to the flow manager; pass 0 for the package default.
func New(queueCapacity int) *Server {
	reporter := errreport.New()
	sched := scheduler.New(reporter)
	s := &Server{
		reporter:        reporter,
		flowManager:     flow.New(reporter, queueCapacity),
		registry:        newRegistry(),
		Admin:           admin.New(),
		Scheduler:       sched,
		logger:          log.WithComponent("server"),
		groups:          make(map[string]*groupEntry),
		agentComposites: make(map[string]*compositeWorker),
		agents:          make(map[string]*agent.Agent),
	}

	s.agentOrder = append(s.agentOrder, schedulerAgentName)
	s.agents[schedulerAgentName] = agent.New(agent.Config{
		Name:   schedulerAgentName,
		Worker: sched,
		Idle:   &idle.Backoff{},
	})

	s.metricsCollector = metrics.NewCollector(func() []metrics.QueueStatsProvider {
		queues := s.flowManager.Queues()
		out := make([]metrics.QueueStatsProvider, len(queues))
		for i, q := range queues {
			out[i] = q
		}
		return out
	})

	return s
}

// Reporter returns the server's error-reporter facade.
func (s *Server) Reporter() *errreport.Reporter { return s.reporter }

// AddLogListener installs a listener on the reporter that also shows up in
// the BootServer(config, resolver, logListener) convenience signature.
func (s *Server) AddLogListener(l errreport.Listener) { s.reporter.AddListener(l) }

// RegisterEventSource registers a source under name and wires a fresh
// publisher into it. agentName places the source's doWork
// loop (if it has one) on a shared or dedicated agent with idleStrategy;
// sources with no DoWork method (pure push sources like MemorySource)
// ignore these two arguments.
func (s *Server) RegisterEventSource(name string, src flow.Source, agentName string, idleStrategy idle.Strategy) *publisher.EventToQueuePublisher {
	s.mu.Lock()
	defer s.mu.Unlock()

	pub := s.flowManager.RegisterEventSource(name, src)
	s.sources = append(s.sources, sourceEntry{name: name, source: src, agentName: agentName})

	if dw, ok := src.(doWorker); ok {
		s.compositeFor(agentName, idleStrategy).add(&sourceWorkerAdapter{source: dw})
	}

	return pub
}

// RegisterService registers svc under name so it participates in the
// init/start/startComplete/stop/tearDown sequence and becomes visible to
// Injectable.Wire calls. Registering the same name twice is a
// configuration error.
func (s *Server) RegisterService(name string, svc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.registry.Named(name); exists {
		return fmt.Errorf("%w: service %q already registered", ErrConfiguration, name)
	}
	s.registry.register(name, svc)
	s.services = append(s.services, serviceEntry{name: name, svc: svc})
	return nil
}

// AddEventProcessor adds a processor to a group, creating the group (and
// its backing agent) on first use. Subsequent calls for an existing group
// name ignore agentName/idleStrategy and just add another processor to
// the group already built.
func (s *Server) AddEventProcessor(groupName, processorName string, agentName string, idleStrategy idle.Strategy, proc processor.Processor) error {
	s.mu.Lock()
	ge, ok := s.groups[groupName]
	if !ok {
		ge = &groupEntry{
			agentName: agentName,
			idle:      idleStrategy,
			group:     processor.New(groupName, s.flowManager, s.reporter),
		}
		s.groups[groupName] = ge
		s.groupOrder = append(s.groupOrder, groupName)
		s.compositeFor(agentName, idleStrategy).add(ge.group)
		if s.started {
			// A group born after startComplete latches the flag up front
			// so its processors get StartComplete on arrival.
			if err := ge.group.MarkStartComplete(); err != nil {
				s.mu.Unlock()
				return err
			}
		}
	}
	s.processors = append(s.processors, processorEntry{group: groupName, name: processorName, proc: proc})
	s.mu.Unlock()

	return ge.group.AddProcessor(processorName, proc)
}

// StopProcessor removes processorName from groupName, invoking Stop then
// TearDown on it and unsubscribing all of its keys.
func (s *Server) StopProcessor(groupName, processorName string) error {
	s.mu.Lock()
	ge, ok := s.groups[groupName]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: unknown processor group %q", ErrConfiguration, groupName)
	}
	return ge.group.RemoveProcessor(processorName)
}

// StartService calls Start (and, if the server has already reached
// startComplete, StartComplete) on a single already-registered service by
// name, for dynamic service activation after boot.
func (s *Server) StartService(name string) error {
	s.mu.Lock()
	svc, ok := s.registry.Named(name)
	startedAlready := s.started
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: unknown service %q", ErrConfiguration, name)
	}
	if st, ok := svc.(starter); ok {
		if err := st.Start(); err != nil {
			return fmt.Errorf("service %q start: %w", name, err)
		}
	}
	if startedAlready {
		if sc, ok := svc.(startCompleter); ok {
			if err := sc.StartComplete(); err != nil {
				return fmt.Errorf("service %q startComplete: %w", name, err)
			}
		}
	}
	return nil
}

// StopService calls Stop then TearDown on a single registered service.
func (s *Server) StopService(name string) error {
	s.mu.Lock()
	svc, ok := s.registry.Named(name)
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: unknown service %q", ErrConfiguration, name)
	}
	return stopAndTearDown(name, svc)
}

// RegisteredServices returns every registered service's name, in
// registration order.
func (s *Server) RegisteredServices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.services))
	for i, se := range s.services {
		out[i] = se.name
	}
	return out
}

// RegisteredProcessors returns every registered processor's (group, name)
// pair, in registration order.
func (s *Server) RegisteredProcessors() [][2]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][2]string, len(s.processors))
	for i, pe := range s.processors {
		out[i] = [2]string{pe.group, pe.name}
	}
	return out
}

// ServicesRegistered reports whether any service is registered under name.
func (s *Server) ServicesRegistered(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.registry.Named(name)
	return ok
}

// compositeFor returns the shared worker for agentName, creating its
// agent on first use. An agent created after the server has started is
// started immediately so runtime-registered groups and sources get
// driven. Callers hold s.mu.
func (s *Server) compositeFor(agentName string, idleStrategy idle.Strategy) *compositeWorker {
	cw, ok := s.agentComposites[agentName]
	if !ok {
		cw = &compositeWorker{}
		s.agentComposites[agentName] = cw
		s.agentOrder = append(s.agentOrder, agentName)
		a := agent.New(agent.Config{Name: agentName, Worker: cw, Idle: idleStrategy})
		s.agents[agentName] = a
		if s.started {
			a.Start()
		}
	}
	return cw
}

func stopAndTearDown(name string, v any) error {
	if st, ok := v.(stopper); ok {
		if err := st.Stop(); err != nil {
			return fmt.Errorf("%s stop: %w", name, err)
		}
	}
	if td, ok := v.(tearDowner); ok {
		if err := td.TearDown(); err != nil {
			return fmt.Errorf("%s tearDown: %w", name, err)
		}
	}
	return nil
}
