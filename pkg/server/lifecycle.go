package server

import (
	"fmt"

	"github.com/cuemby/mongoose/pkg/metrics"
)

// Init performs the boot sequence's first half: wires every Injectable
// against the registry, then calls Init on every lifecycle participant in
// order services → sources. Processors are initialized asynchronously by
// their group's own command queue (pkg/processor applyAddProcessor)
// rather than here, since they are never exposed to the orchestrator
// directly outside of AddEventProcessor.
//
// A fatal error aborts and tears down everything already initialized, in
// reverse order.
func (s *Server) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inited {
		return nil
	}

	if err := s.wireInjectables(); err != nil {
		return err
	}

	metrics.RegisterComponent("queue-fabric", true, "")

	var done []func() error

	for _, se := range s.services {
		svc := se.svc
		if err := initOne(se.name, svc); err != nil {
			s.rollback(done)
			return err
		}
		name := se.name
		done = append(done, func() error { return stopAndTearDown(name, svc) })
	}

	for _, src := range s.sources {
		source := src.source
		if err := initOne(src.name, source); err != nil {
			s.rollback(done)
			return err
		}
		name := src.name
		done = append(done, func() error { return stopAndTearDown(name, source) })
	}

	s.inited = true
	return nil
}

func initOne(name string, v any) error {
	if init, ok := v.(initializer); ok {
		if err := init.Init(); err != nil {
			return fmt.Errorf("%w: %s init: %v", ErrConfiguration, name, err)
		}
	}
	return nil
}

func (s *Server) rollback(done []func() error) {
	for i := len(done) - 1; i >= 0; i-- {
		if err := done[i](); err != nil {
			s.logger.Warn().Err(err).Msg("rollback step failed, continuing")
		}
	}
}

func (s *Server) wireInjectables() error {
	all := append([]any{}, servicesAsAny(s.services)...)
	all = append(all, sourcesAsAny(s.sources)...)
	all = append(all, processorsAsAny(s.processors)...)

	for _, v := range all {
		if inj, ok := v.(Injectable); ok {
			if err := inj.Wire(s.registry); err != nil {
				return fmt.Errorf("%w: %v", ErrServiceRegistration, err)
			}
		}
	}
	return nil
}

func servicesAsAny(entries []serviceEntry) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.svc
	}
	return out
}

func sourcesAsAny(entries []sourceEntry) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.source
	}
	return out
}

func processorsAsAny(entries []processorEntry) []any {
	out := make([]any, len(entries))
	for i, e := range entries {
		out[i] = e.proc
	}
	return out
}

// Start starts every agent thread, then calls Start then StartComplete on
// services and sources in order, then propagates StartComplete to every
// processor group so processors already resident get it too — startComplete
// on a source triggers cached-event replay.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if !s.inited {
		return fmt.Errorf("%w: Start called before Init", ErrConfiguration)
	}

	for _, name := range s.agentOrder {
		s.agents[name].Start()
	}

	for _, se := range s.services {
		if st, ok := se.svc.(starter); ok {
			if err := st.Start(); err != nil {
				return fmt.Errorf("%w: service %s start: %v", ErrConfiguration, se.name, err)
			}
		}
	}
	for _, se := range s.services {
		if sc, ok := se.svc.(startCompleter); ok {
			if err := sc.StartComplete(); err != nil {
				return fmt.Errorf("%w: service %s startComplete: %v", ErrConfiguration, se.name, err)
			}
		}
	}

	for _, src := range s.sources {
		if st, ok := src.source.(starter); ok {
			if err := st.Start(); err != nil {
				return fmt.Errorf("%w: source %s start: %v", ErrConfiguration, src.name, err)
			}
		}
	}
	for _, src := range s.sources {
		if sc, ok := src.source.(startCompleter); ok {
			if err := sc.StartComplete(); err != nil {
				return fmt.Errorf("%w: source %s startComplete: %v", ErrConfiguration, src.name, err)
			}
		}
	}

	for _, name := range s.groupOrder {
		if err := s.groups[name].group.MarkStartComplete(); err != nil {
			return fmt.Errorf("%w: group %s startComplete: %v", ErrConfiguration, name, err)
		}
	}

	s.metricsCollector.Start()
	metrics.RegisterComponent("orchestrator", true, "")

	s.started = true
	return nil
}

// Stop calls Stop then TearDown on every source and then every service,
// each in reverse registration order, then stops every agent thread,
// joining each one. Processors are stopped and torn down by their group's
// OnClose as its agent exits; the reporter's listeners are cleared last.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	metrics.RegisterComponent("orchestrator", false, "stopping")
	s.metricsCollector.Stop()

	// Processors are stopped implicitly by their agent's OnClose once the
	// agent is stopped below (pkg/processor.OnClose tears down every
	// resident processor in the group).

	for i := len(s.sources) - 1; i >= 0; i-- {
		src := s.sources[i]
		if err := stopAndTearDown(src.name, src.source); err != nil {
			s.logger.Warn().Err(err).Msg("source shutdown step failed, continuing")
		}
	}

	for i := len(s.services) - 1; i >= 0; i-- {
		se := s.services[i]
		if err := stopAndTearDown(se.name, se.svc); err != nil {
			s.logger.Warn().Err(err).Msg("service shutdown step failed, continuing")
		}
	}

	for _, name := range s.agentOrder {
		s.agents[name].Stop()
	}

	s.reporter.ClearListeners()

	s.started = false
	return nil
}
