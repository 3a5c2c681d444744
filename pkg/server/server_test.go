package server_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/idle"
	"github.com/cuemby/mongoose/pkg/processor"
	"github.com/cuemby/mongoose/pkg/server"
	"github.com/cuemby/mongoose/pkg/source"
)

type collectingProcessor struct {
	mu       sync.Mutex
	received []events.Event
	feed     *processor.EventFeed
}

func (p *collectingProcessor) AddEventFeed(f *processor.EventFeed) { p.feed = f }
func (p *collectingProcessor) OnEvent(e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.received = append(p.received, e)
}
func (p *collectingProcessor) snapshot() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.received))
	copy(out, p.received)
	return out
}

type greeterService struct {
	wired bool
}

func (g *greeterService) Wire(r *server.Registry) error {
	g.wired = true
	return nil
}

func TestEndToEndBroadcastDelivery(t *testing.T) {
	s := server.New(0)
	src := source.NewMemorySource("orders", false)
	s.RegisterEventSource("orders", src, "orders-agent", idle.Yielding{})

	p := &collectingProcessor{}
	require.NoError(t, s.AddEventProcessor("group-a", "p1", "group-a", idle.Yielding{}, p))

	require.NoError(t, s.Init())
	require.NoError(t, s.Start())
	defer s.Stop()

	require.Eventually(t, func() bool { return p.feed != nil }, time.Second, time.Millisecond)
	p.feed.Subscribe(events.OnEventKey("orders"))

	// The SUBSCRIBE command is applied asynchronously by the group's own
	// agent; keep offering a throwaway event until the first one lands,
	// confirming the subscription handshake has completed.
	require.Eventually(t, func() bool {
		src.Offer("ping")
		return len(p.snapshot()) >= 1
	}, time.Second, 5*time.Millisecond)

	// Pings offered while the first one was in flight may still be queued.
	// Offer one marker and wait for it: the queue is FIFO, so once the
	// marker has arrived every earlier ping has been delivered too.
	src.Offer("sync")
	require.Eventually(t, func() bool {
		got := p.snapshot()
		return len(got) > 0 && got[len(got)-1] == "sync"
	}, time.Second, time.Millisecond)

	p.mu.Lock()
	p.received = nil
	p.mu.Unlock()

	src.Offer("a")
	src.Offer("b")
	src.Offer("c")

	require.Eventually(t, func() bool {
		return len(p.snapshot()) >= 3
	}, time.Second, time.Millisecond)

	assert.Equal(t, []events.Event{"a", "b", "c"}, p.snapshot())
}

func TestInjectionWiresRegisteredService(t *testing.T) {
	s := server.New(0)
	g := &greeterService{}
	require.NoError(t, s.RegisterService("greeter", g))
	require.NoError(t, s.Init())

	assert.True(t, g.wired)
}

func TestStopIsIdempotentWithoutStart(t *testing.T) {
	s := server.New(0)
	assert.NoError(t, s.Stop())
	assert.NoError(t, s.Stop())
}

func TestStartBeforeInitFails(t *testing.T) {
	s := server.New(0)
	assert.Error(t, s.Start())
}

func TestRegisteredServicesAndProcessorsReflectRegistrations(t *testing.T) {
	s := server.New(0)
	require.NoError(t, s.RegisterService("svc-a", &greeterService{}))
	require.NoError(t, s.AddEventProcessor("group-a", "p1", "group-a", idle.Yielding{}, &collectingProcessor{}))

	assert.Equal(t, []string{"svc-a"}, s.RegisteredServices())
	assert.Equal(t, [][2]string{{"group-a", "p1"}}, s.RegisteredProcessors())
}
