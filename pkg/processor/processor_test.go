package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/mongoose/pkg/errreport"
	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/flow"
	"github.com/cuemby/mongoose/pkg/processor"
	"github.com/cuemby/mongoose/pkg/publisher"
)

type fakeSource struct {
	pub *publisher.EventToQueuePublisher
}

func (s *fakeSource) Subscribe(events.SubscriptionKey)   {}
func (s *fakeSource) UnSubscribe(events.SubscriptionKey) {}
func (s *fakeSource) SetEventToQueuePublisher(p *publisher.EventToQueuePublisher) {
	s.pub = p
}

type recordingProcessor struct {
	name           string
	received       []events.Event
	initCalls      int
	started        bool
	startCompleted bool
	stopped        bool
	torndown       bool
	feed           *processor.EventFeed
	panicOn        any
}

func (p *recordingProcessor) Init() error          { p.initCalls++; return nil }
func (p *recordingProcessor) Start() error         { p.started = true; return nil }
func (p *recordingProcessor) StartComplete() error { p.startCompleted = true; return nil }
func (p *recordingProcessor) Stop() error          { p.stopped = true; return nil }
func (p *recordingProcessor) TearDown() error      { p.torndown = true; return nil }
func (p *recordingProcessor) AddEventFeed(f *processor.EventFeed) {
	p.feed = f
}
func (p *recordingProcessor) OnEvent(e events.Event) {
	if p.panicOn != nil && e == p.panicOn {
		panic("boom")
	}
	p.received = append(p.received, e)
}

func newGroup(t *testing.T) (*processor.ComposingEventProcessorAgent, *flow.Manager, *fakeSource) {
	t.Helper()
	fm := flow.New(errreport.New(), 16)
	src := &fakeSource{}
	fm.RegisterEventSource("orders", src)
	group := processor.New("group-a", fm, errreport.New())
	return group, fm, src
}

func waitForWork(t *testing.T, group *processor.ComposingEventProcessorAgent, cycles int) {
	t.Helper()
	for i := 0; i < cycles; i++ {
		group.DoWork()
	}
}

func TestAddProcessorRunsInitAndStart(t *testing.T) {
	group, _, _ := newGroup(t)
	p := &recordingProcessor{name: "p1"}

	require.NoError(t, group.AddProcessor("p1", p))
	waitForWork(t, group, 1)

	assert.Equal(t, 1, p.initCalls)
	assert.True(t, p.started)
}

func TestSubscribeHandshakeDeliversEvents(t *testing.T) {
	group, fm, _ := newGroup(t)
	p := &recordingProcessor{name: "p1"}
	require.NoError(t, group.AddProcessor("p1", p))
	waitForWork(t, group, 1)

	key := events.OnEventKey("orders")
	require.NoError(t, group.Subscribe("p1", key))
	waitForWork(t, group, 1) // applies SUBSCRIBE command

	pub := fm.Publisher("orders")
	require.NotNil(t, pub)
	pub.MarkStartComplete()
	pub.Publish("a")
	pub.Publish("b")

	waitForWork(t, group, 1) // drains queue, dispatches

	assert.Equal(t, []events.Event{"a", "b"}, p.received)
}

func TestSubscribeIsIdempotent(t *testing.T) {
	group, fm, _ := newGroup(t)
	p := &recordingProcessor{name: "p1"}
	require.NoError(t, group.AddProcessor("p1", p))
	waitForWork(t, group, 1)

	key := events.OnEventKey("orders")
	require.NoError(t, group.Subscribe("p1", key))
	require.NoError(t, group.Subscribe("p1", key))
	waitForWork(t, group, 1)

	pub := fm.Publisher("orders")
	pub.MarkStartComplete()
	pub.Publish("only-once")
	waitForWork(t, group, 1)

	assert.Equal(t, []events.Event{"only-once"}, p.received, "duplicate subscribe must not duplicate delivery")
}

func TestRemoveProcessorStopsDeliveryAndTearsDown(t *testing.T) {
	group, fm, _ := newGroup(t)
	p := &recordingProcessor{name: "p1"}
	require.NoError(t, group.AddProcessor("p1", p))
	waitForWork(t, group, 1)

	key := events.OnEventKey("orders")
	require.NoError(t, group.Subscribe("p1", key))
	waitForWork(t, group, 1)

	pub := fm.Publisher("orders")
	pub.MarkStartComplete()

	require.NoError(t, group.RemoveProcessor("p1"))
	waitForWork(t, group, 1)

	pub.Publish("after-remove")
	waitForWork(t, group, 1)

	assert.True(t, p.stopped)
	assert.True(t, p.torndown)
	assert.Empty(t, p.received)

	// Re-add and subscribe again: subsequent publishes must be delivered.
	p2 := &recordingProcessor{name: "p1"}
	require.NoError(t, group.AddProcessor("p1", p2))
	require.NoError(t, group.Subscribe("p1", key))
	waitForWork(t, group, 1)

	pub.Publish("after-readd")
	waitForWork(t, group, 1)

	assert.Equal(t, []events.Event{"after-readd"}, p2.received)
}

func TestProcessorPanicIsRecoveredAndOthersStillRun(t *testing.T) {
	group, fm, _ := newGroup(t)
	bad := &recordingProcessor{name: "bad", panicOn: "boom-event"}
	good := &recordingProcessor{name: "good"}
	require.NoError(t, group.AddProcessor("bad", bad))
	require.NoError(t, group.AddProcessor("good", good))
	waitForWork(t, group, 1)

	key := events.OnEventKey("orders")
	require.NoError(t, group.Subscribe("bad", key))
	require.NoError(t, group.Subscribe("good", key))
	waitForWork(t, group, 1)

	pub := fm.Publisher("orders")
	pub.MarkStartComplete()
	pub.Publish("boom-event")
	pub.Publish("fine")

	waitForWork(t, group, 1)

	assert.Equal(t, []events.Event{"fine"}, bad.received, "panicking processor stays registered and keeps receiving")
	assert.Equal(t, []events.Event{"boom-event", "fine"}, good.received, "sibling processor is unaffected by the panic")
}

func TestAddEventFeedLetsProcessorSelfSubscribe(t *testing.T) {
	group, fm, _ := newGroup(t)
	p := &recordingProcessor{name: "p1"}
	require.NoError(t, group.AddProcessor("p1", p))
	waitForWork(t, group, 1)

	require.NotNil(t, p.feed)
	p.feed.Subscribe(events.OnEventKey("orders"))
	waitForWork(t, group, 1)

	pub := fm.Publisher("orders")
	pub.MarkStartComplete()
	pub.Publish("via-feed")
	waitForWork(t, group, 1)

	assert.Equal(t, []events.Event{"via-feed"}, p.received)
}

func TestMarkStartCompleteReachesResidentProcessorsAndLatches(t *testing.T) {
	group, _, _ := newGroup(t)
	early := &recordingProcessor{name: "early"}
	require.NoError(t, group.AddProcessor("early", early))
	waitForWork(t, group, 1)
	assert.False(t, early.startCompleted)

	require.NoError(t, group.MarkStartComplete())
	waitForWork(t, group, 1)
	assert.True(t, early.startCompleted, "already-resident processor gets StartComplete once the group is marked")

	late := &recordingProcessor{name: "late"}
	require.NoError(t, group.AddProcessor("late", late))
	waitForWork(t, group, 1)
	assert.True(t, late.startCompleted, "processor added after the group is marked gets StartComplete immediately")
}
