package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/mongoose/pkg/errreport"
	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/flow"
	"github.com/cuemby/mongoose/pkg/publisher"
)

type fakeSource struct {
	subscribed   []events.SubscriptionKey
	unsubscribed []events.SubscriptionKey
	pub          *publisher.EventToQueuePublisher
}

func (s *fakeSource) Subscribe(key events.SubscriptionKey)   { s.subscribed = append(s.subscribed, key) }
func (s *fakeSource) UnSubscribe(key events.SubscriptionKey) { s.unsubscribed = append(s.unsubscribed, key) }
func (s *fakeSource) SetEventToQueuePublisher(p *publisher.EventToQueuePublisher) {
	s.pub = p
}

func TestRegisterEventSourceIsIdempotent(t *testing.T) {
	m := flow.New(errreport.New(), 16)
	s := &fakeSource{}

	p1 := m.RegisterEventSource("orders", s)
	p2 := m.RegisterEventSource("orders", s)

	assert.Same(t, p1, p2)
}

func TestGetMappingAgentCreatesQueueOnce(t *testing.T) {
	m := flow.New(errreport.New(), 16)
	s := &fakeSource{}
	m.RegisterEventSource("orders", s)

	key := events.OnEventKey("orders")
	q1 := m.GetMappingAgent(key, "group-a")
	q2 := m.GetMappingAgent(key, "group-a")

	assert.Same(t, q1, q2, "same (source,key,consumer) triple must map to one queue for server lifetime")
}

func TestGetMappingAgentDistinguishesConsumerAgents(t *testing.T) {
	m := flow.New(errreport.New(), 16)
	s := &fakeSource{}
	m.RegisterEventSource("orders", s)

	key := events.OnEventKey("orders")
	qa := m.GetMappingAgent(key, "group-a")
	qb := m.GetMappingAgent(key, "group-b")

	assert.NotSame(t, qa, qb)
}

func TestSubscribeForwardsToSource(t *testing.T) {
	m := flow.New(errreport.New(), 16)
	s := &fakeSource{}
	m.RegisterEventSource("orders", s)

	key := events.OnEventKey("orders")
	m.Subscribe(key)
	m.UnSubscribe(key)

	require.Len(t, s.subscribed, 1)
	require.Len(t, s.unsubscribed, 1)
	assert.Equal(t, key, s.subscribed[0])
	assert.Equal(t, key, s.unsubscribed[0])
}

func TestQueuesListsEveryCreatedQueue(t *testing.T) {
	m := flow.New(errreport.New(), 16)
	s := &fakeSource{}
	m.RegisterEventSource("orders", s)

	m.GetMappingAgent(events.OnEventKey("orders"), "group-a")
	m.GetMappingAgent(events.OnEventKey("orders"), "group-b")

	assert.Len(t, m.Queues(), 2)
}
