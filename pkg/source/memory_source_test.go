package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/mongoose/pkg/errreport"
	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/publisher"
	"github.com/cuemby/mongoose/pkg/source"
)

func TestMemorySourceCachesPreStartCompleteEvents(t *testing.T) {
	ms := source.NewMemorySource("feed", true)
	pub := publisher.New("feed", errreport.New())
	ms.SetEventToQueuePublisher(pub)

	c := &collector{}
	pub.AddTargetQueue(c, "consumer")

	require.NoError(t, ms.Start())
	ms.Offer("item 1")
	ms.Offer("item 2")
	assert.Empty(t, c.received, "nothing reaches the queue before startComplete")

	require.NoError(t, ms.StartComplete())
	ms.Offer("item 3")
	ms.Offer("item 4")

	assert.Equal(t, []events.Event{"item 1", "item 2", "item 3", "item 4"}, c.received)
	assert.Equal(t, []events.Event{"item 1", "item 2", "item 3", "item 4"}, pub.GetEventLog())
}

func TestMemorySourceOfferBeforeWiringIsSafe(t *testing.T) {
	ms := source.NewMemorySource("feed", false)
	assert.NotPanics(t, func() { ms.Offer("anything") })
}
