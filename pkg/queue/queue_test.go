package queue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/mongoose/pkg/events"
	"github.com/cuemby/mongoose/pkg/queue"
)

func TestOfferDrainRoundTrip(t *testing.T) {
	q := queue.New("orders", events.OnEventKey("orders"), "group-a", 8)

	for _, v := range []string{"a", "b", "c"} {
		require.True(t, q.Offer(v))
	}

	var got []string
	n := q.DrainTo(func(e events.Event) {
		got = append(got, e.(string))
	}, 64)

	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestOfferFailsWhenFull(t *testing.T) {
	q := queue.New("orders", events.OnEventKey("orders"), "group-a", 2) // rounds to 2

	require.True(t, q.Offer(1))
	require.True(t, q.Offer(2))
	assert.False(t, q.Offer(3), "ring at capacity should reject further offers")
	assert.Equal(t, uint64(1), q.Overflow())
}

func TestDrainToRespectsMax(t *testing.T) {
	q := queue.New("orders", events.OnEventKey("orders"), "group-a", 16)
	for i := 0; i < 10; i++ {
		require.True(t, q.Offer(i))
	}

	var got []int
	n := q.DrainTo(func(e events.Event) { got = append(got, e.(int)) }, 4)
	assert.Equal(t, 4, n)
	assert.Len(t, got, 4)

	n2 := q.DrainTo(func(e events.Event) { got = append(got, e.(int)) }, 64)
	assert.Equal(t, 6, n2)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestLenTracksOccupancy(t *testing.T) {
	q := queue.New("orders", events.OnEventKey("orders"), "group-a", 16)
	assert.Equal(t, 0, q.Len())

	q.Offer("x")
	q.Offer("y")
	assert.Equal(t, 2, q.Len())

	q.DrainTo(func(events.Event) {}, 1)
	assert.Equal(t, 1, q.Len())
}

func TestQueueIdentity(t *testing.T) {
	key := events.OnEventKey("orders")
	q := queue.New("orders", key, "group-a", 8)
	assert.Equal(t, "orders", q.SourceName())
	assert.Equal(t, key, q.Key())
	assert.Equal(t, "group-a", q.ConsumerName())
	assert.Equal(t, "orders/ON_EVENT/group-a", q.Name())
}
