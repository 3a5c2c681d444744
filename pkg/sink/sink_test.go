package sink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cuemby/mongoose/pkg/sink"
)

func TestConsoleSinkAcceptDoesNotPanic(t *testing.T) {
	s := sink.NewConsoleSink("test")
	assert.NotPanics(t, func() { s.Accept("hello") })
}

func TestChannelSinkDeliversAcceptedEvents(t *testing.T) {
	s := sink.NewChannelSink(2)
	s.Accept("a")
	s.Accept("b")

	assert.Equal(t, "a", <-s.C)
	assert.Equal(t, "b", <-s.C)
}

func TestChannelSinkDropsWhenFull(t *testing.T) {
	s := sink.NewChannelSink(1)
	s.Accept("a")
	s.Accept("b") // dropped, channel full

	assert.Equal(t, "a", <-s.C)
	assert.Len(t, s.C, 0)
}
