package server_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/mongoose/pkg/server"
)

type widgetService struct{ id string }

func (w *widgetService) Wire(*server.Registry) error { return nil }

type widgetConsumer struct {
	reg *server.Registry
}

func (c *widgetConsumer) Wire(r *server.Registry) error {
	c.reg = r
	return nil
}

func TestLookupFindsSingleRegisteredMatch(t *testing.T) {
	s := server.New(0)
	want := &widgetService{id: "only"}
	require.NoError(t, s.RegisterService("widget", want))
	consumer := &widgetConsumer{}
	require.NoError(t, s.RegisterService("consumer", consumer))
	require.NoError(t, s.Init())

	require.NotNil(t, consumer.reg)
	got, ok, err := server.Lookup[*widgetService](consumer.reg)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "only", got.id)
}

func TestLookupReturnsNotOKForNoMatch(t *testing.T) {
	s := server.New(0)
	consumer := &widgetConsumer{}
	require.NoError(t, s.RegisterService("consumer", consumer))
	require.NoError(t, s.Init())

	_, ok, err := server.Lookup[*widgetService](consumer.reg)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLookupReturnsErrorForAmbiguousMatch(t *testing.T) {
	s := server.New(0)
	require.NoError(t, s.RegisterService("widget-1", &widgetService{id: "one"}))
	require.NoError(t, s.RegisterService("widget-2", &widgetService{id: "two"}))
	consumer := &widgetConsumer{}
	require.NoError(t, s.RegisterService("consumer", consumer))
	require.NoError(t, s.Init())

	_, _, err := server.Lookup[*widgetService](consumer.reg)
	assert.ErrorIs(t, err, server.ErrServiceRegistration)
}
