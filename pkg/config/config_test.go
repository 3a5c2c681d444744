package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/mongoose/pkg/config"
)

const sampleYAML = `
feeds:
  - instance: orders
    name: orders
    broadcast: true
    agent_name: orders-agent
    idle_strategy: busy-spin
    cache_event_log: true
groups:
  - agent_name: group-a
    idle_strategy: yielding
    processors:
      p1:
        handler: demo.Handler
threads:
  - agent_name: orders-agent
    idle_strategy: busy-spin
    core_id: 2
`

func TestLoadYAMLDecodesAllSections(t *testing.T) {
	cfg, err := config.LoadYAML([]byte(sampleYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Feeds, 1)
	assert.Equal(t, "orders", cfg.Feeds[0].Name)
	assert.True(t, cfg.Feeds[0].Broadcast)
	assert.True(t, cfg.Feeds[0].CacheEventLog)

	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "group-a", cfg.Groups[0].AgentName)
	assert.Contains(t, cfg.Groups[0].Processors, "p1")

	require.Len(t, cfg.Threads, 1)
	require.NotNil(t, cfg.Threads[0].CoreID)
	assert.Equal(t, 2, *cfg.Threads[0].CoreID)
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	_, err := config.LoadFile("/nonexistent/path/mongoose.yaml")
	assert.Error(t, err)
}
