// Package config defines the plain configuration structures consumed by
// the core and a thin YAML loader for cmd/mongoosectl. No runtime or
// business logic lives here: building the config from YAML is an external
// concern, and the core only ever consumes an already-built *Config value.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EventFeedConfig describes one configured event feed (source).
type EventFeedConfig struct {
	Instance           string `yaml:"instance"`
	Name               string `yaml:"name"`
	Broadcast          bool   `yaml:"broadcast"`
	WrapWithNamedEvent bool   `yaml:"wrap_with_named_event"`
	ValueMapper        string `yaml:"value_mapper,omitempty"`
	AgentName          string `yaml:"agent_name"`
	IdleStrategy       string `yaml:"idle_strategy"`
	CacheEventLog      bool   `yaml:"cache_event_log,omitempty"`
}

// EventSinkConfig describes one configured event sink: instance names the
// sink implementation to resolve, source names the feed it subscribes to,
// and callback optionally names a custom callback tag ("custom:<name>")
// instead of the default ON_EVENT key.
type EventSinkConfig struct {
	Instance  string `yaml:"instance"`
	Name      string `yaml:"name"`
	Source    string `yaml:"source"`
	Callback  string `yaml:"callback,omitempty"`
	AgentName string `yaml:"agent_name,omitempty"`
}

// EventProcessorConfig describes one processor hosted within a group.
type EventProcessorConfig struct {
	Handler  string            `yaml:"handler,omitempty"`
	Supplier string            `yaml:"supplier,omitempty"`
	LogLevel string            `yaml:"log_level,omitempty"`
	Config   map[string]string `yaml:"config,omitempty"`
}

// EventProcessorGroupConfig describes one processor group (one agent
// hosting N named processors).
type EventProcessorGroupConfig struct {
	AgentName    string                          `yaml:"agent_name"`
	IdleStrategy string                          `yaml:"idle_strategy"`
	LogLevel     string                          `yaml:"log_level,omitempty"`
	Processors   map[string]EventProcessorConfig `yaml:"processors"`
}

// ServiceConfig describes one registered service.
type ServiceConfig struct {
	Instance     string `yaml:"instance"`
	Class        string `yaml:"class,omitempty"`
	Name         string `yaml:"name"`
	AgentGroup   string `yaml:"agent_group,omitempty"`
	IdleStrategy string `yaml:"idle_strategy,omitempty"`
}

// ThreadConfig describes one agent thread's runtime parameters.
type ThreadConfig struct {
	AgentName    string `yaml:"agent_name"`
	IdleStrategy string `yaml:"idle_strategy"`
	CoreID       *int   `yaml:"core_id,omitempty"`
}

// Config is the top-level configuration value the core consumes. It is
// pure data; MongooseServer.BootServer is the only component that
// interprets it.
type Config struct {
	Feeds    []EventFeedConfig           `yaml:"feeds"`
	Sinks    []EventSinkConfig           `yaml:"sinks"`
	Groups   []EventProcessorGroupConfig `yaml:"groups"`
	Services []ServiceConfig             `yaml:"services"`
	Threads  []ThreadConfig              `yaml:"threads"`
	LogLevel string                      `yaml:"log_level,omitempty"`
}

// LoadYAML decodes a Config from raw YAML bytes.
func LoadYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	return cfg, nil
}

// LoadFile reads path and decodes it as YAML into a Config.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return LoadYAML(data)
}
