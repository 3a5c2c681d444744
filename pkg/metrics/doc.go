/*
Package metrics provides Prometheus metrics collection and exposition for
MongooseServer.

It defines and registers the server's metrics using the Prometheus client
library, giving visibility into queue backpressure, agent idle/busy cycles,
and event processing latency. Metrics are exposed over HTTP for scraping.

# Architecture

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │          Prometheus Registry                │          │
	│  │  - Global DefaultRegistry                   │          │
	│  │  - MustRegister at package init             │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │              Metric Categories               │          │
	│  │                                              │          │
	│  │  Queue: depth, capacity, dispatched, dropped │          │
	│  │  Agent: idle cycles, doWork duration         │          │
	│  │  Processing: per-processor latency          │          │
	│  │  Scheduler: pending/fired deadlines         │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │          HTTP Metrics Endpoint               │          │
	│  │  - Path: /metrics                           │          │
	│  │  - Handler: promhttp.Handler()              │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────┘

# Metrics Catalog

Queue metrics:
  - mongoose_queue_depth{queue}
  - mongoose_queue_capacity{queue}
  - mongoose_events_dispatched_total{queue}
  - mongoose_events_dropped_total{queue}

Agent metrics:
  - mongoose_agent_idle_cycles_total{agent}
  - mongoose_agent_dowork_duration_seconds{agent}
  - mongoose_agent_exceptions_total{agent}

Processing metrics:
  - mongoose_event_processing_duration_seconds{processor}

Scheduler metrics:
  - mongoose_scheduled_tasks_pending
  - mongoose_scheduled_tasks_fired_total

The Collector in collector.go samples queue depth/capacity from every
registered pkg/queue.TargetQueue on a fixed interval; the remaining counters
and histograms are updated inline by the agents and publisher that own them.
*/
package metrics
