package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Queue metrics
	QueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mongoose_queue_depth",
			Help: "Current number of events waiting in a target queue",
		},
		[]string{"queue"},
	)

	QueueCapacity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mongoose_queue_capacity",
			Help: "Configured capacity of a target queue",
		},
		[]string{"queue"},
	)

	EventsDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongoose_events_dispatched_total",
			Help: "Total number of events successfully offered to a queue",
		},
		[]string{"queue"},
	)

	EventsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongoose_events_dropped_total",
			Help: "Total number of events dropped because a queue was full",
		},
		[]string{"queue"},
	)

	// Agent metrics
	AgentIdleCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongoose_agent_idle_cycles_total",
			Help: "Total number of doWork cycles that performed no work",
		},
		[]string{"agent"},
	)

	AgentDoWorkDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongoose_agent_dowork_duration_seconds",
			Help:    "Time taken by a single doWork invocation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"agent"},
	)

	AgentExceptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mongoose_agent_exceptions_total",
			Help: "Total number of exceptions reported by an agent's handler",
		},
		[]string{"agent"},
	)

	// Processing latency
	EventProcessingDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mongoose_event_processing_duration_seconds",
			Help:    "Time taken for a processor to handle a single event",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"processor"},
	)

	// Scheduler metrics
	ScheduledTasksPending = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mongoose_scheduled_tasks_pending",
			Help: "Number of deadlines currently registered with the scheduler",
		},
	)

	ScheduledTasksFiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mongoose_scheduled_tasks_fired_total",
			Help: "Total number of scheduled tasks that have fired",
		},
	)
)

func init() {
	prometheus.MustRegister(QueueDepth)
	prometheus.MustRegister(QueueCapacity)
	prometheus.MustRegister(EventsDispatchedTotal)
	prometheus.MustRegister(EventsDroppedTotal)
	prometheus.MustRegister(AgentIdleCyclesTotal)
	prometheus.MustRegister(AgentDoWorkDuration)
	prometheus.MustRegister(AgentExceptionsTotal)
	prometheus.MustRegister(EventProcessingDuration)
	prometheus.MustRegister(ScheduledTasksPending)
	prometheus.MustRegister(ScheduledTasksFiredTotal)
}

// Handler returns the Prometheus HTTP handler for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations against a histogram.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
