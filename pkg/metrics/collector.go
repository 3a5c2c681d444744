package metrics

import "time"

// QueueStatsProvider is implemented by anything that exposes point-in-time
// occupancy for a named queue, typically a pkg/queue.TargetQueue.
type QueueStatsProvider interface {
	Name() string
	Len() int
	Cap() int
}

// Collector periodically samples the current set of queues and publishes
// their depth and capacity as gauges. Queues are fetched fresh on every
// tick via the supplied provider function rather than snapshotted once,
// since the flow manager creates target queues lazily on first
// subscription — long after Collector.Start is typically called.
type Collector struct {
	queues func() []QueueStatsProvider
	stopCh chan struct{}
}

// NewCollector creates a metrics collector that samples whatever queues
// provider returns at each tick.
func NewCollector(provider func() []QueueStatsProvider) *Collector {
	return &Collector{
		queues: provider,
		stopCh: make(chan struct{}),
	}
}

// Start begins periodic sampling on its own goroutine.
func (c *Collector) Start() {
	ticker := time.NewTicker(2 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts periodic sampling.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	for _, q := range c.queues() {
		QueueDepth.WithLabelValues(q.Name()).Set(float64(q.Len()))
		QueueCapacity.WithLabelValues(q.Name()).Set(float64(q.Cap()))
	}
}
