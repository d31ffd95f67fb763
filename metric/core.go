package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains fleet-level metrics shared by every buffer on a registry.
// Per-buffer counters live in package buffer and are registered separately.
type Metrics struct {
	BuffersActive      prometheus.Gauge
	Reconfigurations   *prometheus.CounterVec
	ItemsReleased      *prometheus.CounterVec
	WritesRejected     *prometheus.CounterVec
	BlockedWriteWait   *prometheus.HistogramVec
	DrainedItemsPerRun *prometheus.HistogramVec
}

// NewMetrics creates the fleet-level metrics
func NewMetrics() *Metrics {
	return &Metrics{
		BuffersActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "ringbuffer",
				Subsystem: "fleet",
				Name:      "buffers_active",
				Help:      "Number of open buffers bound to this registry",
			},
		),

		Reconfigurations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ringbuffer",
				Subsystem: "fleet",
				Name:      "reconfigurations_total",
				Help:      "Total number of capacity reconfigurations",
			},
			[]string{"buffer"},
		),

		ItemsReleased: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ringbuffer",
				Subsystem: "fleet",
				Name:      "items_released_total",
				Help:      "Items destroyed by a buffer instead of being handed to a reader",
			},
			[]string{"buffer", "reason"},
		),

		WritesRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ringbuffer",
				Subsystem: "fleet",
				Name:      "writes_rejected_total",
				Help:      "Writes refused because the buffer was full",
			},
			[]string{"buffer"},
		),

		BlockedWriteWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ringbuffer",
				Subsystem: "fleet",
				Name:      "blocked_write_wait_seconds",
				Help:      "Time writers spent waiting for a free slot",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"buffer"},
		),

		DrainedItemsPerRun: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "ringbuffer",
				Subsystem: "fleet",
				Name:      "drained_items",
				Help:      "Number of items returned by a single drain",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"buffer"},
		),
	}
}

// RecordBufferOpened increments the open buffer gauge
func (c *Metrics) RecordBufferOpened() {
	c.BuffersActive.Inc()
}

// RecordBufferClosed decrements the open buffer gauge
func (c *Metrics) RecordBufferClosed() {
	c.BuffersActive.Dec()
}

// RecordReconfigure counts a capacity change
func (c *Metrics) RecordReconfigure(buffer string) {
	c.Reconfigurations.WithLabelValues(buffer).Inc()
}

// RecordReleased counts items destroyed for reason (overflow, clear, resize, close)
func (c *Metrics) RecordReleased(buffer, reason string, n int) {
	if n <= 0 {
		return
	}
	c.ItemsReleased.WithLabelValues(buffer, reason).Add(float64(n))
}

// RecordRejected counts a refused write
func (c *Metrics) RecordRejected(buffer string) {
	c.WritesRejected.WithLabelValues(buffer).Inc()
}

// RecordBlockedWait observes how long a blocked writer waited
func (c *Metrics) RecordBlockedWait(buffer string, d time.Duration) {
	c.BlockedWriteWait.WithLabelValues(buffer).Observe(d.Seconds())
}

// RecordDrain observes the size of a drain
func (c *Metrics) RecordDrain(buffer string, n int) {
	c.DrainedItemsPerRun.WithLabelValues(buffer).Observe(float64(n))
}
