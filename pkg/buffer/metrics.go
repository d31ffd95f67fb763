package buffer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/ringbuffer/metric"
)

// bufferMetrics holds the per-buffer Prometheus metrics.
type bufferMetrics struct {
	registry metric.MetricsRegistrar
	fleet    *metric.Metrics
	name     string

	writes    prometheus.Counter
	reads     prometheus.Counter
	peeks     prometheus.Counter
	overflows prometheus.Counter
	drops     prometheus.Counter

	size        prometheus.Gauge
	capacity    prometheus.Gauge
	utilization prometheus.Gauge

	batchSize prometheus.Histogram
}

func newCounter(prefix, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   "ringbuffer",
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"component": prefix},
		Help:        help,
	})
}

func newGauge(prefix, name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "ringbuffer",
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"component": prefix},
		Help:        help,
	})
}

func newHistogram(prefix, name, help string, buckets []float64) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace:   "ringbuffer",
		Subsystem:   "buffer",
		Name:        name,
		ConstLabels: prometheus.Labels{"component": prefix},
		Help:        help,
		Buckets:     buckets,
	})
}

var batchBuckets = prometheus.ExponentialBuckets(1, 2, 10)

// newBufferMetrics creates and registers buffer metrics with the provided registry.
// On failure every metric registered so far is removed again.
func newBufferMetrics(registry *metric.MetricsRegistry, prefix string) (*bufferMetrics, error) {
	m := &bufferMetrics{
		registry:    registry,
		fleet:       registry.CoreMetrics(),
		name:        prefix,
		writes:      newCounter(prefix, "writes_total", "Total number of accepted writes"),
		reads:       newCounter(prefix, "reads_total", "Total number of items handed to readers"),
		peeks:       newCounter(prefix, "peeks_total", "Total number of peek operations"),
		overflows:   newCounter(prefix, "overflows_total", "Total number of writes that found the buffer full"),
		drops:       newCounter(prefix, "drops_total", "Total number of items dropped by the overflow policy"),
		size:        newGauge(prefix, "size", "Current number of items in buffer"),
		capacity:    newGauge(prefix, "capacity", "Current buffer capacity"),
		utilization: newGauge(prefix, "utilization", "Buffer utilization as a fraction (0.0 to 1.0)"),
		batchSize:   newHistogram(prefix, "read_batch_size", "Number of items returned by a single ReadBatch", batchBuckets),
	}

	var registered []string
	counters := []struct {
		key string
		c   prometheus.Counter
	}{
		{"buffer_writes", m.writes},
		{"buffer_reads", m.reads},
		{"buffer_peeks", m.peeks},
		{"buffer_overflows", m.overflows},
		{"buffer_drops", m.drops},
	}
	for _, c := range counters {
		if err := registry.RegisterCounter(prefix, c.key, c.c); err != nil {
			m.unregisterKeys(registered)
			return nil, err
		}
		registered = append(registered, c.key)
	}

	gauges := []struct {
		key string
		g   prometheus.Gauge
	}{
		{"buffer_size", m.size},
		{"buffer_capacity", m.capacity},
		{"buffer_utilization", m.utilization},
	}
	for _, g := range gauges {
		if err := registry.RegisterGauge(prefix, g.key, g.g); err != nil {
			m.unregisterKeys(registered)
			return nil, err
		}
		registered = append(registered, g.key)
	}

	if err := registry.RegisterHistogram(prefix, "buffer_read_batch_size", m.batchSize); err != nil {
		m.unregisterKeys(registered)
		return nil, err
	}

	m.fleet.RecordBufferOpened()
	return m, nil
}

var metricKeys = []string{
	"buffer_writes", "buffer_reads", "buffer_peeks", "buffer_overflows", "buffer_drops",
	"buffer_size", "buffer_capacity", "buffer_utilization", "buffer_read_batch_size",
}

func (m *bufferMetrics) unregisterKeys(keys []string) {
	for _, key := range keys {
		m.registry.Unregister(m.name, key)
	}
}

// close unregisters the per-buffer metrics so the name can be reused.
func (m *bufferMetrics) close() {
	m.unregisterKeys(metricKeys)
	m.fleet.RecordBufferClosed()
}

func (m *bufferMetrics) recordWrite(size, capacity int) {
	m.writes.Inc()
	m.updateSize(size, capacity)
}

func (m *bufferMetrics) recordRead(n, size, capacity int) {
	m.reads.Add(float64(n))
	m.updateSize(size, capacity)
}

func (m *bufferMetrics) recordBatch(n int) {
	m.batchSize.Observe(float64(n))
}

func (m *bufferMetrics) recordPeek() {
	m.peeks.Inc()
}

func (m *bufferMetrics) recordOverflow(dropped bool) {
	m.overflows.Inc()
	if dropped {
		m.drops.Inc()
	}
}

// updateSize sets the current buffer size, capacity and utilization.
func (m *bufferMetrics) updateSize(size, capacity int) {
	m.size.Set(float64(size))
	m.capacity.Set(float64(capacity))
	if capacity == 0 {
		m.utilization.Set(0)
		return
	}
	m.utilization.Set(float64(size) / float64(capacity))
}
