package metric

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/ringbuffer/errors"
)

func gatheredNames(t *testing.T, registry *MetricsRegistry) map[string]bool {
	t.Helper()
	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	return names
}

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()

	assert.NotNil(t, registry)
	assert.NotNil(t, registry.PrometheusRegistry())
	assert.NotNil(t, registry.CoreMetrics())
	assert.True(t, gatheredNames(t, registry)["go_goroutines"], "runtime collector should be registered")
}

func TestMetricsRegistry_RegisterKinds(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter", Help: "c"})
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_gauge", Help: "g"})
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{Name: "test_histogram", Help: "h"})
	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_counter_vec", Help: "cv"}, []string{"k"})
	histogramVec := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "test_histogram_vec", Help: "hv"}, []string{"k"})

	require.NoError(t, registry.RegisterCounter("buf", "counter", counter))
	require.NoError(t, registry.RegisterGauge("buf", "gauge", gauge))
	require.NoError(t, registry.RegisterHistogram("buf", "histogram", histogram))
	require.NoError(t, registry.RegisterCounterVec("buf", "counter_vec", counterVec))
	require.NoError(t, registry.RegisterHistogramVec("buf", "histogram_vec", histogramVec))

	counter.Inc()
	gauge.Set(42)
	histogram.Observe(1.5)
	counterVec.WithLabelValues("a").Inc()
	histogramVec.WithLabelValues("a").Observe(0.1)

	names := gatheredNames(t, registry)
	for _, name := range []string{
		"test_counter", "test_gauge", "test_histogram",
		"test_counter_vec", "test_histogram_vec",
	} {
		assert.True(t, names[name], "%s should be registered", name)
	}
	assert.Equal(t, 42.0, testutil.ToFloat64(gauge))
}

func TestMetricsRegistry_DuplicateKey(t *testing.T) {
	registry := NewMetricsRegistry()

	counter1 := prometheus.NewCounter(prometheus.CounterOpts{Name: "dup_a", Help: "first"})
	counter2 := prometheus.NewCounter(prometheus.CounterOpts{Name: "dup_b", Help: "second"})

	require.NoError(t, registry.RegisterCounter("buf", "writes", counter1))

	err := registry.RegisterCounter("buf", "writes", counter2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
	assert.True(t, errors.IsInvalid(err))
}

func TestMetricsRegistry_PrometheusConflict(t *testing.T) {
	registry := NewMetricsRegistry()

	counter1 := prometheus.NewCounter(prometheus.CounterOpts{Name: "duplicate_counter", Help: "same"})
	counter2 := prometheus.NewCounter(prometheus.CounterOpts{Name: "duplicate_counter", Help: "same"})

	require.NoError(t, registry.RegisterCounter("buf-a", "writes", counter1))

	err := registry.RegisterCounter("buf-b", "writes", counter2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prometheus conflict")
	assert.True(t, errors.IsInvalid(err))
}

func TestMetricsRegistry_Unregister(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "unregister_counter", Help: "c"})
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "kept_gauge", Help: "g"})
	require.NoError(t, registry.RegisterCounter("buf", "writes", counter))
	require.NoError(t, registry.RegisterGauge("buf", "size", gauge))

	assert.True(t, gatheredNames(t, registry)["unregister_counter"])

	assert.True(t, registry.Unregister("buf", "writes"))
	assert.False(t, registry.Unregister("buf", "writes"), "second unregister is a no-op")

	names := gatheredNames(t, registry)
	assert.False(t, names["unregister_counter"])
	assert.True(t, names["kept_gauge"])

	// the key is free again
	again := prometheus.NewCounter(prometheus.CounterOpts{Name: "unregister_counter", Help: "c"})
	assert.NoError(t, registry.RegisterCounter("buf", "writes", again))
}

func TestMetricsRegistry_ThreadSafety(t *testing.T) {
	registry := NewMetricsRegistry()

	var wg sync.WaitGroup
	numGoroutines := 10

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			counter := prometheus.NewCounter(prometheus.CounterOpts{
				Name: fmt.Sprintf("concurrent_counter_%d", id),
				Help: "A concurrent counter",
			})
			err := registry.RegisterCounter("concurrent", fmt.Sprintf("counter_%d", id), counter)
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	count := 0
	for name := range gatheredNames(t, registry) {
		if strings.HasPrefix(name, "concurrent_counter_") {
			count++
		}
	}
	assert.Equal(t, numGoroutines, count)
}

func TestNewMetricsRegistry_FleetKeys(t *testing.T) {
	registry := NewMetricsRegistry()

	for _, key := range []string{
		"buffers_active", "reconfigurations", "items_released",
		"writes_rejected", "blocked_write_wait", "drained_items",
	} {
		err := registry.RegisterCounter(FleetOwner, key,
			prometheus.NewCounter(prometheus.CounterOpts{Name: "shadow_" + key, Help: "s"}))
		require.Error(t, err, "fleet key %s should already be taken", key)
		assert.True(t, errors.IsInvalid(err))
	}

	// fleet metrics are tracked like any other owner's
	registry.CoreMetrics().RecordDrain("ingest", 4)
	assert.True(t, gatheredNames(t, registry)["ringbuffer_fleet_drained_items"])
	assert.True(t, registry.Unregister(FleetOwner, "drained_items"))
	assert.False(t, gatheredNames(t, registry)["ringbuffer_fleet_drained_items"])
}

func TestMetricsRegistrar_Interface(t *testing.T) {
	var registrar MetricsRegistrar = NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "interface_counter", Help: "c"})
	require.NoError(t, registrar.RegisterCounter("buf", "interface_counter", counter))
}

func TestCoreMetrics_RecordMethods(t *testing.T) {
	registry := NewMetricsRegistry()
	m := registry.CoreMetrics()

	m.RecordBufferOpened()
	m.RecordBufferOpened()
	m.RecordBufferClosed()
	m.RecordReconfigure("ingest")
	m.RecordReleased("ingest", "overflow", 3)
	m.RecordReleased("ingest", "overflow", 0)
	m.RecordRejected("ingest")
	m.RecordRejected("ingest")
	m.RecordBlockedWait("ingest", 5*time.Millisecond)
	m.RecordDrain("ingest", 12)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.BuffersActive))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reconfigurations.WithLabelValues("ingest")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ItemsReleased.WithLabelValues("ingest", "overflow")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WritesRejected.WithLabelValues("ingest")))

	names := gatheredNames(t, registry)
	for _, name := range []string{
		"ringbuffer_fleet_buffers_active",
		"ringbuffer_fleet_reconfigurations_total",
		"ringbuffer_fleet_items_released_total",
		"ringbuffer_fleet_writes_rejected_total",
		"ringbuffer_fleet_blocked_write_wait_seconds",
		"ringbuffer_fleet_drained_items",
	} {
		assert.True(t, names[name], "fleet metric %s should be gathered", name)
	}
}
