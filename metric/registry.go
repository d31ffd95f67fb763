package metric

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/c360/ringbuffer/errors"
)

// MetricsRegistrar defines the interface for registering buffer metrics
type MetricsRegistrar interface {
	RegisterCounter(owner, metricName string, counter prometheus.Counter) error
	RegisterGauge(owner, metricName string, gauge prometheus.Gauge) error
	RegisterHistogram(owner, metricName string, histogram prometheus.Histogram) error
	RegisterCounterVec(owner, metricName string, counterVec *prometheus.CounterVec) error
	RegisterHistogramVec(owner, metricName string, histogramVec *prometheus.HistogramVec) error
	Unregister(owner, metricName string) bool
}

// MetricsRegistry manages the registration and lifecycle of metrics
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registeredMetrics  map[string]prometheus.Collector
	mu                 sync.RWMutex
}

// FleetOwner is the owner name the fleet metrics are registered under.
const FleetOwner = "fleet"

// NewMetricsRegistry creates a registry carrying the fleet metrics and the Go
// runtime collectors. It panics if the fleet metrics cannot be registered, as
// prometheus.MustRegister does.
func NewMetricsRegistry() *MetricsRegistry {
	registry := &MetricsRegistry{
		prometheusRegistry: prometheus.NewRegistry(),
		registeredMetrics:  make(map[string]prometheus.Collector),
		Metrics:            NewMetrics(),
	}

	if err := registry.registerFleet(); err != nil {
		panic(err)
	}

	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

func (r *MetricsRegistry) registerFleet() error {
	m := r.Metrics
	if err := r.RegisterGauge(FleetOwner, "buffers_active", m.BuffersActive); err != nil {
		return err
	}

	counterVecs := []struct {
		key string
		cv  *prometheus.CounterVec
	}{
		{"reconfigurations", m.Reconfigurations},
		{"items_released", m.ItemsReleased},
		{"writes_rejected", m.WritesRejected},
	}
	for _, c := range counterVecs {
		if err := r.RegisterCounterVec(FleetOwner, c.key, c.cv); err != nil {
			return err
		}
	}

	histogramVecs := []struct {
		key string
		hv  *prometheus.HistogramVec
	}{
		{"blocked_write_wait", m.BlockedWriteWait},
		{"drained_items", m.DrainedItemsPerRun},
	}
	for _, h := range histogramVecs {
		if err := r.RegisterHistogramVec(FleetOwner, h.key, h.hv); err != nil {
			return err
		}
	}
	return nil
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the fleet metrics
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

// RegisterCounter registers a counter metric for owner
func (r *MetricsRegistry) RegisterCounter(owner, metricName string, counter prometheus.Counter) error {
	return r.register(owner, metricName, "RegisterCounter", "counter", counter)
}

// RegisterGauge registers a gauge metric for owner
func (r *MetricsRegistry) RegisterGauge(owner, metricName string, gauge prometheus.Gauge) error {
	return r.register(owner, metricName, "RegisterGauge", "gauge", gauge)
}

// RegisterHistogram registers a histogram metric for owner
func (r *MetricsRegistry) RegisterHistogram(owner, metricName string, histogram prometheus.Histogram) error {
	return r.register(owner, metricName, "RegisterHistogram", "histogram", histogram)
}

// RegisterCounterVec registers a counter vector metric for owner
func (r *MetricsRegistry) RegisterCounterVec(owner, metricName string, counterVec *prometheus.CounterVec) error {
	return r.register(owner, metricName, "RegisterCounterVec", "counter vector", counterVec)
}

// RegisterHistogramVec registers a histogram vector metric for owner
func (r *MetricsRegistry) RegisterHistogramVec(
	owner, metricName string, histogramVec *prometheus.HistogramVec) error {
	return r.register(owner, metricName, "RegisterHistogramVec", "histogram vector", histogramVec)
}

func (r *MetricsRegistry) register(owner, metricName, method, kind string, c prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", owner, metricName)

	if _, exists := r.registeredMetrics[key]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("metric %s already registered for %s", metricName, owner),
			"MetricsRegistry", method, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(c); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "MetricsRegistry", method,
				fmt.Sprintf("prometheus conflict for metric %s", metricName))
		}
		return errors.WrapFatal(err, "MetricsRegistry", method,
			fmt.Sprintf("register %s with prometheus", kind))
	}

	r.registeredMetrics[key] = c
	return nil
}

// Unregister removes a metric from the registry
func (r *MetricsRegistry) Unregister(owner, metricName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", owner, metricName)

	collector, exists := r.registeredMetrics[key]
	if !exists {
		return false
	}

	success := r.prometheusRegistry.Unregister(collector)
	if success {
		delete(r.registeredMetrics, key)
	}

	return success
}
