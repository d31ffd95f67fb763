// Package metric provides the Prometheus registry shared by buffers.
//
// A MetricsRegistry wraps a private prometheus.Registry. It carries two kinds of
// metrics:
//
//  1. Fleet metrics (Metrics type): registered automatically and labelled by
//     buffer name. They count reconfigurations, released items, rejected
//     writes, blocked-write waits and drain sizes across every buffer bound to
//     the registry.
//  2. Per-buffer metrics: registered by each buffer through the
//     MetricsRegistrar interface under its own owner name.
//
// Registration is tracked by "owner.metric" key. Registering the same key twice
// returns an Invalid classified error, as does a name clash inside Prometheus.
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//
//	buf, err := buffer.NewCircularBuffer[[]byte](1024,
//		buffer.WithMetrics[[]byte](registry, "ingest"),
//	)
//
//	families, err := registry.PrometheusRegistry().Gather()
//
// Exposing the registry over HTTP is left to the embedding program, for example
// with promhttp.HandlerFor(registry.PrometheusRegistry(), promhttp.HandlerOpts{}).
package metric
