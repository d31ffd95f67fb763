package buffer

import (
	"log/slog"
	"time"

	"github.com/c360/ringbuffer/errors"
	"github.com/c360/ringbuffer/metric"
)

// Option configures buffer behavior using the functional options pattern.
type Option[T any] func(*bufferOptions[T])

// bufferOptions holds internal configuration for buffer instances.
// Stats are ALWAYS collected - they are not optional.
type bufferOptions[T any] struct {
	name           string
	overflowPolicy OverflowPolicy
	dropCallback   DropCallback[T]
	logger         *slog.Logger
	retryPolicy    errors.RetryConfig

	// writeTimeout bounds Write under the Block policy; zero waits forever
	writeTimeout time.Duration

	// metricsReg is optional - if provided, buffer stats are also exposed as Prometheus metrics
	metricsReg *metric.MetricsRegistry

	// metricsPrefix is used as the component label for Prometheus metrics
	metricsPrefix string
}

// WithName sets the name used in logs. WithMetrics overrides it with the metrics prefix.
func WithName[T any](name string) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.name = name
	}
}

// WithOverflowPolicy sets the overflow behavior for the buffer.
// Defaults to DropOldest if not specified.
func WithOverflowPolicy[T any](policy OverflowPolicy) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.overflowPolicy = policy
	}
}

// WithWriteTimeout bounds how long Write waits under the Block policy.
func WithWriteTimeout[T any](timeout time.Duration) Option[T] {
	return func(opts *bufferOptions[T]) {
		if timeout > 0 {
			opts.writeTimeout = timeout
		}
	}
}

// WithMetrics enables Prometheus metrics export for buffer statistics.
// A nil registry or an empty prefix leaves metrics disabled.
func WithMetrics[T any](registry *metric.MetricsRegistry, prefix string) Option[T] {
	return func(opts *bufferOptions[T]) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithDropCallback sets a callback function that is called when items are dropped.
// The callback replaces the default ringbuffer.Discard and runs without the buffer lock held.
func WithDropCallback[T any](callback DropCallback[T]) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.dropCallback = callback
	}
}

// WithRetryPolicy sets the policy used by WriteWithRetry.
// Defaults to errors.DefaultRetryConfig().
func WithRetryPolicy[T any](policy errors.RetryConfig) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.retryPolicy = policy
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(opts *bufferOptions[T]) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// applyOptions applies functional options to create final buffer configuration.
func applyOptions[T any](options ...Option[T]) *bufferOptions[T] {
	opts := &bufferOptions[T]{
		overflowPolicy: DropOldest,
		retryPolicy:    errors.DefaultRetryConfig(),
	}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	if opts.metricsPrefix != "" {
		opts.name = opts.metricsPrefix
	}
	if opts.name == "" {
		opts.name = generateName()
	}
	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	return opts
}
