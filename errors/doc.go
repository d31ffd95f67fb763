// Package errors provides standardized error handling for the buffer wrappers.
//
// # Overview
//
// The core ring buffer reports its two expected conditions, a full push and an
// empty pop, through return values and never through errors. The wrappers
// built on top of it (package buffer, package metric) turn those conditions and
// their own failures into classified errors, so callers can decide whether to
// retry, fix their input, or stop:
//
//   - Transient: the buffer is full or a context expired (retry recommended)
//   - Invalid: bad configuration values or a write to a closed buffer (do not retry)
//   - Fatal: unrecoverable registration or resource failures (stop)
//
// # Error Wrapping Pattern
//
// All wrapping follows the format:
//
//	"component.method: action failed: %w"
//
// Three wrappers set the class explicitly:
//
//	errors.WrapTransient(errors.ErrBufferFull, "Buffer", "Write", "reject policy")
//	errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "capacity must be non-negative")
//	errors.WrapFatal(err, "MetricsRegistry", "RegisterGauge", "register with prometheus")
//
// # Standard Error Variables
//
//   - Buffer state: ErrBufferFull, ErrBufferClosed
//   - Parsing and configuration: ErrParsingFailed, ErrInvalidConfig, ErrMissingConfig
//   - Retries: ErrMaxRetriesExceeded, ErrRetryTimeout
//
// Unclassified errors are matched against these sentinels and a few message
// fragments ("timeout", "corrupt", ...) by Classify.
//
// # Retry Configuration
//
// RetryConfig is the policy behind buffer.WriteWithRetry. ShouldRetry decides
// which errors are repeated and ToRetryConfig turns the rest into a
// retry.Config. DefaultRetryConfig retries only ErrBufferFull:
//
//	policy := errors.DefaultRetryConfig()
//	buf, err := buffer.NewCircularBuffer[Item](64,
//		buffer.WithOverflowPolicy[Item](buffer.Reject),
//		buffer.WithRetryPolicy[Item](policy),
//	)
//
// # Integration with errors.As/Is
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//		logger.Warn("buffer write failed", "component", ce.Component, "class", ce.Class)
//	}
//
//	if errors.Is(err, errors.ErrBufferFull) {
//		// back off
//	}
package errors
