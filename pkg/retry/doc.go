// Package retry provides exponential backoff retry logic for transient failures.
//
// # Overview
//
// The buffer wrappers use this package to wait out a full buffer under the
// Reject overflow policy: the write is retried with growing delays until a
// consumer frees a slot, the attempts run out, or the context ends.
//
// # Core Functions
//
//   - Do: execute a function with retry and exponential backoff
//   - DoWithResult: the same, returning a value
//   - NonRetryable: mark an error that must stop the loop immediately
//
// # Configuration Presets
//
//   - DefaultConfig(): 3 attempts, 100ms-5s delay
//   - Quick(): 10 attempts, 50ms-1s delay
//   - Backpressure(): 20 attempts, 1ms-50ms delay (full in-process buffers)
//
// # Usage
//
//	err := retry.Do(ctx, retry.Backpressure(), func() error {
//		if !rb.Push(item) {
//			return errors.ErrBufferFull
//		}
//		return nil
//	})
//
// # Context Cancellation
//
// Retries stop as soon as the context is done, either after a failed attempt or
// during the backoff delay.
package retry
