// Package ringbuffer is the root of a small family of bounded FIFO buffers
// that own the elements they hold.
//
// # Layout
//
// The module is split in two layers:
//
// Core (pkg/ringbuffer):
//   - RingBuffer: fixed-capacity circular queue, not synchronized, never errors
//   - Drainer: takes the whole contents out of a buffer in one step
//   - Cleanable / OnRelease: destruction of elements the buffer drops itself
//
// Service layer:
//   - pkg/buffer: mutex-guarded buffer with overflow policies, statistics,
//     YAML configuration and optional Prometheus metrics
//   - metric: Prometheus registry and fleet-wide buffer metrics
//   - errors: classified errors (transient, invalid, fatal)
//   - pkg/retry: exponential backoff used by Reject-policy writers
//
// # Ownership
//
// A value pushed into a buffer belongs to the buffer until it is popped,
// read or drained. Anything the buffer throws away on its own, because it
// was reconfigured, cleared, closed or overflowed, is destroyed exactly once
// through the release hook. For element types implementing
// ringbuffer.Cleanable that means one Cleanup call.
//
// # Quick Start
//
//	rb := ringbuffer.New[int]()
//	rb.Configure(3)
//	rb.Push(1)
//	rb.Push(2)
//	for v := range rb.All() {
//		fmt.Println(v)
//	}
//
// Shared between goroutines:
//
//	buf, err := buffer.NewCircularBuffer[*Frame](1024,
//		buffer.WithOverflowPolicy[*Frame](buffer.Block),
//		buffer.WithMetrics[*Frame](registry, "frames"),
//	)
package ringbuffer
