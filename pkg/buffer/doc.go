// # Overview
//
// A circular buffer here is a ringbuffer.RingBuffer guarded by a sync.RWMutex,
// plus two condition variables for the Block policy. The core ring never
// grows and never errors; this package turns its refused Push into the
// configured overflow behavior and records everything it does.
//
// # Quick Start
//
//	buf, err := buffer.NewCircularBuffer[int](1000)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer buf.Close()
//
//	err = buf.Write(42)
//	value, ok := buf.Read()
//
// From configuration:
//
//	cfg, err := buffer.ParseConfig([]byte(`
//	name: ingest
//	capacity: 4096
//	overflow_policy: block
//	write_timeout: 250ms
//	metrics: true
//	`))
//	buf, err := buffer.New[*Event](cfg, registry)
//
// # Overflow Policies
//
//   - DropOldest: Remove oldest item to make room (default)
//   - DropNewest: Discard the incoming item
//   - Reject: Return a transient ErrBufferFull; the caller keeps the item
//   - Block: Wait for space, bounded by a context or the write timeout
//
// Reject pairs with WriteWithRetry, which backs off and retries while the
// buffer stays full. The policy is set once, when the buffer is built:
//
//	buf, err := buffer.NewCircularBuffer[*Event](256,
//		buffer.WithOverflowPolicy[*Event](buffer.Reject),
//		buffer.WithRetryPolicy[*Event](errors.DefaultRetryConfig()),
//	)
//	err = buf.WriteWithRetry(ctx, event)
//
// # Ownership
//
// Items returned by Read, ReadBatch, ReadWithContext and Drain belong to the
// caller. Items the buffer discards on its own (overflow, Clear, Resize, Close)
// go to the drop callback when one is set and to ringbuffer.Discard otherwise,
// so element types implementing ringbuffer.Cleanable are cleaned up exactly once.
// Callbacks run after the buffer lock is released.
//
// # Observability
//
// Statistics are always collected with atomic counters and are available via
// Stats(). WithMetrics additionally exports per-buffer counters and gauges
// labelled with the buffer name, and feeds the fleet metrics held by the
// metric.MetricsRegistry (open buffers, releases by reason, rejected writes,
// blocked write latency, drain sizes). Close unregisters the per-buffer
// metrics so the name can be reused.
//
// # Thread Safety
//
// All buffer operations are safe for concurrent use by multiple producers and
// consumers.
package buffer
