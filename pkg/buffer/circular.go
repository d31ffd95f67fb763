package buffer

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/c360/ringbuffer/errors"
	"github.com/c360/ringbuffer/pkg/retry"
	"github.com/c360/ringbuffer/pkg/ringbuffer"
)

// Release reasons reported to the fleet metrics.
const (
	reasonOverflow = "overflow"
	reasonClear    = "clear"
	reasonResize   = "resize"
	reasonClose    = "close"
)

// circularBuffer is a thread-safe circular buffer with configurable overflow policies.
type circularBuffer[T any] struct {
	mu      sync.RWMutex
	ring    ringbuffer.RingBuffer[T]
	name    string
	stats   *Statistics    // ALWAYS initialized for observability
	metrics *bufferMetrics // Optional Prometheus metrics
	opts    *bufferOptions[T]
	logger  *slog.Logger

	notEmpty *sync.Cond
	notFull  *sync.Cond
	closed   bool
}

// newCircularBuffer creates a new circular buffer instance.
// Returns an error if metrics registration fails when requested.
func newCircularBuffer[T any](capacity int, opts *bufferOptions[T]) (*circularBuffer[T], error) {
	if capacity < 0 {
		capacity = 0
	}

	var metrics *bufferMetrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newBufferMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.Wrap(err, "buffer", "newCircularBuffer", "metrics registration")
		}
	}

	cb := &circularBuffer[T]{
		ring:    ringbuffer.New[T](),
		name:    opts.name,
		stats:   NewStatistics(),
		metrics: metrics,
		opts:    opts,
		logger:  opts.logger.With("buffer", opts.name),
	}
	cb.ring.Configure(capacity)
	cb.notEmpty = sync.NewCond(&cb.mu)
	cb.notFull = sync.NewCond(&cb.mu)

	if metrics != nil {
		metrics.updateSize(0, capacity)
	}

	cb.logger.Debug("buffer created",
		"capacity", capacity,
		"policy", opts.overflowPolicy.String(),
		"metrics", metrics != nil)

	return cb, nil
}

// Name returns the buffer name.
func (cb *circularBuffer[T]) Name() string {
	return cb.name
}

// Write adds an item to the buffer according to the overflow policy.
// Under the Block policy the configured write timeout, if any, bounds the wait.
func (cb *circularBuffer[T]) Write(item T) error {
	if cb.opts.overflowPolicy == Block && cb.opts.writeTimeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), cb.opts.writeTimeout)
		defer cancel()
		return cb.write(ctx, item, "Write")
	}
	return cb.write(context.Background(), item, "Write")
}

// WriteWithTimeout attempts to write an item with a timeout when using Block policy.
func (cb *circularBuffer[T]) WriteWithTimeout(item T, timeout time.Duration) error {
	if cb.opts.overflowPolicy != Block {
		return cb.Write(item)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return cb.write(ctx, item, "WriteWithTimeout")
}

// WriteWithContext attempts to write an item with context cancellation when using Block policy.
func (cb *circularBuffer[T]) WriteWithContext(ctx context.Context, item T) error {
	if cb.opts.overflowPolicy != Block {
		return cb.Write(item)
	}
	return cb.write(ctx, item, "WriteWithContext")
}

// WriteWithRetry repeats the write while the retry policy accepts the error.
// Running out of attempts yields ErrMaxRetriesExceeded; a context that ends
// first yields ErrRetryTimeout. Errors the policy refuses are returned as
// retry.NonRetryable.
func (cb *circularBuffer[T]) WriteWithRetry(ctx context.Context, item T) error {
	policy := cb.opts.retryPolicy
	err := retry.Do(ctx, policy.ToRetryConfig(), func() error {
		err := cb.WriteWithContext(ctx, item)
		if err == nil || policy.ShouldRetry(err) {
			return err
		}
		return retry.NonRetryable(err)
	})

	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil && stderrors.Is(err, ctx.Err()):
		err = errors.WrapTransient(fmt.Errorf("%w: %w", errors.ErrRetryTimeout, err),
			"Buffer", "WriteWithRetry", "retry")
	case retry.IsNonRetryable(err):
		return err
	case policy.ShouldRetry(err):
		err = errors.WrapTransient(fmt.Errorf("%w: %w", errors.ErrMaxRetriesExceeded, err),
			"Buffer", "WriteWithRetry", "retry")
	default:
		return err
	}

	cb.logger.Debug("retried write abandoned",
		"class", errors.Classify(err).String(),
		"error", err)
	return err
}

func (cb *circularBuffer[T]) write(ctx context.Context, item T, op string) error {
	cb.mu.Lock()

	if cb.closed {
		cb.mu.Unlock()
		return errors.WrapInvalid(errors.ErrBufferClosed, "Buffer", op, "buffer closed")
	}

	if cb.ring.Push(item) {
		cb.recordWrite()
		cb.mu.Unlock()
		return nil
	}

	cb.stats.Overflow()

	switch cb.opts.overflowPolicy {
	case DropNewest:
		cb.recordDrop()
		cb.mu.Unlock()
		cb.release([]T{item}, reasonOverflow)
		return nil

	case Reject:
		cb.stats.Reject()
		if cb.metrics != nil {
			cb.metrics.recordOverflow(false)
			cb.metrics.fleet.RecordRejected(cb.name)
		}
		cb.mu.Unlock()
		return errors.WrapTransient(errors.ErrBufferFull, "Buffer", op, "reject policy")

	case Block:
		if cb.metrics != nil {
			cb.metrics.recordOverflow(false)
		}
		if err := cb.waitForSpace(ctx, op); err != nil {
			cb.mu.Unlock()
			return err
		}
		if !cb.ring.Push(item) {
			panic("buffer: push failed after waiting for space")
		}
		cb.recordWrite()
		cb.mu.Unlock()
		return nil

	default: // DropOldest
		dropped := item
		if oldest, ok := cb.ring.Pop(); ok {
			cb.ring.Push(item)
			cb.recordWrite()
			dropped = oldest
		}
		cb.recordDrop()
		cb.mu.Unlock()
		cb.release([]T{dropped}, reasonOverflow)
		return nil
	}
}

// waitForSpace blocks until the ring has a free slot. Called with cb.mu held;
// returns with it held.
func (cb *circularBuffer[T]) waitForSpace(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stop := context.AfterFunc(ctx, func() {
		cb.mu.Lock()
		cb.notFull.Broadcast()
		cb.mu.Unlock()
	})
	defer stop()

	start := time.Now()
	for {
		if cb.closed {
			return errors.WrapInvalid(errors.ErrBufferClosed, "Buffer", op,
				"buffer closed during blocking wait")
		}
		if cb.ring.Capacity() == 0 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Buffer", op,
				"block policy on zero capacity")
		}
		if !cb.ring.IsFull() {
			break
		}
		if err := ctx.Err(); err != nil {
			cb.logger.Warn("blocked write abandoned",
				"op", op,
				"waited", time.Since(start),
				"class", errors.Classify(err).String(),
				"error", err)
			return err
		}
		cb.notFull.Wait()
	}

	if cb.metrics != nil {
		cb.metrics.fleet.RecordBlockedWait(cb.name, time.Since(start))
	}
	return nil
}

// Read retrieves and removes one item from the buffer.
func (cb *circularBuffer[T]) Read() (T, bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	item, ok := cb.ring.Pop()
	if !ok {
		return item, false
	}

	cb.recordRead(1)
	cb.notFull.Signal()

	return item, true
}

// ReadWithContext waits for an item until ctx ends or the buffer is closed.
func (cb *circularBuffer[T]) ReadWithContext(ctx context.Context) (T, error) {
	var zero T

	cb.mu.Lock()
	defer cb.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		cb.mu.Lock()
		cb.notEmpty.Broadcast()
		cb.mu.Unlock()
	})
	defer stop()

	for cb.ring.IsEmpty() {
		if cb.closed {
			return zero, errors.WrapInvalid(errors.ErrBufferClosed, "Buffer", "ReadWithContext", "buffer closed")
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		cb.notEmpty.Wait()
	}

	item, _ := cb.ring.Pop()
	cb.recordRead(1)
	cb.notFull.Signal()

	return item, nil
}

// ReadBatch retrieves and removes up to max items from the buffer.
func (cb *circularBuffer[T]) ReadBatch(max int) []T {
	if max <= 0 {
		return nil
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	readCount := min(max, cb.ring.Len())
	if readCount == 0 {
		return nil
	}

	result := make([]T, 0, readCount)
	for i := 0; i < readCount; i++ {
		item, _ := cb.ring.Pop()
		result = append(result, item)
	}

	cb.recordRead(readCount)
	if cb.metrics != nil {
		cb.metrics.recordBatch(readCount)
	}
	cb.notFull.Broadcast()

	return result
}

// Peek retrieves one item without removing it from the buffer.
func (cb *circularBuffer[T]) Peek() (T, bool) {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	item, ok := cb.ring.Peek()
	if !ok {
		return item, false
	}

	cb.stats.Peek()
	if cb.metrics != nil {
		cb.metrics.recordPeek()
	}

	return item, true
}

// Size returns the current number of items in the buffer.
func (cb *circularBuffer[T]) Size() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.ring.Len()
}

// Capacity returns the maximum number of items the buffer can hold.
func (cb *circularBuffer[T]) Capacity() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.ring.Capacity()
}

// IsFull returns true if the buffer is at maximum capacity.
func (cb *circularBuffer[T]) IsFull() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.ring.IsFull()
}

// IsEmpty returns true if the buffer contains no items.
func (cb *circularBuffer[T]) IsEmpty() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.ring.IsEmpty()
}

// Clear discards all items and keeps the capacity.
func (cb *circularBuffer[T]) Clear() {
	cb.mu.Lock()
	items := cb.takeAll(cb.ring.Capacity())
	cb.stats.Release(len(items))
	cb.notFull.Broadcast()
	cb.mu.Unlock()

	cb.release(items, reasonClear)
	cb.logger.Debug("buffer cleared", "released", len(items))
}

// Resize discards all items and changes the capacity. Negative capacities are
// treated as zero.
func (cb *circularBuffer[T]) Resize(capacity int) error {
	if capacity < 0 {
		capacity = 0
	}

	cb.mu.Lock()
	if cb.closed {
		cb.mu.Unlock()
		return errors.WrapInvalid(errors.ErrBufferClosed, "Buffer", "Resize", "buffer closed")
	}

	previous := cb.ring.Capacity()
	items := cb.takeAll(capacity)
	cb.stats.Release(len(items))
	if cb.metrics != nil {
		cb.metrics.fleet.RecordReconfigure(cb.name)
	}
	cb.notFull.Broadcast()
	cb.mu.Unlock()

	cb.release(items, reasonResize)
	cb.logger.Debug("buffer resized",
		"from", previous,
		"to", capacity,
		"released", len(items))

	return nil
}

// Drain removes and returns every item, oldest first. The caller owns the items.
func (cb *circularBuffer[T]) Drain() []T {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	items := cb.takeAll(cb.ring.Capacity())
	cb.recordRead(len(items))
	if cb.metrics != nil {
		cb.metrics.fleet.RecordDrain(cb.name, len(items))
	}
	cb.notFull.Broadcast()

	return items
}

// Stats returns buffer statistics (always available for observability).
func (cb *circularBuffer[T]) Stats() *Statistics {
	return cb.stats
}

// Close discards remaining items, wakes every blocked caller and rejects
// further writes. Closing twice is a no-op.
func (cb *circularBuffer[T]) Close() error {
	cb.mu.Lock()
	if cb.closed {
		cb.mu.Unlock()
		return nil
	}

	cb.closed = true
	items := cb.takeAll(cb.ring.Capacity())
	cb.stats.Release(len(items))

	cb.notEmpty.Broadcast()
	cb.notFull.Broadcast()
	cb.mu.Unlock()

	cb.release(items, reasonClose)
	if cb.metrics != nil {
		cb.metrics.close()
	}

	cb.logger.Debug("buffer closed", "released", len(items))
	return nil
}

// takeAll empties the ring into a slice, oldest first, and reconfigures it with
// capacity slots. Called with cb.mu held.
func (cb *circularBuffer[T]) takeAll(capacity int) []T {
	d := cb.ring.Drain()
	items := make([]T, 0, d.Len())
	for item, ok := d.Next(); ok; item, ok = d.Next() {
		items = append(items, item)
	}
	d.Close()

	cb.ring.Configure(capacity)
	cb.stats.UpdateSize(0)
	if cb.metrics != nil {
		cb.metrics.updateSize(0, capacity)
	}

	return items
}

// release destroys items the buffer discarded. Must be called without cb.mu held
// so the drop callback may use the buffer.
func (cb *circularBuffer[T]) release(items []T, reason string) {
	if len(items) == 0 {
		return
	}

	destroy := ringbuffer.Discard[T]
	if cb.opts.dropCallback != nil {
		destroy = cb.opts.dropCallback
	}
	for _, item := range items {
		destroy(item)
	}

	if cb.metrics != nil {
		cb.metrics.fleet.RecordReleased(cb.name, reason, len(items))
	}
}

func (cb *circularBuffer[T]) recordWrite() {
	size := cb.ring.Len()
	cb.stats.Write()
	cb.stats.UpdateSize(int64(size))
	if cb.metrics != nil {
		cb.metrics.recordWrite(size, cb.ring.Capacity())
	}
	cb.notEmpty.Signal()
}

func (cb *circularBuffer[T]) recordRead(n int) {
	size := cb.ring.Len()
	cb.stats.Read(n)
	cb.stats.UpdateSize(int64(size))
	if cb.metrics != nil {
		cb.metrics.recordRead(n, size, cb.ring.Capacity())
	}
}

func (cb *circularBuffer[T]) recordDrop() {
	cb.stats.Drop()
	if cb.metrics != nil {
		cb.metrics.recordOverflow(true)
	}
}
