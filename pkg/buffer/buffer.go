// Package buffer provides thread-safe, observable buffers built on the
// ringbuffer core.
//
// This package offers:
//   - CircularBuffer: a mutex-guarded ringbuffer.RingBuffer with overflow policies
//   - DropOldest, DropNewest, Reject, and Block overflow policies
//   - Statistics always enabled for observability
//   - Optional Prometheus metrics integration via functional options
//
// Items the buffer discards on its own go to the drop callback when one is set,
// and to ringbuffer.Discard otherwise. Items returned by Read, ReadBatch and
// Drain belong to the caller.
package buffer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/c360/ringbuffer/errors"
)

// Buffer represents a generic buffer interface that all buffer implementations must satisfy.
type Buffer[T any] interface {
	// Name identifies the buffer in logs and metric labels.
	Name() string

	// Write adds an item to the buffer.
	// Behavior depends on the overflow policy when the buffer is full.
	Write(item T) error

	// WriteWithContext is Write that gives up when ctx ends while waiting
	// under the Block policy.
	WriteWithContext(ctx context.Context, item T) error

	// WriteWithTimeout is WriteWithContext with a deadline.
	WriteWithTimeout(item T, timeout time.Duration) error

	// WriteWithRetry repeats a refused write with exponential backoff, as
	// directed by the buffer's retry policy.
	WriteWithRetry(ctx context.Context, item T) error

	// Read retrieves and removes the oldest item.
	// Returns the item and true if successful, zero value and false if the buffer is empty.
	Read() (T, bool)

	// ReadWithContext waits for an item until ctx ends.
	ReadWithContext(ctx context.Context) (T, error)

	// ReadBatch retrieves and removes up to max items, oldest first.
	ReadBatch(max int) []T

	// Peek returns the oldest item without removing it.
	Peek() (T, bool)

	// Size returns the current number of items in the buffer.
	Size() int

	// Capacity returns the maximum number of items the buffer can hold.
	Capacity() int

	// IsFull returns true if the buffer is at maximum capacity.
	IsFull() bool

	// IsEmpty returns true if the buffer contains no items.
	IsEmpty() bool

	// Clear discards all items and keeps the capacity.
	Clear()

	// Resize discards all items and changes the capacity.
	Resize(capacity int) error

	// Drain removes and returns every item, oldest first.
	Drain() []T

	// Stats returns buffer statistics (always available for observability).
	Stats() *Statistics

	// Close discards remaining items, wakes blocked callers and rejects further writes.
	Close() error
}

// OverflowPolicy defines how the buffer behaves when it reaches capacity.
type OverflowPolicy int

const (
	// DropOldest removes the oldest item to make room for new items.
	DropOldest OverflowPolicy = iota

	// DropNewest drops new items when the buffer is full.
	DropNewest

	// Reject refuses new items with a transient ErrBufferFull; the caller keeps the item.
	Reject

	// Block causes Write operations to block until space is available.
	Block
)

// String returns a human-readable representation of the overflow policy.
func (p OverflowPolicy) String() string {
	switch p {
	case DropOldest:
		return "DropOldest"
	case DropNewest:
		return "DropNewest"
	case Reject:
		return "Reject"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// ParseOverflowPolicy maps a configuration value (drop_oldest, drop_newest,
// reject, block) to a policy. Matching ignores case.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "drop_oldest", "dropoldest":
		return DropOldest, nil
	case "drop_newest", "dropnewest":
		return DropNewest, nil
	case "reject":
		return Reject, nil
	case "block":
		return Block, nil
	default:
		return DropOldest, errors.WrapInvalid(errors.ErrInvalidConfig, "buffer", "ParseOverflowPolicy",
			fmt.Sprintf("unknown overflow policy %q", s))
	}
}

// DropCallback is called for every item the buffer discards.
type DropCallback[T any] func(item T)

// NewCircularBuffer creates a new circular buffer with the specified capacity and options.
// Stats are ALWAYS collected. Metrics are optional via WithMetrics().
// Returns an error if metrics registration fails when metrics are requested.
func NewCircularBuffer[T any](capacity int, options ...Option[T]) (Buffer[T], error) {
	opts := applyOptions(options...)
	cb, err := newCircularBuffer(capacity, opts)
	if err != nil {
		return nil, err
	}
	return cb, nil
}
