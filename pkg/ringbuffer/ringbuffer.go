package ringbuffer

import "fmt"

// Cleanable is implemented by element types that hold resources which must be
// released when the buffer destroys them without handing them to a caller.
type Cleanable interface {
	// Cleanup releases the element's resources. It is called at most once per element.
	Cleanup()
}

// ReleaseFunc destroys an element the buffer still owns.
type ReleaseFunc[T any] func(item T)

// Discard is the default release behavior: it calls Cleanup when the item
// implements Cleanable and does nothing otherwise.
func Discard[T any](item T) {
	if c, ok := any(item).(Cleanable); ok {
		c.Cleanup()
	}
}

// slot is one storage cell. live is false for cells that were never written
// and for cells whose item was handed out.
type slot[T any] struct {
	item T
	live bool
}

// RingBuffer is a fixed-capacity FIFO queue backed by a circular array.
//
// The zero value is an empty buffer with capacity 0; call Configure before use.
// RingBuffer is not safe for concurrent use.
type RingBuffer[T any] struct {
	slots   []slot[T]
	head    int // index of the oldest live slot
	size    int
	release ReleaseFunc[T]
}

// New returns an empty, unconfigured buffer.
func New[T any]() RingBuffer[T] {
	return RingBuffer[T]{}
}

// OnRelease sets the function used to destroy elements the buffer drops on its
// own (Configure, Clear, and abandoned drains). A nil fn restores Discard.
func (rb *RingBuffer[T]) OnRelease(fn ReleaseFunc[T]) {
	rb.release = fn
}

// Configure replaces the storage with capacity empty slots. Elements still held
// are released first, oldest first. Negative capacities are treated as zero.
func (rb *RingBuffer[T]) Configure(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	rb.releaseAll()
	rb.slots = make([]slot[T], capacity)
	rb.head = 0
	rb.size = 0
}

// Clear releases every held element and keeps the current capacity.
func (rb *RingBuffer[T]) Clear() {
	rb.Configure(len(rb.slots))
}

// Push appends item at the tail. It reports false, leaving the buffer
// untouched, when the buffer is full.
func (rb *RingBuffer[T]) Push(item T) bool {
	rb.check()
	if rb.size == len(rb.slots) {
		return false
	}
	idx := (rb.head + rb.size) % len(rb.slots)
	rb.slots[idx] = slot[T]{item: item, live: true}
	rb.size++
	return true
}

// Pop removes and returns the oldest element. Ownership passes to the caller.
// The second result is false when the buffer is empty.
func (rb *RingBuffer[T]) Pop() (T, bool) {
	rb.check()
	if rb.size == 0 {
		var zero T
		return zero, false
	}
	var out slot[T]
	out, rb.slots[rb.head] = rb.slots[rb.head], slot[T]{}
	if !out.live {
		panic(fmt.Sprintf("ringbuffer: slot %d empty with size %d", rb.head, rb.size))
	}
	rb.head = (rb.head + 1) % len(rb.slots)
	rb.size--
	return out.item, true
}

// Peek returns the oldest element without removing it.
func (rb *RingBuffer[T]) Peek() (T, bool) {
	if rb.size == 0 {
		var zero T
		return zero, false
	}
	return rb.slots[rb.head].item, true
}

// Capacity returns the slot count set by the last Configure.
func (rb *RingBuffer[T]) Capacity() int {
	return len(rb.slots)
}

// Len returns the number of held elements.
func (rb *RingBuffer[T]) Len() int {
	return rb.size
}

// IsEmpty reports whether Len is zero.
func (rb *RingBuffer[T]) IsEmpty() bool {
	return rb.size == 0
}

// IsFull reports whether Len equals Capacity. A zero-capacity buffer is full.
func (rb *RingBuffer[T]) IsFull() bool {
	return rb.size == len(rb.slots)
}

func (rb *RingBuffer[T]) releaseAll() {
	release := rb.release
	if release == nil {
		release = Discard[T]
	}
	for rb.size > 0 {
		item, _ := rb.Pop()
		release(item)
	}
}

func (rb *RingBuffer[T]) check() {
	n := len(rb.slots)
	if rb.size < 0 || rb.size > n || (n > 0 && (rb.head < 0 || rb.head >= n)) || (n == 0 && rb.head != 0) {
		panic(fmt.Sprintf("ringbuffer: corrupt cursor head=%d size=%d capacity=%d", rb.head, rb.size, n))
	}
}
