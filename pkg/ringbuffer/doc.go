// Package ringbuffer provides a fixed-capacity, array-backed FIFO queue with
// explicit element ownership.
//
// # Overview
//
// RingBuffer stores up to Capacity elements in a circular slice addressed by a
// head index and an element count. Fullness and emptiness are direct
// comparisons against the count, so there is no head == tail ambiguity and no
// unbounded counter to overflow.
//
// The buffer is a plain value with no locking. Wrap it (see package buffer)
// when goroutines share it.
//
// # Quick Start
//
//	var rb ringbuffer.RingBuffer[int]
//	rb.Configure(2)
//
//	rb.Push(1) // true
//	rb.Push(2) // true
//	rb.Push(3) // false: full, the caller keeps 3
//
//	v, ok := rb.Pop() // 1, true
//
// # Ownership
//
// The buffer owns every element it holds. Ownership moves to the caller when an
// element is returned by Pop or by a Drainer, and never before. Elements the
// buffer drops on its own are released exactly once:
//
//   - Configure and Clear release everything still held
//   - Drainer.Close releases whatever the drain did not hand out
//   - a range over All that stops early releases the rest
//
// Release calls Cleanup on elements implementing Cleanable, or the function
// installed with OnRelease.
//
// # Draining
//
// Drain moves the buffer's contents into a Drainer and leaves the source empty
// with capacity 0:
//
//	for conn := range rb.All() {
//		if conn.Broken() {
//			break // remaining conns are released here
//		}
//		serve(conn)
//	}
//
// # Equality
//
// Buffers are not comparable. Compare the drained sequences when logical
// contents matter.
package ringbuffer
