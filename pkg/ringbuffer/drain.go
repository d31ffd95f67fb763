package ringbuffer

import "iter"

// Drainer owns a buffer's contents and hands them out in FIFO order, one Pop
// per step. Whatever is left when Close is called is released.
//
// A Drainer must be closed, or ranged over with All until the sequence ends;
// one that is simply dropped never releases the elements it still holds.
type Drainer[T any] struct {
	rb RingBuffer[T]
}

// Drain moves the buffer's contents and release hook into a Drainer. The
// receiver is left empty with capacity 0, so pushes to it fail until it is
// configured again. The caller owns the Drainer and must Close it.
func (rb *RingBuffer[T]) Drain() *Drainer[T] {
	d := &Drainer[T]{rb: *rb}
	*rb = RingBuffer[T]{}
	return d
}

// All returns a sequence that drains the buffer when ranged over. See
// Drainer.All. The buffer is left untouched until iteration starts, so a
// sequence that is never ranged over costs nothing.
func (rb *RingBuffer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		rb.Drain().All()(yield)
	}
}

// Next returns the oldest remaining element, or false once the drain is exhausted.
func (d *Drainer[T]) Next() (T, bool) {
	return d.rb.Pop()
}

// Len returns the exact number of elements not yet handed out.
func (d *Drainer[T]) Len() int {
	return d.rb.Len()
}

// Close releases every remaining element. Calling it again is a no-op.
func (d *Drainer[T]) Close() {
	d.rb.releaseAll()
	d.rb.slots = nil
	d.rb.head = 0
}

// All yields the remaining elements oldest first. If the consumer stops early,
// the elements it did not receive are released before All returns.
func (d *Drainer[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer d.Close()
		for {
			item, ok := d.Next()
			if !ok || !yield(item) {
				return
			}
		}
	}
}
