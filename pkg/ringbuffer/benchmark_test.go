package ringbuffer

import (
	"fmt"
	"testing"
)

// BenchmarkPushPop measures a steady-state push followed by a pop.
func BenchmarkPushPop(b *testing.B) {
	for _, capacity := range []int{16, 1024, 65536} {
		b.Run(fmt.Sprintf("cap_%d", capacity), func(b *testing.B) {
			var rb RingBuffer[int]
			rb.Configure(capacity)
			for i := 0; i < capacity/2; i++ {
				rb.Push(i)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				rb.Push(i)
				rb.Pop()
			}
		})
	}
}

// BenchmarkFillDrain measures filling the buffer and draining it through All.
func BenchmarkFillDrain(b *testing.B) {
	const capacity = 1024
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var rb RingBuffer[int]
		rb.Configure(capacity)
		for j := 0; j < capacity; j++ {
			rb.Push(j)
		}
		sum := 0
		for v := range rb.All() {
			sum += v
		}
		_ = sum
	}
}
