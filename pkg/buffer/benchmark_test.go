package buffer

import (
	"fmt"
	"testing"

	"github.com/c360/ringbuffer/metric"
)

// BenchmarkBufferWrite benchmarks buffer Write operations across overflow policies.
func BenchmarkBufferWrite(b *testing.B) {
	for _, policy := range []OverflowPolicy{DropOldest, DropNewest, Reject} {
		for _, capacity := range []int{100, 1000} {
			b.Run(fmt.Sprintf("%s_%d", policy, capacity), func(b *testing.B) {
				buf, err := NewCircularBuffer[int](capacity, WithOverflowPolicy[int](policy))
				if err != nil {
					b.Fatal(err)
				}
				defer buf.Close()

				b.ResetTimer()
				b.RunParallel(func(pb *testing.PB) {
					i := 0
					for pb.Next() {
						_ = buf.Write(i)
						i++
					}
				})
			})
		}
	}
}

// BenchmarkBufferWriteRead measures a write immediately followed by a read.
func BenchmarkBufferWriteRead(b *testing.B) {
	buf, err := NewCircularBuffer[int](1024)
	if err != nil {
		b.Fatal(err)
	}
	defer buf.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = buf.Write(i)
		buf.Read()
	}
}

// BenchmarkBufferWithMetrics measures the Prometheus overhead on the write path.
func BenchmarkBufferWithMetrics(b *testing.B) {
	registry := metric.NewMetricsRegistry()
	buf, err := NewCircularBuffer[int](1024, WithMetrics[int](registry, "bench"))
	if err != nil {
		b.Fatal(err)
	}
	defer buf.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = buf.Write(i)
		buf.Read()
	}
}

func BenchmarkBufferReadBatch(b *testing.B) {
	for _, batch := range []int{1, 16, 256} {
		b.Run(fmt.Sprintf("batch_%d", batch), func(b *testing.B) {
			buf, err := NewCircularBuffer[int](1024)
			if err != nil {
				b.Fatal(err)
			}
			defer buf.Close()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				for j := 0; j < batch; j++ {
					_ = buf.Write(j)
				}
				buf.ReadBatch(batch)
			}
		})
	}
}

func BenchmarkBufferDrain(b *testing.B) {
	buf, err := NewCircularBuffer[int](256)
	if err != nil {
		b.Fatal(err)
	}
	defer buf.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for j := 0; j < 256; j++ {
			_ = buf.Write(j)
		}
		buf.Drain()
	}
}

// BenchmarkBufferConcurrentAccess runs writers and readers against one buffer.
func BenchmarkBufferConcurrentAccess(b *testing.B) {
	buf, err := NewCircularBuffer[int](4096)
	if err != nil {
		b.Fatal(err)
	}
	defer buf.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i%2 == 0 {
				_ = buf.Write(i)
			} else {
				buf.Read()
			}
			i++
		}
	})
}
