package ringbuffer_test

import (
	"fmt"

	"github.com/c360/ringbuffer/pkg/ringbuffer"
)

func ExampleRingBuffer() {
	var rb ringbuffer.RingBuffer[int]
	rb.Configure(2)

	fmt.Println(rb.Push(1), rb.Push(2), rb.Push(3))

	for {
		v, ok := rb.Pop()
		if !ok {
			break
		}
		fmt.Println(v)
	}
	// Output:
	// true true false
	// 1
	// 2
}

type conn struct{ name string }

func (c *conn) Cleanup() { fmt.Println("closed", c.name) }

func ExampleRingBuffer_All() {
	var rb ringbuffer.RingBuffer[*conn]
	rb.Configure(3)
	rb.Push(&conn{"a"})
	rb.Push(&conn{"b"})
	rb.Push(&conn{"c"})

	for c := range rb.All() {
		fmt.Println("serve", c.name)
		break
	}
	// Output:
	// serve a
	// closed b
	// closed c
}
