package buffer_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/c360/ringbuffer/pkg/buffer"

	cerrors "github.com/c360/ringbuffer/errors"
)

func ExampleNewCircularBuffer() {
	buf, err := buffer.NewCircularBuffer[string](2,
		buffer.WithOverflowPolicy[string](buffer.DropOldest),
		buffer.WithDropCallback(func(s string) { fmt.Println("dropped", s) }),
	)
	if err != nil {
		panic(err)
	}
	defer buf.Close()

	_ = buf.Write("a")
	_ = buf.Write("b")
	_ = buf.Write("c")

	fmt.Println(buf.Drain())
	// Output:
	// dropped a
	// [b c]
}

func ExampleParseConfig() {
	cfg, err := buffer.ParseConfig([]byte("name: jobs\ncapacity: 1\noverflow_policy: reject\n"))
	if err != nil {
		panic(err)
	}

	policy := cerrors.RetryConfig{MaxRetries: 1, InitialDelay: 1, MaxDelay: 1, BackoffFactor: 2}
	buf, err := buffer.New[int](cfg, nil, buffer.WithRetryPolicy[int](policy))
	if err != nil {
		panic(err)
	}
	defer buf.Close()

	_ = buf.Write(1)
	err = buf.WriteWithRetry(context.Background(), 2)
	fmt.Println(buf.Name(), errors.Is(err, cerrors.ErrMaxRetriesExceeded), errors.Is(err, cerrors.ErrBufferFull))
	// Output: jobs true true
}
