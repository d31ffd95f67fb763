package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			if result := test.class.String(); result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"nil error", nil, ErrorTransient},
		{"buffer full", ErrBufferFull, ErrorTransient},
		{"retries exhausted", ErrMaxRetriesExceeded, ErrorTransient},
		{"context deadline", context.DeadlineExceeded, ErrorTransient},
		{"buffer closed", ErrBufferClosed, ErrorInvalid},
		{"wrapped invalid config", fmt.Errorf("load: %w", ErrInvalidConfig), ErrorInvalid},
		{"missing config", ErrMissingConfig, ErrorInvalid},
		{"corrupt in message", errors.New("ringbuffer: corrupt cursor"), ErrorFatal},
		{"unknown error", errors.New("something odd"), ErrorTransient},
		{"classified wins over sentinel", WrapFatal(ErrBufferFull, "Buffer", "Write", "push"), ErrorFatal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if result := Classify(test.err); result != test.expected {
				t.Errorf("expected %s, got %s for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"buffer full", ErrBufferFull, true},
		{"retry timeout", ErrRetryTimeout, true},
		{"context canceled", context.Canceled, true},
		{"buffer closed", ErrBufferClosed, false},
		{"timeout in message", errors.New("operation timeout occurred"), true},
		{"plain error", errors.New("something odd"), false},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: ErrBufferFull}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if result := IsTransient(test.err); result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsFatalAndIsInvalid(t *testing.T) {
	if IsFatal(nil) || IsInvalid(nil) {
		t.Error("nil error must not be fatal or invalid")
	}
	if !IsFatal(errors.New("fatal system error occurred")) {
		t.Error("expected fatal message to be fatal")
	}
	if IsFatal(ErrInvalidConfig) {
		t.Error("invalid configuration is not fatal")
	}
	if !IsInvalid(ErrInvalidConfig) {
		t.Error("expected ErrInvalidConfig to be invalid")
	}
	if IsInvalid(ErrBufferFull) {
		t.Error("buffer full is not invalid")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "Buffer", "Write", "push") != nil {
		t.Error("expected nil for nil error")
	}

	err := Wrap(ErrBufferFull, "Buffer", "Write", "push")
	if err.Error() != "Buffer.Write: push failed: buffer full" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrBufferFull) {
		t.Error("wrapped error should match ErrBufferFull")
	}
}

func TestWrapClassified(t *testing.T) {
	tests := []struct {
		name  string
		wrap  func(error, string, string, string) error
		class ErrorClass
	}{
		{"transient", WrapTransient, ErrorTransient},
		{"invalid", WrapInvalid, ErrorInvalid},
		{"fatal", WrapFatal, ErrorFatal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.wrap(nil, "Buffer", "Write", "push") != nil {
				t.Fatal("expected nil for nil error")
			}

			err := test.wrap(ErrBufferClosed, "Buffer", "Write", "push")
			var ce *ClassifiedError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ClassifiedError, got %T", err)
			}
			if ce.Class != test.class {
				t.Errorf("expected class %s, got %s", test.class, ce.Class)
			}
			if ce.Component != "Buffer" || ce.Operation != "Write" {
				t.Errorf("unexpected component/operation %s/%s", ce.Component, ce.Operation)
			}
			if err.Error() != "Buffer.Write: push failed: buffer closed" {
				t.Errorf("unexpected message %q", err.Error())
			}
			if !errors.Is(err, ErrBufferClosed) {
				t.Error("classified error should unwrap to ErrBufferClosed")
			}
		})
	}
}

func TestRetryConfig_ShouldRetry(t *testing.T) {
	full := WrapTransient(ErrBufferFull, "Buffer", "Write", "reject policy")
	closed := WrapInvalid(ErrBufferClosed, "Buffer", "Write", "closed")
	deadline := fmt.Errorf("wait: %w", context.DeadlineExceeded)

	tests := []struct {
		name     string
		policy   RetryConfig
		err      error
		expected bool
	}{
		{"default retries full", DefaultRetryConfig(), full, true},
		{"default skips deadline", DefaultRetryConfig(), deadline, false},
		{"default skips closed", DefaultRetryConfig(), closed, false},
		{"no filter retries any transient", RetryConfig{}, deadline, true},
		{"no filter skips invalid", RetryConfig{}, closed, false},
		{"filter must be transient too", RetryConfig{RetryableErrors: []error{ErrBufferClosed}}, closed, false},
		{"nil error", DefaultRetryConfig(), nil, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if result := test.policy.ShouldRetry(test.err); result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestRetryConfig_ToRetryConfig(t *testing.T) {
	rc := RetryConfig{
		MaxRetries:    4,
		InitialDelay:  5 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 3,
	}

	cfg := rc.ToRetryConfig()
	if cfg.MaxAttempts != 5 {
		t.Errorf("expected 5 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialDelay != 5*time.Millisecond || cfg.MaxDelay != time.Second {
		t.Errorf("unexpected delays %v/%v", cfg.InitialDelay, cfg.MaxDelay)
	}
	if cfg.Multiplier != 3 {
		t.Errorf("expected multiplier 3, got %v", cfg.Multiplier)
	}
	if !cfg.AddJitter {
		t.Error("expected jitter to be enabled")
	}
}
