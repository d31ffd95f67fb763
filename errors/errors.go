// Package errors provides classified error handling for ringbuffer wrappers.
package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/c360/ringbuffer/pkg/retry"
)

// ErrorClass represents the classification of errors for handling purposes
type ErrorClass int

const (
	// ErrorTransient represents temporary errors that may be retried
	ErrorTransient ErrorClass = iota
	// ErrorInvalid represents errors due to invalid input or configuration
	ErrorInvalid
	// ErrorFatal represents unrecoverable errors that should stop processing
	ErrorFatal
)

// String returns the string representation of ErrorClass
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorTransient:
		return "transient"
	case ErrorInvalid:
		return "invalid"
	case ErrorFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Standard error variables
var (
	ErrBufferFull   = errors.New("buffer full")
	ErrBufferClosed = errors.New("buffer closed")

	ErrParsingFailed = errors.New("parsing failed")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingConfig = errors.New("missing required configuration")

	// ErrMaxRetriesExceeded marks a retried write that used up its attempts.
	ErrMaxRetriesExceeded = errors.New("maximum retries exceeded")
	// ErrRetryTimeout marks a retried write whose context ended first.
	ErrRetryTimeout = errors.New("retry timeout exceeded")
)

// ClassifiedError wraps an error with its classification
type ClassifiedError struct {
	Class     ErrorClass
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *ClassifiedError) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *ClassifiedError) Unwrap() error {
	return ce.Err
}

// rule recognises unclassified errors by sentinel or message fragment.
type rule struct {
	sentinels []error
	patterns  []string
}

var (
	transientRule = rule{
		sentinels: []error{ErrBufferFull, ErrMaxRetriesExceeded, ErrRetryTimeout,
			context.DeadlineExceeded, context.Canceled},
		patterns: []string{"timeout", "temporary", "unavailable", "busy"},
	}
	fatalRule = rule{
		patterns: []string{"fatal", "panic", "corrupt", "out of memory"},
	}
	invalidRule = rule{
		sentinels: []error{ErrBufferClosed, ErrParsingFailed, ErrInvalidConfig, ErrMissingConfig},
	}
)

func (r rule) match(err error) bool {
	for _, sentinel := range r.sentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	if len(r.patterns) == 0 {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, pattern := range r.patterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// Classify returns the class carried by a ClassifiedError in err's chain, or
// derives one from known sentinels and message fragments. Unknown errors stay
// retryable.
func Classify(err error) ErrorClass {
	var ce *ClassifiedError
	switch {
	case err == nil:
		return ErrorTransient
	case errors.As(err, &ce):
		return ce.Class
	case invalidRule.match(err):
		return ErrorInvalid
	case fatalRule.match(err):
		return ErrorFatal
	default:
		return ErrorTransient
	}
}

// IsTransient checks if an error is transient and should be retried
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Class == ErrorTransient
	}
	return transientRule.match(err)
}

// IsFatal checks if an error is fatal and should stop processing
func IsFatal(err error) bool {
	return err != nil && Classify(err) == ErrorFatal
}

// IsInvalid checks if an error is due to invalid input
func IsInvalid(err error) bool {
	return err != nil && Classify(err) == ErrorInvalid
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

func wrapAs(class ErrorClass, err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return &ClassifiedError{
		Class:     class,
		Err:       wrapped,
		Message:   wrapped.Error(),
		Component: component,
		Operation: method,
	}
}

// WrapTransient wraps an error as transient with context
func WrapTransient(err error, component, method, action string) error {
	return wrapAs(ErrorTransient, err, component, method, action)
}

// WrapFatal wraps an error as fatal with context
func WrapFatal(err error, component, method, action string) error {
	return wrapAs(ErrorFatal, err, component, method, action)
}

// WrapInvalid wraps an error as invalid with context
func WrapInvalid(err error, component, method, action string) error {
	return wrapAs(ErrorInvalid, err, component, method, action)
}

// RetryConfig is the retry policy for writes refused by a full buffer: which
// errors are worth repeating, and how many times and how fast.
type RetryConfig struct {
	MaxRetries      int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	RetryableErrors []error
}

// DefaultRetryConfig retries ErrBufferFull only.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialDelay:    10 * time.Millisecond,
		MaxDelay:        500 * time.Millisecond,
		BackoffFactor:   2.0,
		RetryableErrors: []error{ErrBufferFull},
	}
}

// ShouldRetry reports whether err is transient and, when RetryableErrors is
// set, matches one of them.
func (rc RetryConfig) ShouldRetry(err error) bool {
	if !IsTransient(err) {
		return false
	}
	if len(rc.RetryableErrors) == 0 {
		return true
	}
	return rule{sentinels: rc.RetryableErrors}.match(err)
}

// ToRetryConfig converts to the retry package's Config.
//
// MaxRetries counts attempts after the first, so MaxAttempts is MaxRetries+1.
// Jitter is always enabled.
func (rc RetryConfig) ToRetryConfig() retry.Config {
	return retry.Config{
		MaxAttempts:  rc.MaxRetries + 1,
		InitialDelay: rc.InitialDelay,
		MaxDelay:     rc.MaxDelay,
		Multiplier:   rc.BackoffFactor,
		AddJitter:    true,
	}
}
