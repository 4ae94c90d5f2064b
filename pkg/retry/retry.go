// Package retry wraps avast/retry-go with the constant-backoff policy used
// for all object store operations: a fixed delay between attempts, a bounded
// attempt budget, and a classifier deciding which errors are transient.
package retry

import (
	"context"
	"time"

	retrygo "github.com/avast/retry-go/v4"
)

const (
	// DefaultAttempts is one initial try plus three retries.
	DefaultAttempts = 4
	// DefaultDelay is the constant wait between attempts. The backoff does
	// not grow; overloaded backends recover on their own schedule.
	DefaultDelay = 10 * time.Second
)

type config struct {
	attempts uint
	delay    time.Duration
	retryIf  func(error) bool
}

type Option func(*config)

// Attempts overrides the total attempt budget.
func Attempts(v uint) Option {
	return func(c *config) {
		c.attempts = v
	}
}

// Delay overrides the constant wait between attempts.
func Delay(v time.Duration) Option {
	return func(c *config) {
		c.delay = v
	}
}

// If sets the classifier consulted after every failure. Errors it rejects
// propagate immediately without further attempts.
func If(v func(error) bool) Option {
	return func(c *config) {
		c.retryIf = v
	}
}

// Do runs op until it succeeds, the classifier rejects its error, or the
// attempt budget is exhausted. The last error is returned unchanged.
func Do(ctx context.Context, op func() error, opts ...Option) error {
	return retrygo.Do(op, build(ctx, opts)...)
}

// DoWithData is Do for operations returning a value.
func DoWithData[T any](ctx context.Context, op func() (T, error), opts ...Option) (T, error) {
	return retrygo.DoWithData(op, build(ctx, opts)...)
}

func build(ctx context.Context, opts []Option) []retrygo.Option {
	c := config{
		attempts: DefaultAttempts,
		delay:    DefaultDelay,
		retryIf:  func(error) bool { return true },
	}
	for _, opt := range opts {
		opt(&c)
	}
	return []retrygo.Option{
		retrygo.Context(ctx),
		retrygo.Attempts(c.attempts),
		retrygo.Delay(c.delay),
		retrygo.DelayType(retrygo.FixedDelay),
		retrygo.RetryIf(c.retryIf),
		retrygo.LastErrorOnly(true),
	}
}
