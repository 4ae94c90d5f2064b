// Package executor bounds the number of simultaneously in-flight tasks.
package executor

import (
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Bounded runs scheduled tasks with at most limit of them in flight.
// Failure policy is best-effort: a failing task never cancels its siblings,
// every scheduled task runs to completion and Drain returns the aggregate of
// all task errors.
type Bounded struct {
	g    errgroup.Group
	mu   sync.Mutex
	errs error
}

// NewBounded creates an executor with the given concurrency limit.
// Limits below 1 are treated as 1 (strictly serial).
func NewBounded(limit int) *Bounded {
	if limit < 1 {
		limit = 1
	}
	b := &Bounded{}
	b.g.SetLimit(limit)
	return b
}

// Schedule runs task in the background. It blocks while the concurrency
// limit is saturated.
func (b *Bounded) Schedule(task func() error) {
	b.g.Go(func() error {
		if err := task(); err != nil {
			b.mu.Lock()
			b.errs = multierr.Append(b.errs, err)
			b.mu.Unlock()
		}
		return nil
	})
}

// Drain waits for all scheduled tasks to finish and returns their aggregated
// errors. It must be called exactly once per batch.
func (b *Bounded) Drain() error {
	_ = b.g.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errs
}
