package executor

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestBounded_RunsAllTasks(t *testing.T) {
	b := NewBounded(4)
	var done atomic.Int64
	for i := 0; i < 100; i++ {
		b.Schedule(func() error {
			done.Add(1)
			return nil
		})
	}
	require.NoError(t, b.Drain())
	assert.EqualValues(t, 100, done.Load())
}

func TestBounded_RespectsLimit(t *testing.T) {
	const limit = 3
	b := NewBounded(limit)
	var (
		inFlight atomic.Int64
		peak     atomic.Int64
	)
	for i := 0; i < 30; i++ {
		b.Schedule(func() error {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			return nil
		})
	}
	require.NoError(t, b.Drain())
	assert.LessOrEqual(t, peak.Load(), int64(limit))
	assert.Positive(t, peak.Load())
}

func TestBounded_Serial(t *testing.T) {
	b := NewBounded(1)
	var (
		inFlight atomic.Int64
		overlap  atomic.Bool
	)
	for i := 0; i < 10; i++ {
		b.Schedule(func() error {
			if inFlight.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			return nil
		})
	}
	require.NoError(t, b.Drain())
	assert.False(t, overlap.Load())
}

func TestBounded_BestEffort(t *testing.T) {
	// a failing task must not keep its siblings from running
	b := NewBounded(2)
	var (
		done      atomic.Int64
		errBroken = errors.New("broken")
	)
	b.Schedule(func() error {
		return errBroken
	})
	for i := 0; i < 20; i++ {
		b.Schedule(func() error {
			done.Add(1)
			return nil
		})
	}
	err := b.Drain()
	require.Error(t, err)
	assert.ErrorIs(t, err, errBroken)
	assert.EqualValues(t, 20, done.Load())
}

func TestBounded_AggregatesErrors(t *testing.T) {
	b := NewBounded(4)
	for i := 0; i < 3; i++ {
		b.Schedule(func() error {
			return errors.New("boom")
		})
	}
	err := b.Drain()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestNewBounded_MinimumLimit(t *testing.T) {
	b := NewBounded(0)
	b.Schedule(func() error { return nil })
	require.NoError(t, b.Drain())
}
