package retry

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("backend overloaded")

func transientOnly(err error) bool {
	return errors.Is(err, errTransient)
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	var calls int
	err := Do(context.Background(), func() error {
		calls++
		return nil
	}, Delay(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_TransientThenSuccess(t *testing.T) {
	var (
		calls int
		delay = 20 * time.Millisecond
		start = time.Now()
	)
	err := Do(context.Background(), func() error {
		calls++
		if calls <= 3 {
			return errTransient
		}
		return nil
	}, If(transientOnly), Delay(delay))
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	// three failures mean three backoff waits
	assert.GreaterOrEqual(t, time.Since(start), 3*delay)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	var calls int
	err := Do(context.Background(), func() error {
		calls++
		return errTransient
	}, If(transientOnly), Delay(time.Millisecond))
	require.Error(t, err)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, DefaultAttempts, calls)
}

func TestDo_FatalNotRetried(t *testing.T) {
	var (
		calls int
		fatal = errors.New("no such object")
	)
	err := Do(context.Background(), func() error {
		calls++
		return fatal
	}, If(transientOnly), Delay(time.Millisecond))
	require.Error(t, err)
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	err := Do(ctx, func() error {
		calls++
		cancel()
		return errTransient
	}, If(transientOnly), Delay(time.Second))
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoWithData(t *testing.T) {
	var calls int
	got, err := DoWithData(context.Background(), func() (string, error) {
		calls++
		if calls == 1 {
			return "", errTransient
		}
		return "value", nil
	}, If(transientOnly), Delay(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, "value", got)
	assert.Equal(t, 2, calls)
}

func TestDo_AttemptsOverride(t *testing.T) {
	var calls int
	err := Do(context.Background(), func() error {
		calls++
		return errTransient
	}, If(transientOnly), Attempts(2), Delay(time.Millisecond))
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}
