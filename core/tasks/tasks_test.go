package tasks_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restful/core/tasks"
)

func TestRepeatEvery(t *testing.T) {
	t.Parallel()

	t.Run("stops_after_max_repetitions", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		var completed atomic.Bool
		r := tasks.RepeatEvery(time.Millisecond, func(context.Context) error {
			calls.Add(1)
			return nil
		}, tasks.MaxRepetitions(3), tasks.OnComplete(func() { completed.Store(true) }))

		require.NoError(t, r.Run(context.Background()))
		assert.Equal(t, int32(3), calls.Load())
		assert.True(t, completed.Load())

		stats := r.Stats()
		assert.Equal(t, int64(3), stats.Repetitions)
		assert.False(t, stats.Running)
	})

	t.Run("failures_continue_by_default", func(t *testing.T) {
		t.Parallel()

		errFail := errors.New("fail")
		var seen []error
		r := tasks.RepeatEvery(time.Millisecond, func(context.Context) error {
			return errFail
		}, tasks.MaxRepetitions(2), tasks.OnError(func(err error) { seen = append(seen, err) }))

		require.NoError(t, r.Run(context.Background()))
		assert.Equal(t, []error{errFail, errFail}, seen)
		assert.Equal(t, int64(2), r.Stats().Failures)
	})

	t.Run("raise_errors_stops_loop", func(t *testing.T) {
		t.Parallel()

		errFail := errors.New("fail")
		var calls atomic.Int32
		var completed atomic.Bool
		r := tasks.RepeatEvery(time.Millisecond, func(context.Context) error {
			calls.Add(1)
			return errFail
		}, tasks.RaiseErrors(), tasks.OnComplete(func() { completed.Store(true) }))

		err := r.Run(context.Background())
		assert.ErrorIs(t, err, errFail)
		assert.Equal(t, int32(1), calls.Load())
		assert.False(t, completed.Load())
	})

	t.Run("panic_becomes_error", func(t *testing.T) {
		t.Parallel()

		r := tasks.RepeatEvery(time.Millisecond, func(context.Context) error {
			panic("boom")
		}, tasks.RaiseErrors())

		assert.ErrorIs(t, r.Run(context.Background()), tasks.ErrPanic)
	})

	t.Run("wait_first_respects_cancellation", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		r := tasks.RepeatEvery(time.Millisecond, func(context.Context) error {
			calls.Add(1)
			return nil
		}, tasks.WaitFirst(time.Hour))

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, r.Start(ctx))
		cancel()

		select {
		case <-r.Done():
		case <-time.After(time.Second):
			t.Fatal("repeater did not stop")
		}
		assert.ErrorIs(t, r.Err(), context.Canceled)
		assert.Zero(t, calls.Load())
	})

	t.Run("wait_first_uses_its_own_delay", func(t *testing.T) {
		t.Parallel()

		start := time.Now()
		var first time.Duration
		r := tasks.RepeatEvery(time.Millisecond, func(context.Context) error {
			first = time.Since(start)
			return nil
		}, tasks.WaitFirst(30*time.Millisecond), tasks.MaxRepetitions(1))

		require.NoError(t, r.Run(context.Background()))
		assert.GreaterOrEqual(t, first, 30*time.Millisecond)
	})

	t.Run("sleeps_after_every_run", func(t *testing.T) {
		t.Parallel()

		const interval = 20 * time.Millisecond
		var calls atomic.Int32
		var completedAfter time.Duration
		start := time.Now()
		r := tasks.RepeatEvery(interval, func(context.Context) error {
			calls.Add(1)
			return nil
		}, tasks.MaxRepetitions(2), tasks.OnComplete(func() { completedAfter = time.Since(start) }))

		require.NoError(t, r.Run(context.Background()))
		assert.Equal(t, int32(2), calls.Load())
		assert.GreaterOrEqual(t, completedAfter, 2*interval)
	})

	t.Run("runs_until_cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var calls atomic.Int32
		r := tasks.RepeatEvery(time.Millisecond, func(context.Context) error {
			if calls.Add(1) == 3 {
				cancel()
			}
			return nil
		})

		assert.ErrorIs(t, r.Run(ctx), context.Canceled)
		assert.GreaterOrEqual(t, calls.Load(), int32(3))
	})

	t.Run("invalid_configuration", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, tasks.RepeatEvery(0, func(context.Context) error { return nil }).Run(context.Background()), tasks.ErrInvalidInterval)
		assert.ErrorIs(t, tasks.RepeatEvery(time.Second, nil).Start(context.Background()), tasks.ErrNilFunc)

		r := tasks.RepeatEvery(time.Millisecond, func(context.Context) error { return nil }, tasks.MaxRepetitions(1))
		require.NoError(t, r.Run(context.Background()))
		assert.ErrorIs(t, r.Run(context.Background()), tasks.ErrAlreadyStarted)
	})
}
