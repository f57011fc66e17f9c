package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoll_DoneImmediately(t *testing.T) {
	var calls int
	err := Poll(context.Background(), PollConfig{Interval: time.Millisecond, MaxAttempts: 3}, func(context.Context) (bool, error) {
		calls++
		return true, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPoll_PendingThenDone(t *testing.T) {
	var calls, pending int
	err := Poll(context.Background(), PollConfig{
		Interval:    time.Millisecond,
		MaxAttempts: 5,
		OnPending:   func(int) { pending++ },
	}, func(context.Context) (bool, error) {
		calls++
		return calls == 3, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, pending)
}

func TestPoll_ExhaustsAfterMaxAttempts(t *testing.T) {
	var calls int
	err := Poll(context.Background(), PollConfig{Interval: time.Millisecond, MaxAttempts: 4}, func(context.Context) (bool, error) {
		calls++
		return false, nil
	})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, 4, calls, "must evaluate exactly MaxAttempts times")
}

func TestPoll_ErrorStopsImmediately(t *testing.T) {
	boom := errors.New("boom")
	var calls int
	err := Poll(context.Background(), PollConfig{Interval: time.Millisecond, MaxAttempts: 10}, func(context.Context) (bool, error) {
		calls++
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestPoll_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	err := Poll(ctx, PollConfig{Interval: time.Millisecond, MaxAttempts: 100}, func(context.Context) (bool, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return false, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestPoll_Defaults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Poll(ctx, PollConfig{}, func(context.Context) (bool, error) {
		t.Fatal("condition must not run on a cancelled context")
		return false, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
