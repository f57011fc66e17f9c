package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts = 120
	DefaultInterval    = 500 * time.Millisecond
)

// ErrExhausted is returned by Poll when every attempt ran without the
// condition being met.
var ErrExhausted = errors.New("retry attempts exhausted")

// errPending marks an attempt that finished cleanly but is not done yet.
var errPending = errors.New("condition not met")

// Condition is evaluated once per attempt. A non-nil error stops polling.
type Condition func(ctx context.Context) (done bool, err error)

// PollConfig bounds a polling loop.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
	OnPending   func(attempt int)
}

// Poll evaluates cond at a fixed interval until it reports done, returns an
// error, ctx is done, or MaxAttempts evaluations have run. The context is
// checked before every attempt.
func Poll(ctx context.Context, cfg PollConfig, cond Condition) error {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}

	var policy backoff.BackOff = backoff.NewConstantBackOff(cfg.Interval)
	policy = backoff.WithMaxRetries(policy, uint64(cfg.MaxAttempts-1))
	policy = backoff.WithContext(policy, ctx)

	attempt := 0
	err := backoff.Retry(func() error {
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		attempt++
		done, err := cond(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !done {
			if cfg.OnPending != nil {
				cfg.OnPending(attempt)
			}
			return errPending
		}
		return nil
	}, policy)

	if errors.Is(err, errPending) {
		return ErrExhausted
	}
	return err
}
