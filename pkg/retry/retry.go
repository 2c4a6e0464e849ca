package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// FatalError marks an error that must not be retried. Anything else is
// treated as retryable.
type FatalError interface {
	error
	IsFatal() bool
}

type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
	}
}

func (p Policy) backoff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.MaxInterval = p.MaxInterval
	exp.Multiplier = p.Multiplier
	exp.MaxElapsedTime = p.MaxElapsedTime
	exp.RandomizationFactor = 0

	var b backoff.BackOff = exp
	b = backoff.WithContext(b, ctx)
	return backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
}

// Do runs fn with exponential backoff until it succeeds, returns a fatal
// error, or the policy is exhausted.
func Do(ctx context.Context, policy Policy, fn func() error) error {
	return DoWithCallback(ctx, policy, fn, nil)
}

// DoWithCallback is Do with a hook invoked before each backoff sleep,
// carrying the attempt number, the error, and the upcoming delay.
func DoWithCallback(ctx context.Context, policy Policy, fn func() error, onRetry func(attempt int, err error, nextDelay time.Duration)) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 3
	}

	attempt := 0
	operation := func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}

		var fatalErr FatalError
		if errors.As(err, &fatalErr) && fatalErr.IsFatal() {
			return backoff.Permanent(err)
		}

		if onRetry != nil && attempt < policy.MaxAttempts {
			onRetry(attempt, err, NextDelay(attempt, policy))
		}
		return err
	}

	return backoff.Retry(operation, policy.backoff(ctx))
}

// NextDelay computes the delay that follows the given 1-based attempt.
func NextDelay(attempt int, policy Policy) time.Duration {
	delay := policy.InitialInterval
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * policy.Multiplier)
		if policy.MaxInterval > 0 && delay > policy.MaxInterval {
			return policy.MaxInterval
		}
	}
	if policy.MaxInterval > 0 && delay > policy.MaxInterval {
		return policy.MaxInterval
	}
	return delay
}
