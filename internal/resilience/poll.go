// internal/resilience/poll.go
package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/gauntlet/internal/failure"
)

const (
	// DefaultTimeout bounds a wait when the Poller leaves Timeout unset.
	DefaultTimeout = 10 * time.Second
	// DefaultInterval is the pause between predicate evaluations. One remote round trip per
	// interval keeps the session from being hammered.
	DefaultInterval = 500 * time.Millisecond
)

// Poller blocks until a predicate holds or the timeout elapses.
type Poller struct {
	Timeout  time.Duration
	Interval time.Duration
	// Ignore lists failure kinds that count as "not yet" rather than aborting the wait.
	// nil means the default (no such element); an empty slice ignores nothing.
	Ignore []failure.Kind
	// Retry, when set, wraps every single evaluation of the predicate.
	Retry *Policy
	// Message describes the awaited condition in the timeout error.
	Message string
	Logger  *zap.Logger
}

// Until evaluates cond until it returns true. It fails closed with a KindTimeout error.
func (p Poller) Until(ctx context.Context, cond func(ctx context.Context) (bool, error)) error {
	_, err := PollValue(ctx, p, func(ctx context.Context) (struct{}, bool, error) {
		ok, err := cond(ctx)
		return struct{}{}, ok, err
	})
	return err
}

// PollValue evaluates fn until it reports ok and returns the value it produced.
//
// The first evaluation happens immediately; later ones are paced by a limiter at one per
// Interval. The timeout error is raised no earlier than Timeout and no later than Timeout plus
// one interval (plus the duration of an in-flight evaluation, which is itself bounded by the
// wait's deadline).
func PollValue[T any](ctx context.Context, p Poller, fn func(ctx context.Context) (T, bool, error)) (T, error) {
	var zero T
	timeout, interval := p.timeout(), p.interval()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(interval), 1)
	evaluations := 0
	var lastErr error

	for {
		r := limiter.Reserve()
		if delay := r.Delay(); delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-waitCtx.Done():
				timer.Stop()
				r.Cancel()
				return zero, p.expired(ctx, timeout, evaluations, lastErr)
			case <-timer.C:
			}
		}

		evaluations++
		v, ok, err := evaluate(waitCtx, p, fn)
		switch {
		case err == nil && ok:
			return v, nil
		case err != nil && waitCtx.Err() != nil:
			// The evaluation was cut short by the deadline; that is a timeout, not a failure.
			if lastErr == nil {
				lastErr = err
			}
			return zero, p.expired(ctx, timeout, evaluations, lastErr)
		case err != nil && !p.ignores(err):
			return zero, err
		case err != nil:
			lastErr = err
		}

		if waitCtx.Err() != nil {
			return zero, p.expired(ctx, timeout, evaluations, lastErr)
		}
	}
}

func evaluate[T any](ctx context.Context, p Poller, fn func(ctx context.Context) (T, bool, error)) (T, bool, error) {
	if p.Retry == nil {
		return fn(ctx)
	}

	type result struct {
		v  T
		ok bool
	}
	policy := *p.Retry
	if policy.Logger == nil {
		policy.Logger = p.Logger
	}
	res, err := RetryValue(ctx, policy, func(ctx context.Context) (result, error) {
		v, ok, err := fn(ctx)
		return result{v: v, ok: ok}, err
	})
	return res.v, res.ok, err
}

func (p Poller) timeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return DefaultTimeout
}

func (p Poller) interval() time.Duration {
	if p.Interval > 0 {
		return p.Interval
	}
	return DefaultInterval
}

func (p Poller) ignores(err error) bool {
	ignore := p.Ignore
	if ignore == nil {
		ignore = []failure.Kind{failure.KindNoSuchElement}
	}
	return failure.Is(err, ignore...)
}

func (p Poller) expired(parent context.Context, timeout time.Duration, evaluations int, lastErr error) error {
	// An explicit cancel from the caller is not a timeout.
	if errors.Is(parent.Err(), context.Canceled) {
		return parent.Err()
	}

	msg := p.Message
	if msg == "" {
		msg = "condition"
	}
	msg = fmt.Sprintf("%s not met within %s (%d evaluations)", msg, timeout, evaluations)

	if p.Logger != nil {
		p.Logger.Debug("Wait timed out.", zap.String("condition", p.Message), zap.Duration("timeout", timeout), zap.Error(lastErr))
	}
	return &failure.Error{Kind: failure.KindTimeout, Op: "wait", Msg: msg, Err: lastErr}
}
