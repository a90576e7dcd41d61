// internal/resilience/retry.go

// Package resilience holds the retry and polling primitives that every browser interaction
// goes through. Both are synchronous: they block the caller with sleep-and-repoll and bound
// their own wait.
package resilience

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/failure"
)

// DefaultBackoff is the fixed pause between retry attempts.
const DefaultBackoff = 10 * time.Millisecond

// Policy describes which failure to retry and how often.
type Policy struct {
	// Kind is the only failure kind that is retried. It is required.
	Kind failure.Kind
	// Attempts is the total number of invocations. 0 and 1 both mean "no retry".
	Attempts int
	// Backoff is the pause between attempts. Defaults to DefaultBackoff.
	Backoff time.Duration
	// Logger receives a debug line per retried attempt. Optional.
	Logger *zap.Logger
}

// Retry invokes op and re-invokes it while it fails with exactly p.Kind, up to p.Attempts
// invocations in total. Any other failure is returned immediately. When attempts run out the
// last failure is returned as-is.
func Retry(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := RetryValue(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// RetryValue is Retry for operations that produce a value.
func RetryValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if p.Kind == failure.KindNone {
		return zero, failure.New(failure.KindInvalidArgument, "retry", "a failure kind to retry on is required")
	}

	attempts := max(p.Attempts, 1)
	backoff := p.Backoff
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if failure.KindOf(err) != p.Kind {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		logger.Debug("Retrying after transient failure.",
			zap.Stringer("kind", p.Kind),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))

		if Pause(ctx, backoff) != nil {
			// Cancelled mid-backoff; the caller still gets the real failure.
			break
		}
	}
	return zero, lastErr
}

// Pause blocks for d or until ctx is done, whichever comes first.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
