// internal/browser/refresh.go
package browser

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/gauntlet/internal/failure"
	"github.com/xkilldash9x/gauntlet/internal/resilience"
)

const (
	// RefreshIterations caps RefreshUntil when the caller passes 0.
	RefreshIterations = 30
	// RefreshPause is the settle time after each reload when the caller passes 0.
	RefreshPause = time.Second
)

// RefreshUntil reloads the page until cond holds. Missing or stale elements read as false.
// After maxIterations reloads without success it fails with KindRefreshTimeout, which halts
// the suite.
func (s *Session) RefreshUntil(ctx context.Context, cond func(ctx context.Context) (bool, error), maxIterations int, pause time.Duration) error {
	if maxIterations <= 0 {
		maxIterations = RefreshIterations
	}
	if pause <= 0 {
		pause = RefreshPause
	}

	for count := 0; ; {
		ok, err := cond(ctx)
		if err != nil && !gone(err) {
			return err
		}
		if ok {
			return nil
		}

		if err := s.driver.Refresh(ctx); err != nil {
			return err
		}
		if err := resilience.Pause(ctx, pause); err != nil {
			return err
		}
		count++
		if count >= maxIterations {
			s.logger.Error("Data refresh timed out.", zap.Int("reloads", count))
			return failure.New(failure.KindRefreshTimeout, "refresh until", fmt.Sprintf("data refresh timed out after %d reloads", count))
		}
	}
}
