package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/hamed0406/connprobe/internal/domain"
)

type timeoutChecker struct {
	inner Checker
	d     time.Duration
	now   func() time.Time
}

// WithTimeout bounds c to d. The bound holds even if the inner client ignores
// its context. d <= 0 returns c unchanged, so a hung backend blocks forever.
func WithTimeout(c Checker, d time.Duration) Checker {
	if d <= 0 {
		return c
	}
	return &timeoutChecker{inner: c, d: d, now: time.Now}
}

func (t *timeoutChecker) Check(ctx context.Context) domain.ProbeResult {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	done := make(chan domain.ProbeResult, 1)
	panicked := make(chan any, 1)
	go func() {
		defer func() {
			if v := recover(); v != nil {
				panicked <- v
			}
		}()
		done <- t.inner.Check(ctx)
	}()

	select {
	case r := <-done:
		return r
	case v := <-panicked:
		// re-raise on the caller's goroutine so HTTP recovery sees it
		panic(v)
	case <-ctx.Done():
		return domain.Failed(fmt.Errorf("probe timed out after %s: %w", t.d, ctx.Err()), nowOr(t.now))
	}
}
