package probe

import (
	"context"
	"time"

	"github.com/hamed0406/connprobe/internal/domain"
)

// RetryChecker re-runs a failing probe. Attempts <= 1 means a single try,
// and in that case the inner result is returned untouched. Otherwise the last
// result comes back with its error verbatim and Attempts set to the tries made.
type RetryChecker struct {
	Inner    Checker
	Attempts int
	Backoff  time.Duration
}

func (r *RetryChecker) Check(ctx context.Context) domain.ProbeResult {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	if attempts == 1 {
		return r.Inner.Check(ctx)
	}

	var last domain.ProbeResult
	for i := 1; i <= attempts; i++ {
		last = r.Inner.Check(ctx)
		last.Attempts = i
		if last.Success || i == attempts {
			return last
		}
		select {
		case <-ctx.Done():
			return last
		case <-time.After(r.Backoff):
		}
	}
	return last
}
