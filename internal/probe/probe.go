package probe

import (
	"context"
	"time"

	"github.com/hamed0406/connprobe/internal/domain"
)

// Checker performs one side-effect-free diagnostic call against a backend.
// Failures are reported inside the result, never as a Go error or panic.
type Checker interface {
	Check(ctx context.Context) domain.ProbeResult
}

type CheckerFunc func(ctx context.Context) domain.ProbeResult

func (f CheckerFunc) Check(ctx context.Context) domain.ProbeResult { return f(ctx) }

// Unavailable returns a Checker that always fails with err. It stands in for a
// backend whose client could not be constructed (e.g. a malformed URL).
func Unavailable(err error) Checker {
	return CheckerFunc(func(context.Context) domain.ProbeResult {
		return domain.Failed(err, time.Now())
	})
}

func nowOr(f func() time.Time) time.Time {
	if f != nil {
		return f()
	}
	return time.Now()
}
