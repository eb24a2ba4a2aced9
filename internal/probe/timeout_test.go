package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/hamed0406/connprobe/internal/domain"
)

func hang(release <-chan struct{}) Checker {
	return CheckerFunc(func(ctx context.Context) domain.ProbeResult {
		select {
		case <-ctx.Done():
		case <-release:
		}
		return domain.Succeeded(nil, time.Now())
	})
}

func TestWithTimeout_BoundsHungProbe(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := WithTimeout(hang(nil), 30*time.Millisecond)

	start := time.Now()
	out := c.Check(context.Background())
	elapsed := time.Since(start)

	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "probe timed out after 30ms")
	assert.Less(t, elapsed, time.Second)
}

func TestWithTimeout_BoundHoldsWhenInnerIgnoresContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	stubborn := CheckerFunc(func(context.Context) domain.ProbeResult {
		<-release
		return domain.Succeeded(nil, time.Now())
	})

	out := WithTimeout(stubborn, 20*time.Millisecond).Check(context.Background())
	assert.False(t, out.Success)
}

func TestWithTimeout_FastProbePassesThrough(t *testing.T) {
	ok := CheckerFunc(func(context.Context) domain.ProbeResult {
		return domain.Succeeded(map[string]any{"message": "PONG"}, time.Now())
	})
	out := WithTimeout(ok, time.Second).Check(context.Background())
	assert.True(t, out.Success)
	assert.Equal(t, "PONG", out.Data["message"])
}

func TestWithTimeout_ZeroDisables(t *testing.T) {
	_, wrapped := WithTimeout(hang(nil), 0).(*timeoutChecker)
	assert.False(t, wrapped)
}

func TestWithTimeout_PanicReachesCaller(t *testing.T) {
	c := WithTimeout(CheckerFunc(func(context.Context) domain.ProbeResult {
		panic("driver exploded")
	}), time.Second)

	assert.PanicsWithValue(t, "driver exploded", func() { c.Check(context.Background()) })
}

func TestWithTimeout_UsesInjectedClock(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	fixed := time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)
	c := WithTimeout(hang(release), 10*time.Millisecond).(*timeoutChecker)
	c.now = func() time.Time { return fixed }

	out := c.Check(context.Background())
	assert.False(t, out.Success)
	assert.Equal(t, fixed, out.Timestamp)
}
