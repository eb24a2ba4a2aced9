package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hamed0406/connprobe/internal/domain"
)

// fake checker you can control
type fakeChecker struct {
	results []domain.ProbeResult
	i       int
}

func (f *fakeChecker) Check(ctx context.Context) domain.ProbeResult {
	if f.i >= len(f.results) {
		return domain.ProbeResult{Success: false, Error: "no more"}
	}
	r := f.results[f.i]
	f.i++
	return r
}

func TestRetryChecker_SucceedsAfterRetry(t *testing.T) {
	f := &fakeChecker{
		results: []domain.ProbeResult{
			{Success: false, Error: "first fail"},
			{Success: true, Data: map[string]any{"message": "ok"}},
			{Success: false, Error: "never reached"},
		},
	}
	rc := &RetryChecker{Inner: f, Attempts: 3, Backoff: 10 * time.Millisecond}

	out := rc.Check(context.Background())
	assert.True(t, out.Success)
	assert.Equal(t, 2, f.i, "should stop at first success")
	assert.Equal(t, 2, out.Attempts)
}

func TestRetryChecker_AllFailKeepsErrorVerbatim(t *testing.T) {
	f := &fakeChecker{
		results: []domain.ProbeResult{
			{Success: false, Error: "fail1"},
			{Success: false, Error: "fail2"},
		},
	}
	rc := &RetryChecker{Inner: f, Attempts: 2}

	out := rc.Check(context.Background())
	assert.False(t, out.Success)
	assert.Equal(t, "fail2", out.Error)
	assert.Equal(t, 2, out.Attempts)
}

func TestRetryChecker_SingleAttemptKeepsErrorVerbatim(t *testing.T) {
	f := &fakeChecker{results: []domain.ProbeResult{{Success: false, Error: "connection refused"}}}
	rc := &RetryChecker{Inner: f, Attempts: 0}

	out := rc.Check(context.Background())
	assert.Equal(t, "connection refused", out.Error)
	assert.Equal(t, 1, f.i)
	assert.Zero(t, out.Attempts)
}

func TestRetryChecker_StopsOnCancel(t *testing.T) {
	f := &fakeChecker{results: []domain.ProbeResult{
		{Success: false, Error: "down"},
		{Success: false, Error: "down"},
	}}
	rc := &RetryChecker{Inner: f, Attempts: 5, Backoff: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	out := rc.Check(ctx)
	assert.False(t, out.Success)
	assert.Equal(t, 1, f.i)
	assert.Equal(t, "down", out.Error)
	assert.Equal(t, 1, out.Attempts)
}
