package probe

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hamed0406/connprobe/internal/domain"
)

// KVClient is the subset of *redis.Client the key-value probe needs.
// PING and TIME are both read-only.
type KVClient interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Time(ctx context.Context) *redis.TimeCmd
}

type KVChecker struct {
	Client KVClient
	Now    func() time.Time
}

func NewKVChecker(c KVClient) *KVChecker {
	return &KVChecker{Client: c}
}

func (c *KVChecker) Check(ctx context.Context) domain.ProbeResult {
	if c.Client == nil {
		return domain.Failed(errors.New("key-value store not configured"), nowOr(c.Now))
	}

	pong, err := c.Client.Ping(ctx).Result()
	if err != nil {
		return domain.Failed(err, nowOr(c.Now))
	}
	serverTime, err := c.Client.Time(ctx).Result()
	if err != nil {
		return domain.Failed(err, nowOr(c.Now))
	}
	return domain.Succeeded(map[string]any{
		"current_time": serverTime.UTC(),
		"message":      pong,
	}, nowOr(c.Now))
}
