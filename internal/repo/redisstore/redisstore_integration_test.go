//go:build integration

package redisstore

// go test -tags=integration ./internal/repo/redisstore -count=1

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/hamed0406/connprobe/internal/domain"
	"github.com/hamed0406/connprobe/internal/probe"
	"github.com/hamed0406/connprobe/internal/repo"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestAgainstRealRedis(t *testing.T) {
	ctx := context.Background()
	rdb, err := Open(ctx, startRedis(t), zap.NewNop())
	require.NoError(t, err)
	defer rdb.Close()

	out := probe.NewKVChecker(rdb).Check(ctx)
	require.True(t, out.Success, "error: %s", out.Error)
	assert.Equal(t, "PONG", out.Data["message"])

	s := NewStateStore(rdb, "")
	require.NoError(t, s.Set(ctx, repo.StateRecord{Backend: domain.BackendRedis, LastUp: true}))
	rec, err := s.Get(ctx, domain.BackendRedis)
	require.NoError(t, err)
	assert.True(t, rec.LastUp)
}
