// Package app assembles probes and the watcher from a config.Config.
package app

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/hamed0406/connprobe/internal/config"
	"github.com/hamed0406/connprobe/internal/domain"
	"github.com/hamed0406/connprobe/internal/notify"
	"github.com/hamed0406/connprobe/internal/probe"
	"github.com/hamed0406/connprobe/internal/repo"
	"github.com/hamed0406/connprobe/internal/repo/memory"
	"github.com/hamed0406/connprobe/internal/repo/postgres"
	"github.com/hamed0406/connprobe/internal/repo/redisstore"
	"github.com/hamed0406/connprobe/internal/scheduler"
)

// Backends owns the store clients behind the probe suite.
type Backends struct {
	Suite *probe.Suite
	Redis *redis.Client // nil when REDIS_URL did not parse

	closers []func()
}

// Open builds clients for both stores. A client that cannot be built is
// replaced by a probe that reports why; Open itself never fails.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) *Backends {
	b := &Backends{Suite: probe.NewSuite(cfg.ProbeConcurrent)}

	var sql probe.Checker
	pool, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("postgres_config_invalid", zap.String("url", config.Redact(cfg.DatabaseURL)), zap.Error(err))
		sql = probe.Unavailable(err)
	} else {
		sql = probe.NewSQLChecker(pool)
		b.closers = append(b.closers, pool.Close)
	}

	var kv probe.Checker
	rdb, err := redisstore.Open(ctx, cfg.RedisURL, logger)
	if err != nil {
		logger.Error("redis_config_invalid", zap.String("url", config.Redact(cfg.RedisURL)), zap.Error(err))
		kv = probe.Unavailable(err)
	} else {
		kv = probe.NewKVChecker(rdb)
		b.Redis = rdb
		b.closers = append(b.closers, func() { _ = rdb.Close() })
	}

	b.Suite.
		Add(domain.BackendPostgres, Bound(sql, cfg)).
		Add(domain.BackendRedis, Bound(kv, cfg))
	return b
}

// Bound applies the per-attempt timeout and the retry policy to c.
func Bound(c probe.Checker, cfg config.Config) probe.Checker {
	return &probe.RetryChecker{
		Inner:    probe.WithTimeout(c, cfg.ProbeTimeout),
		Attempts: cfg.RetryAttempts,
		Backoff:  cfg.RetryBackoff,
	}
}

func (b *Backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
	b.closers = nil
}

// StateStore picks where the watcher remembers backend state. The redis
// backend falls back to memory when no redis client exists.
func (b *Backends) StateStore(cfg config.Config, logger *zap.Logger) repo.StateStore {
	if cfg.StateBackend == "redis" {
		if b.Redis != nil {
			return redisstore.NewStateStore(b.Redis, redisstore.DefaultStateKey)
		}
		logger.Warn("state_backend_fallback", zap.String("wanted", "redis"), zap.String("using", "memory"))
	}
	return memory.New()
}

// Notifier fans alerts out to the log and, when configured, Slack.
func Notifier(cfg config.Config, logger *zap.Logger) notify.Notifier {
	m := notify.Multi{notify.Log{Logger: logger}}
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		m = append(m, s)
	}
	return m
}

func (b *Backends) Watcher(cfg config.Config, logger *zap.Logger) *scheduler.Watcher {
	return scheduler.NewWatcher(
		logger,
		b.Suite,
		b.StateStore(cfg, logger),
		Notifier(cfg, logger),
		scheduler.WatcherConfig{
			Interval:        cfg.WatchInterval,
			Cooldown:        cfg.WatchCooldown,
			AlertOnRecovery: cfg.AlertOnRecovery,
		},
	)
}
