package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/hamed0406/connprobe/internal/domain"
	"github.com/hamed0406/connprobe/internal/repo"
)

// DefaultStateKey is the hash holding one field per backend.
const DefaultStateKey = "connprobe:state"

// Open builds a client from a redis:// URL. Like postgres.Open it only warns
// when the server cannot be reached.
func Open(ctx context.Context, rawURL string, log *zap.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opt.MaxRetries = 3
	rdb := redis.NewClient(opt)

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctxPing).Err(); err != nil {
		log.Warn("redis_unreachable", zap.String("addr", opt.Addr), zap.Error(err))
	} else {
		log.Info("redis_connected", zap.String("addr", opt.Addr))
	}
	return rdb, nil
}

type StateStore struct {
	rdb redis.Cmdable
	key string
}

func NewStateStore(rdb redis.Cmdable, key string) *StateStore {
	if key == "" {
		key = DefaultStateKey
	}
	return &StateStore{rdb: rdb, key: key}
}

type stateJSON struct {
	Up      bool       `json:"up"`
	Pending bool       `json:"pending,omitempty"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
}

func (s *StateStore) Get(ctx context.Context, b domain.Backend) (*repo.StateRecord, error) {
	raw, err := s.rdb.HGet(ctx, s.key, string(b)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hget %s: %w", b, err)
	}
	var v stateJSON
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode state %s: %w", b, err)
	}
	return &repo.StateRecord{Backend: b, LastUp: v.Up, PendingDown: v.Pending, LastSentAt: v.SentAt}, nil
}

func (s *StateStore) Set(ctx context.Context, rec repo.StateRecord) error {
	b := rec.Backend
	v := stateJSON{Up: rec.LastUp, Pending: rec.PendingDown}
	if rec.LastSentAt != nil {
		ts := rec.LastSentAt.UTC()
		v.SentAt = &ts
	}
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.rdb.HSet(ctx, s.key, string(b), body).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", b, err)
	}
	return nil
}
