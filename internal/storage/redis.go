package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ Deduper = (*RedisDeduper)(nil)

const dedupKeyPrefix = "linebot:dedup:"

type RedisConfig struct {
	Client *redis.Client
}

type RedisDeduper struct {
	client *redis.Client
}

func NewRedisDeduper(cfg RedisConfig) *RedisDeduper {
	return &RedisDeduper{client: cfg.Client}
}

func (r *RedisDeduper) MarkSeen(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	if id == "" {
		return false, ErrEmptyEventID
	}

	first, err := r.client.SetNX(ctx, dedupKeyPrefix+id, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark event seen: %w", err)
	}
	return first, nil
}

func (r *RedisDeduper) Forget(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyEventID
	}
	if err := r.client.Del(ctx, dedupKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to forget event: %w", err)
	}
	return nil
}

func (r *RedisDeduper) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisDeduper) Close() error {
	return r.client.Close()
}
