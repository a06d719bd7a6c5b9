package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "loancompass:v1:"

type redisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedis connects a Redis-backed store and verifies connectivity. Only
// construction can fail; once built, the store absorbs operational errors
// like every other backend.
func NewRedis(ctx context.Context, url string, logger *slog.Logger) (Store, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &redisStore{client: client, logger: logger}, nil
}

// NewRedisWithClient wraps an existing client, used by tests.
func NewRedisWithClient(client *redis.Client, logger *slog.Logger) Store {
	return &redisStore{client: client, logger: logger}
}

func (s *redisStore) Set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("store set failed", "key", key, "error", err)
		return
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, raw, 0).Err(); err != nil {
		s.logger.Warn("store set failed", "key", key, "error", err)
	}
}

func (s *redisStore) Get(ctx context.Context, key string, out any) bool {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		s.logger.Warn("store get failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("store entry corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *redisStore) Remove(ctx context.Context, key string) {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		s.logger.Warn("store remove failed", "key", key, "error", err)
	}
}

func (s *redisStore) Clear(ctx context.Context) {
	keys, err := s.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		s.logger.Warn("store clear failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("store clear failed", "error", err)
	}
}
