package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the local-store keys in Redis so overrides and fallback
// records survive across gateway instances.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: rdb}, nil
}

func (s *RedisStore) Get(key string) (string, error) {
	ctx, cancel := s.opCtx()
	defer cancel()

	v, err := s.client.Get(ctx, s.namespaced(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return v, nil
}

func (s *RedisStore) Set(key, value string) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return s.client.Set(ctx, s.namespaced(key), value, 0).Err()
}

func (s *RedisStore) Delete(key string) error {
	ctx, cancel := s.opCtx()
	defer cancel()
	return s.client.Del(ctx, s.namespaced(key)).Err()
}

func (s *RedisStore) namespaced(key string) string {
	return "clientgate:local:" + key
}

func (s *RedisStore) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 3*time.Second)
}
