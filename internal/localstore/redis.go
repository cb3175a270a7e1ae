package localstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores each key as one Redis string value.
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV connects to the Redis at url and verifies the connection.
func NewRedisKV(ctx context.Context, url string) (*RedisKV, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis kv: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis kv ping: %w", err)
	}
	return &RedisKV{client: client}, nil
}

// Get returns the value stored under key, or (nil, nil) when absent.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis kv get: %w", err)
	}
	return v, nil
}

// Set stores value under key without expiry.
func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis kv set: %w", err)
	}
	return nil
}

// Ping verifies the connection.
func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (r *RedisKV) Close() error {
	return r.client.Close()
}
