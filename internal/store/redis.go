package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces keys when no prefix is configured.
const DefaultRedisPrefix = "sipolgar"

// Redis stores keys in a Redis instance. It lets several terminals on a
// shared workstation see the same session.
type Redis struct {
	client *redis.Client
	prefix string
}

// Compile-time interface check.
var _ Store = (*Redis)(nil)

// NewRedis wraps an existing client. Keys are stored as "<prefix>:<key>".
func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix}
}

// OpenRedis parses a redis:// URL and returns a store backed by a new client.
// The caller owns the store and must Close it.
func OpenRedis(url, prefix string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, wrap("open", "", fmt.Errorf("parse redis url: %w", err))
	}
	return NewRedis(redis.NewClient(opts), prefix), nil
}

// Get returns the value stored under key.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrap("get", key, err)
	}
	return v, true, nil
}

// Set stores value under key without expiry.
func (r *Redis) Set(ctx context.Context, key, value string) error {
	return wrap("set", key, r.client.Set(ctx, r.key(key), value, 0).Err())
}

// Remove deletes keys.
func (r *Redis) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return wrap("remove", "", r.client.Del(ctx, full...).Err())
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return wrap("ping", "", r.client.Ping(ctx).Err())
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(k string) string {
	return r.prefix + ":" + k
}
