package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis snapshot backend.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisSnapshots keeps the response snapshot in Redis under a prefixed key,
// refreshing its expiry on every write. It satisfies responses.Snapshotter.
type RedisSnapshots struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSnapshots connects to Redis and verifies the connection.
func NewRedisSnapshots(ctx context.Context, opts RedisOptions) (*RedisSnapshots, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisSnapshotsFromClient(rdb, opts.TTL), nil
}

// NewRedisSnapshotsFromClient wraps an existing client. A zero ttl means
// snapshots never expire.
func NewRedisSnapshotsFromClient(rdb *redis.Client, ttl time.Duration) *RedisSnapshots {
	return &RedisSnapshots{client: rdb, prefix: "careerfit:", ttl: ttl}
}

func (r *RedisSnapshots) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisSnapshots) Set(ctx context.Context, key, payload string) error {
	if err := r.client.Set(ctx, r.prefix+key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisSnapshots) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisSnapshots) Close() error {
	return r.client.Close()
}
