package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyPrefixRecord namespaces inventory records in a shared Redis.
const KeyPrefixRecord = "hwtrack:record:"

// RecordKey returns the Redis key holding the named record.
func RecordKey(name string) string {
	return KeyPrefixRecord + name
}

// Redis keeps the record under a single string key, without expiry.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis wraps an already connected client.
func NewRedis(client *redis.Client, name string) *Redis {
	return &Redis{
		client: client,
		key:    RecordKey(name),
	}
}

func (r *Redis) Read(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return data, nil
}

func (r *Redis) Write(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

func (r *Redis) Driver() string { return "redis" }

func (r *Redis) Close() error { return r.client.Close() }
