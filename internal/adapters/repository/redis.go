package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces interest records in Redis.
const DefaultRedisKeyPrefix = "i:"

// RedisBackend stores each record as a JSON array under prefix+id.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend connects to addr. socketTimeout bounds dial, read and write;
// reconnects are handled by Client, so the driver does not retry on its own.
func NewRedisBackend(addr, password string, db int, prefix string, socketTimeout time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  socketTimeout,
		ReadTimeout:  socketTimeout,
		WriteTimeout: socketTimeout,
		MaxRetries:   -1,
	})
	return &RedisBackend{client: client, prefix: prefix}
}

// Get implements Backend.Get.
func (r *RedisBackend) Get(ctx context.Context, id string) ([]string, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", id, err)
	}
	var interests []string
	if err := json.Unmarshal(raw, &interests); err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w: %v", id, ErrCorruptRecord, err)
	}
	return interests, true, nil
}

// Set implements Backend.Set.
func (r *RedisBackend) Set(ctx context.Context, id string, interests []string) error {
	if id == "" {
		return ErrEmptyID
	}
	if interests == nil {
		interests = []string{}
	}
	raw, err := json.Marshal(interests)
	if err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	if err := r.client.Set(ctx, r.prefix+id, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	return nil
}

// Ping implements Backend.Ping.
func (r *RedisBackend) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close implements Backend.Close.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}

// Name implements Backend.Name.
func (r *RedisBackend) Name() string { return BackendRedis }
